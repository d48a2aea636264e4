package mode

// Mode is the ranking strategy used by the query facade.
type Mode string

// Search mode constants.
const (
	// Index ranks candidates with the inverted index (default).
	Index Mode = "index"
	// Field ranks every document with the field-weighted scorer.
	Field Mode = "field"
	// Hybrid fuses the index and field rankings with Reciprocal Rank Fusion.
	Hybrid Mode = "hybrid"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Index || m == Field || m == Hybrid
}

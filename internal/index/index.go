// Package index is the Okapi BM25 inverted index used for interactive search
// over a whole corpus snapshot. An Index is immutable once built.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/Dicklesworthstone/ranker/internal/analysis"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
)

// BM25 defaults.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
	// idfFloor keeps terms present in most documents from scoring negative.
	idfFloor = 0.25
)

// Field repetition into the composite document.
const (
	titleRepeat       = 3
	idRepeat          = 3
	tagsRepeat        = 2
	descriptionRepeat = 2
	contentRepeat     = 1
)

// Params tunes BM25 saturation (K1) and length normalization (B).
type Params struct {
	K1 float64
	B  float64
}

// DefaultParams returns k1 = 1.2, b = 0.75.
func DefaultParams() Params {
	return Params{K1: DefaultK1, B: DefaultB}
}

// Validate checks BM25 parameter ranges.
func (p Params) Validate() error {
	if math.IsNaN(p.K1) || math.IsInf(p.K1, 0) || p.K1 < 0 {
		return fmt.Errorf("k1 must be a finite non-negative number, got %v", p.K1)
	}
	if math.IsNaN(p.B) || p.B < 0 || p.B > 1 {
		return fmt.Errorf("b must be in [0, 1], got %v", p.B)
	}
	return nil
}

type posting struct {
	doc int
	tf  int
}

// Index is a built corpus snapshot. Safe for concurrent reads.
type Index struct {
	params      Params
	docs        []document.Document
	byID        map[string]int
	postings    map[string][]posting
	idf         map[string]float64
	lengths     []int
	avgLen      float64
	vocab       []string
	acronyms    map[string][]int
	identifiers map[string]int
}

// Build indexes docs. It is a pure function of its inputs; docs is copied.
func Build(docs []document.Document, p Params) *Index {
	x := &Index{
		params:      p,
		docs:        append([]document.Document(nil), docs...),
		byID:        make(map[string]int, len(docs)),
		postings:    make(map[string][]posting),
		idf:         make(map[string]float64),
		lengths:     make([]int, len(docs)),
		acronyms:    make(map[string][]int),
		identifiers: make(map[string]int, len(docs)),
	}

	total := 0
	for i := range x.docs {
		doc := &x.docs[i]
		if _, dup := x.byID[doc.ID()]; !dup {
			x.byID[doc.ID()] = i
			x.identifiers[analysis.NormalizeIdentifier(doc.ID())] = i
		}

		tf := make(map[string]int)
		length := 0
		add := func(text string, repeat int) {
			for _, term := range analysis.Terms(text) {
				tf[term] += repeat
				length += repeat
			}
		}
		add(doc.Title(), titleRepeat)
		add(doc.ID(), idRepeat)
		for _, tag := range doc.Tags() {
			add(tag, tagsRepeat)
		}
		add(doc.Description(), descriptionRepeat)
		add(doc.Content(), contentRepeat)

		terms := make([]string, 0, len(tf))
		for term := range tf {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		for _, term := range terms {
			x.postings[term] = append(x.postings[term], posting{doc: i, tf: tf[term]})
		}
		x.lengths[i] = length
		total += length

		x.addAcronyms(doc.Title(), i)
		x.addAcronyms(doc.ID(), i)
		x.addAcronyms(doc.Description(), i)
		for _, tag := range doc.Tags() {
			x.addAcronyms(tag, i)
		}
	}

	if len(x.docs) > 0 {
		x.avgLen = float64(total) / float64(len(x.docs))
	}

	n := float64(len(x.docs))
	x.vocab = make([]string, 0, len(x.postings))
	for term, list := range x.postings {
		x.vocab = append(x.vocab, term)
		df := float64(len(list))
		x.idf[term] = math.Max(math.Log((n-df+0.5)/(df+0.5)), idfFloor)
	}
	sort.Strings(x.vocab)

	return x
}

func (x *Index) addAcronyms(text string, doc int) {
	for _, a := range analysis.Initials(text) {
		list := x.acronyms[a]
		if len(list) > 0 && list[len(list)-1] == doc {
			continue
		}
		x.acronyms[a] = append(list, doc)
	}
}

// Len returns the number of indexed documents.
func (x *Index) Len() int { return len(x.docs) }

// VocabularySize returns the number of distinct indexed terms.
func (x *Index) VocabularySize() int { return len(x.vocab) }

// Params returns the BM25 parameters the index was built with.
func (x *Index) Params() Params { return x.params }

// Documents returns the indexed snapshot in corpus order. Callers must not modify it.
func (x *Index) Documents() []document.Document { return x.docs }

// Document looks up an indexed document by ID.
func (x *Index) Document(id string) (*document.Document, bool) {
	i, ok := x.byID[id]
	if !ok {
		return nil, false
	}
	return &x.docs[i], true
}

// At returns the document at a corpus position.
func (x *Index) At(pos int) *document.Document { return &x.docs[pos] }

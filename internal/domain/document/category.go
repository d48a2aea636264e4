package document

// Category is the closed set of document categories.
type Category string

// Category constants.
const (
	Ideation      Category = "ideation"
	Documentation Category = "documentation"
	Automation    Category = "automation"
	Refactoring   Category = "refactoring"
	Testing       Category = "testing"
	Debugging     Category = "debugging"
	Workflow      Category = "workflow"
	Communication Category = "communication"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		Ideation, Documentation, Automation, Refactoring,
		Testing, Debugging, Workflow, Communication,
	}
}

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	switch c {
	case Ideation, Documentation, Automation, Refactoring, Testing, Debugging, Workflow, Communication:
		return true
	}
	return false
}

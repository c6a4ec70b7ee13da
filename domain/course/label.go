package course

import "fmt"

// SubjectLabel identifies a subject in the closed course taxonomy. The
// classification stage may only produce labels from this set; anything else
// is rejected at the validation boundary.
type SubjectLabel string

// The JavaScript course taxonomy. Label values match the persisted subject
// titles exactly; the two sets must not diverge.
const (
	LabelGettingStarted    SubjectLabel = "Getting started"
	LabelVariablesAndTypes SubjectLabel = "Variables and types"
	LabelFunctions         SubjectLabel = "Functions"
	LabelObjectsAndArrays  SubjectLabel = "Objects and arrays"
	LabelPrototypes        SubjectLabel = "Prototypes"
	LabelAsync             SubjectLabel = "Async"
	LabelDOM               SubjectLabel = "DOM"
	LabelModules           SubjectLabel = "Modules"
)

// AllSubjectLabels returns every label in the taxonomy in course order.
func AllSubjectLabels() []SubjectLabel {
	return []SubjectLabel{
		LabelGettingStarted,
		LabelVariablesAndTypes,
		LabelFunctions,
		LabelObjectsAndArrays,
		LabelPrototypes,
		LabelAsync,
		LabelDOM,
		LabelModules,
	}
}

// ParseSubjectLabel validates a raw string against the taxonomy.
func ParseSubjectLabel(s string) (SubjectLabel, error) {
	for _, label := range AllSubjectLabels() {
		if string(label) == s {
			return label, nil
		}
	}
	return "", fmt.Errorf("subject label %q is not in the taxonomy", s)
}

// String returns the label as the persisted subject title.
func (l SubjectLabel) String() string { return string(l) }

package types

import "fmt"

// ToolID identifies one of the analysis workflows
type ToolID string

const (
	ToolRegression     ToolID = "regression"
	ToolClassification ToolID = "classification"
	ToolClustering     ToolID = "clustering"
	ToolNLP            ToolID = "nlp"
	ToolEDA            ToolID = "eda"
)

// AllToolIDs returns all valid tool IDs
func AllToolIDs() []ToolID {
	return []ToolID{
		ToolRegression,
		ToolClassification,
		ToolClustering,
		ToolNLP,
		ToolEDA,
	}
}

// IsValid checks if the tool ID is valid
func (t ToolID) IsValid() bool {
	switch t {
	case ToolRegression, ToolClassification, ToolClustering, ToolNLP, ToolEDA:
		return true
	default:
		return false
	}
}

// Supervised reports whether the tool trains against a target column.
// Clustering and NLP are unsupervised and may skip target selection.
func (t ToolID) Supervised() bool {
	switch t {
	case ToolRegression, ToolClassification:
		return true
	default:
		return false
	}
}

// TextBased reports whether the tool operates on a text column
func (t ToolID) TextBased() bool {
	return t == ToolNLP
}

// String returns the string representation of the tool ID
func (t ToolID) String() string {
	return string(t)
}

// ParseToolID parses a string into a ToolID
func ParseToolID(s string) (ToolID, error) {
	tool := ToolID(s)
	if !tool.IsValid() {
		return "", fmt.Errorf("invalid tool ID: %s", s)
	}
	return tool, nil
}

package model

import "fmt"

// LabelError reports a scorer label that does not belong to the schema's
// known label set. It indicates a scorer/schema mismatch and is never
// recovered from.
type LabelError struct {
	Schema string
	Label  string
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("%s schema: unknown label %q", e.Schema, e.Label)
}

// ScoredLabel is one label with the raw score the scorer assigned it.
// Scorers impose no ordering; consumers sort.
type ScoredLabel struct {
	Label string
	Score float64
}

// Analysis is the classification of a single node's text.
type Analysis struct {
	Attitude           Attitude `json:"attitude"`
	AttitudeConfidence float64  `json:"attitude_confidence"`
	Subject            Subject  `json:"subject"`
	SubjectConfidence  float64  `json:"subject_confidence"`
}

// DefaultAnalysis is the value produced for empty text: both fallbacks at
// zero confidence.
func DefaultAnalysis() Analysis {
	return Analysis{
		Attitude: AttitudeNeutral,
		Subject:  SubjectOther,
	}
}

// AnalysisNode is a result-tree node. It mirrors the shape of the input
// node it was produced from, minus children that were dropped (empty text)
// or failed classification. Constructed once, bottom-up; immutable after.
type AnalysisNode struct {
	Analysis Analysis        `json:"analysis"`
	Children []*AnalysisNode `json:"children"`
}

// Size returns the number of nodes in the result tree, this node included.
func (n *AnalysisNode) Size() int {
	total := 1
	for _, child := range n.Children {
		total += child.Size()
	}
	return total
}

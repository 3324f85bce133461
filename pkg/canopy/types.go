package canopy

import "github.com/hollyoak/canopy/internal/model"

// Thread is an input discussion tree: a text plus ordered replies.
type Thread struct {
	Text    string
	Replies []*Thread
}

// threadNode adapts Thread to the internal tree interface.
type threadNode struct {
	t *Thread
}

func (n threadNode) Text() string { return n.t.Text }

func (n threadNode) Replies() []model.Node {
	if len(n.t.Replies) == 0 {
		return nil
	}
	nodes := make([]model.Node, len(n.t.Replies))
	for i, r := range n.t.Replies {
		nodes[i] = threadNode{t: r}
	}
	return nodes
}

// Analysis is one node's classification result.
// This is the stable public type — internal representations may evolve
// independently without breaking consumers.
type Analysis struct {
	Attitude           string  `json:"attitude"`
	AttitudeConfidence float64 `json:"attitude_confidence"`
	Subject            string  `json:"subject"`
	SubjectConfidence  float64 `json:"subject_confidence"`
}

// Tree is a classified discussion tree mirroring the input thread shape,
// minus any empty-text subtrees.
type Tree struct {
	Analysis
	Children []*Tree `json:"children,omitempty"`
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	n := 1
	for _, c := range t.Children {
		n += c.Size()
	}
	return n
}

func fromAnalysis(a model.Analysis) Analysis {
	return Analysis{
		Attitude:           string(a.Attitude),
		AttitudeConfidence: a.AttitudeConfidence,
		Subject:            string(a.Subject),
		SubjectConfidence:  a.SubjectConfidence,
	}
}

func fromInternal(node *model.AnalysisNode) *Tree {
	tree := &Tree{Analysis: fromAnalysis(node.Analysis)}
	for _, c := range node.Children {
		tree.Children = append(tree.Children, fromInternal(c))
	}
	return tree
}

// Package stats computes post-hoc statistics over classified discussion
// trees. Everything here is a pure, read-only reduction; forests are small
// enough that single-threaded traversal is plenty.
package stats

import (
	"math"

	"github.com/hollyoak/canopy/internal/model"
)

// Flatten returns every Analysis in the tree, replies first. Consumers are
// order-independent counts and sums, so the traversal order carries no
// meaning.
func Flatten(tree *model.AnalysisNode) []model.Analysis {
	var out []model.Analysis
	var walk func(n *model.AnalysisNode)
	walk = func(n *model.AnalysisNode) {
		for _, child := range n.Children {
			walk(child)
		}
		out = append(out, n.Analysis)
	}
	walk(tree)
	return out
}

// FlattenForest concatenates Flatten over a forest.
func FlattenForest(forest []*model.AnalysisNode) []model.Analysis {
	var out []model.Analysis
	for _, tree := range forest {
		out = append(out, Flatten(tree)...)
	}
	return out
}

// AttitudeDistribution counts attitude occurrences across a forest. Every
// variant is present in the result, absent ones at zero.
func AttitudeDistribution(forest []*model.AnalysisNode) map[model.Attitude]int {
	dist := make(map[model.Attitude]int, len(model.Attitudes()))
	for _, a := range model.Attitudes() {
		dist[a] = 0
	}
	for _, analysis := range FlattenForest(forest) {
		dist[analysis.Attitude]++
	}
	return dist
}

// SubjectDistribution counts subject occurrences across a forest, every
// variant pre-seeded at zero.
func SubjectDistribution(forest []*model.AnalysisNode) map[model.Subject]int {
	dist := make(map[model.Subject]int, len(model.Subjects()))
	for _, s := range model.Subjects() {
		dist[s] = 0
	}
	for _, analysis := range FlattenForest(forest) {
		dist[analysis.Subject]++
	}
	return dist
}

// Cell is one cross-tabulation bucket.
type Cell struct {
	Subject  model.Subject
	Attitude model.Attitude
}

// CrossTab counts (subject, attitude) co-occurrences across a forest.
func CrossTab(forest []*model.AnalysisNode) map[Cell]int {
	tab := make(map[Cell]int)
	for _, analysis := range FlattenForest(forest) {
		tab[Cell{Subject: analysis.Subject, Attitude: analysis.Attitude}]++
	}
	return tab
}

// ReplyPositivity is the confidence-weighted mean positivity of the node's
// direct replies. Only meaningful for nodes with at least one child; the
// caller guards leaves.
func ReplyPositivity(node *model.AnalysisNode) float64 {
	var sum float64
	for _, child := range node.Children {
		sum += child.Analysis.Attitude.Positivity() * child.Analysis.AttitudeConfidence
	}
	return sum / float64(len(node.Children))
}

// ReplyAgreement is the confidence-weighted mean agreement of the node's
// direct replies. Same leaf caveat as ReplyPositivity.
func ReplyAgreement(node *model.AnalysisNode) float64 {
	var sum float64
	for _, child := range node.Children {
		sum += child.Analysis.Attitude.Agreement() * child.Analysis.AttitudeConfidence
	}
	return sum / float64(len(node.Children))
}

// Divisiveness measures how evenly the node's replies split between
// agreement and disagreement: 1.0 is a perfect split, 0.0 unanimity.
// Replies sitting exactly at 0.5 agreement count toward neither side.
func Divisiveness(node *model.AnalysisNode) float64 {
	var agree, disagree int
	for _, child := range node.Children {
		switch a := child.Analysis.Attitude.Agreement(); {
		case a > 0.5:
			agree++
		case a < 0.5:
			disagree++
		}
	}
	total := agree + disagree
	if total == 0 {
		return 0.0
	}
	return 1.0 - math.Abs(float64(agree-disagree))/float64(total)
}

// AverageReply is the consensus of the node's direct replies: for each
// schema, confidences are summed per category and the best non-fallback
// category wins, its confidence normalized by the reply count. Ties break
// toward the schema's canonical variant order. If no reply lands outside
// the fallback, the fallback wins at zero confidence.
func AverageReply(node *model.AnalysisNode) model.Analysis {
	attitudeSums := make(map[model.Attitude]float64)
	subjectSums := make(map[model.Subject]float64)
	for _, child := range node.Children {
		attitudeSums[child.Analysis.Attitude] += child.Analysis.AttitudeConfidence
		subjectSums[child.Analysis.Subject] += child.Analysis.SubjectConfidence
	}

	n := float64(len(node.Children))
	result := model.DefaultAnalysis()

	bestAttitude := 0.0
	for _, a := range model.Attitudes() {
		if a == model.AttitudeNeutral {
			continue
		}
		if sum, ok := attitudeSums[a]; ok && sum > bestAttitude {
			bestAttitude = sum
			result.Attitude = a
			result.AttitudeConfidence = sum / n
		}
	}

	bestSubject := 0.0
	for _, s := range model.Subjects() {
		if s == model.SubjectOther {
			continue
		}
		if sum, ok := subjectSums[s]; ok && sum > bestSubject {
			bestSubject = sum
			result.Subject = s
			result.SubjectConfidence = sum / n
		}
	}

	return result
}

// Totals are corpus-level counts over a classified forest.
type Totals struct {
	Nodes    int
	Positive int // positivity > 0.5
	Negative int // negativity > 0.5
	Agree    int // agreement > 0.5
	Disagree int // 1 - agreement > 0.5
	Jokes    int // Mocking attitude or Joke subject
}

// ComputeTotals tallies the corpus totals for a forest.
func ComputeTotals(forest []*model.AnalysisNode) Totals {
	var t Totals
	for _, analysis := range FlattenForest(forest) {
		t.Nodes++
		if analysis.Attitude.Positivity() > 0.5 {
			t.Positive++
		}
		if analysis.Attitude.Negativity() > 0.5 {
			t.Negative++
		}
		if analysis.Attitude.Agreement() > 0.5 {
			t.Agree++
		}
		if 1.0-analysis.Attitude.Agreement() > 0.5 {
			t.Disagree++
		}
		if analysis.Attitude == model.AttitudeMocking || analysis.Subject == model.SubjectJoke {
			t.Jokes++
		}
	}
	return t
}

// Divisiveness is the corpus-level split between agreeing and disagreeing
// nodes, on the same scale as the per-node measure.
func (t Totals) Divisiveness() float64 {
	total := t.Agree + t.Disagree
	if total == 0 {
		return 0.0
	}
	return 1.0 - math.Abs(float64(t.Agree-t.Disagree))/float64(total)
}

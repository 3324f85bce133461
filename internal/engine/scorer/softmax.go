package scorer

import "math"

// MNLI-style models emit one logit per class in the order
// (contradiction, neutral, entailment).
const (
	contradictionIndex = 0
	entailmentIndex    = 2
)

// entailmentScore converts one row of NLI logits into a zero-shot label
// score: the softmax of entailment against contradiction, the neutral class
// dropped. This is the standard single-label zero-shot reduction.
func entailmentScore(logits []float32) float64 {
	entail := float64(logits[entailmentIndex])
	contra := float64(logits[contradictionIndex])

	// Numerically stable two-way softmax.
	max := entail
	if contra > max {
		max = contra
	}
	e := math.Exp(entail - max)
	c := math.Exp(contra - max)
	return e / (e + c)
}

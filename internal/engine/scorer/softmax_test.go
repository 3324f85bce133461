package scorer

import (
	"math"
	"testing"
)

func TestEntailmentScore(t *testing.T) {
	cases := []struct {
		name   string
		logits []float32 // contradiction, neutral, entailment
		want   float64
	}{
		{"balanced", []float32{0, 0, 0}, 0.5},
		{"strong entailment", []float32{-4, 0, 4}, 1.0 / (1.0 + math.Exp(-8))},
		{"strong contradiction", []float32{4, 0, -4}, 1.0 / (1.0 + math.Exp(8))},
		{"neutral ignored", []float32{0, 100, 0}, 0.5},
	}
	for _, c := range cases {
		got := entailmentScore(c.logits)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("%s: entailmentScore(%v) = %v, want %v", c.name, c.logits, got, c.want)
		}
	}
}

func TestEntailmentScoreRange(t *testing.T) {
	for _, logits := range [][]float32{
		{-50, 0, 50}, {50, 0, -50}, {0.1, 0.2, 0.3}, {-1000, 0, 1000},
	} {
		got := entailmentScore(logits)
		if got < 0 || got > 1 || math.IsNaN(got) {
			t.Errorf("entailmentScore(%v) = %v, want value in [0,1]", logits, got)
		}
	}
}

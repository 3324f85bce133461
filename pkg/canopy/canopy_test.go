package canopy

import (
	"context"
	"errors"
	"testing"

	"github.com/hollyoak/canopy/internal/engine/analyzer"
	"github.com/hollyoak/canopy/internal/engine/classifier"
	"github.com/hollyoak/canopy/internal/engine/pool"
	"github.com/hollyoak/canopy/internal/engine/scorer"
	"github.com/hollyoak/canopy/internal/model"
)

type nopScorer struct{}

func (nopScorer) Score(text string, labels []string, template scorer.Template, maxLen int) ([]model.ScoredLabel, error) {
	scored := make([]model.ScoredLabel, len(labels))
	for i, l := range labels {
		scored[i] = model.ScoredLabel{Label: l, Score: 0.1}
	}
	return scored, nil
}

func (nopScorer) Close() error { return nil }

// newTestCanopy wires a Canopy around a single fake scorer so facade
// behavior can be tested without model files.
func newTestCanopy(t *testing.T) *Canopy {
	t.Helper()
	p := pool.New([]scorer.Scorer{nopScorer{}})
	t.Cleanup(func() { p.Close() })
	cls := classifier.New(classifier.DefaultThreshold)
	return &Canopy{pool: p, cls: cls, analyzer: analyzer.New(p, cls)}
}

func TestClassifyEmptyTextSkipsPool(t *testing.T) {
	c := newTestCanopy(t)

	// Hold the only pool slot; empty text must never wait for it.
	handle, err := c.pool.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer handle.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := c.Classify(ctx, "")
	if err != nil {
		t.Fatalf("Classify(empty) error: %v", err)
	}
	want := Analysis{Attitude: "Neutral", Subject: "Other"}
	if got != want {
		t.Errorf("Classify(empty) = %+v, want %+v", got, want)
	}

	// Non-empty text does need a scorer and must fail on a cancelled ctx
	// while the pool is saturated.
	if _, err := c.Classify(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("Classify(non-empty) error = %v, want context.Canceled", err)
	}
}

func TestResolvePathsDefaults(t *testing.T) {
	o := defaultOptions()
	modelPath, vocabPath := resolvePaths(o)
	if modelPath != "models/model_quantized.onnx" || vocabPath != "models/vocab.txt" {
		t.Errorf("default paths = %q, %q", modelPath, vocabPath)
	}
}

func TestResolvePathsModelDir(t *testing.T) {
	o := defaultOptions()
	WithModelDir("/opt/nli")(&o)
	modelPath, vocabPath := resolvePaths(o)
	if modelPath != "/opt/nli/model_quantized.onnx" || vocabPath != "/opt/nli/vocab.txt" {
		t.Errorf("modelDir paths = %q, %q", modelPath, vocabPath)
	}
}

func TestResolvePathsExplicitWins(t *testing.T) {
	o := defaultOptions()
	WithModelDir("/opt/nli")(&o)
	WithModelPaths("/m.onnx", "/v.txt")(&o)
	modelPath, vocabPath := resolvePaths(o)
	if modelPath != "/m.onnx" || vocabPath != "/v.txt" {
		t.Errorf("explicit paths = %q, %q", modelPath, vocabPath)
	}
}

func TestOptionDefaults(t *testing.T) {
	o := defaultOptions()
	if o.threshold != 0.3 || o.maxLength != 192 || o.poolSize != 4 {
		t.Errorf("defaults = %+v", o)
	}
	WithPoolSize(0)(&o)
	if o.poolSize != 4 {
		t.Errorf("zero pool size must be ignored, got %d", o.poolSize)
	}
}

func TestThreadAdapter(t *testing.T) {
	thread := &Thread{
		Text: "root",
		Replies: []*Thread{
			{Text: "a"},
			{Text: "b", Replies: []*Thread{{Text: "c"}}},
		},
	}

	node := threadNode{t: thread}
	if node.Text() != "root" {
		t.Errorf("Text = %q", node.Text())
	}
	replies := node.Replies()
	if len(replies) != 2 {
		t.Fatalf("len(Replies) = %d", len(replies))
	}
	if replies[1].Replies()[0].Text() != "c" {
		t.Error("nested reply not adapted")
	}

	if leaf := (threadNode{t: &Thread{Text: "x"}}); leaf.Replies() != nil {
		t.Error("leaf Replies should be nil")
	}
}

func TestFromInternal(t *testing.T) {
	node := &model.AnalysisNode{
		Analysis: model.Analysis{
			Attitude: model.AttitudePraise, AttitudeConfidence: 0.9,
			Subject: model.SubjectMusic, SubjectConfidence: 0.8,
		},
		Children: []*model.AnalysisNode{
			{Analysis: model.Analysis{Attitude: model.AttitudeNeutral, Subject: model.SubjectOther}},
		},
	}

	tree := fromInternal(node)
	if tree.Attitude != "Praise" || tree.Subject != "Music" {
		t.Errorf("root = %+v", tree.Analysis)
	}
	if len(tree.Children) != 1 || tree.Children[0].Attitude != "Neutral" {
		t.Errorf("children = %+v", tree.Children)
	}
	if tree.Size() != 2 {
		t.Errorf("Size = %d, want 2", tree.Size())
	}
}

package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"

	"github.com/hollyoak/canopy/internal/engine/classifier"
	"github.com/hollyoak/canopy/internal/engine/pool"
	"github.com/hollyoak/canopy/internal/engine/scorer"
	"github.com/hollyoak/canopy/internal/model"
	"github.com/hollyoak/canopy/internal/progress"
)

// fakeScorer scores every label at a fixed value and fails for texts in
// failOn. Call counting is shared across all pool copies.
type fakeScorer struct {
	score  float64
	failOn string
	calls  *atomic.Int64
}

func (f *fakeScorer) Score(text string, labels []string, template scorer.Template, maxLen int) ([]model.ScoredLabel, error) {
	f.calls.Add(1)
	if f.failOn != "" && text == f.failOn {
		return nil, errors.New("fake scorer failure")
	}
	scored := make([]model.ScoredLabel, len(labels))
	for i, label := range labels {
		scored[i] = model.ScoredLabel{Label: label, Score: f.score}
	}
	return scored, nil
}

func (f *fakeScorer) Close() error { return nil }

func newTestAnalyzer(t *testing.T, poolSize int, score float64, failOn string, opts ...Option) (*Analyzer, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	resources := make([]scorer.Scorer, poolSize)
	for i := range resources {
		resources[i] = &fakeScorer{score: score, failOn: failOn, calls: &calls}
	}
	p := pool.New(resources)
	t.Cleanup(func() { p.Close() })
	return New(p, classifier.New(classifier.DefaultThreshold), opts...), &calls
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAnalyzeDropsEmptyReply(t *testing.T) {
	// Root "I love this" with one real reply and one empty reply: the
	// empty reply vanishes from the result tree entirely.
	post := &model.Post{
		Body: "I love this",
		Comments: []model.Comment{
			{Body: "Totally agree!"},
			{Body: ""},
		},
	}

	var counter progress.Counter
	a, _ := newTestAnalyzer(t, 2, 0.9, "", WithProgress(&counter))

	result, err := a.Analyze(context.Background(), post)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Children) != 1 {
		t.Fatalf("len(Children) = %d, want 1 (empty reply dropped)", len(result.Children))
	}
	if got := result.Size(); got != 2 {
		t.Errorf("result Size() = %d, want 2", got)
	}
	if got := Size(post); got != 2 {
		t.Errorf("Size(input) = %d, want 2", got)
	}
	if got := counter.Count(); got != 2 {
		t.Errorf("counter = %d, want 2", got)
	}
}

func TestAnalyzeEmptyRootTouchesNoScorer(t *testing.T) {
	post := &model.Post{Body: ""}
	a, calls := newTestAnalyzer(t, 1, 0.9, "")

	result, err := a.Analyze(context.Background(), post)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Analysis != model.DefaultAnalysis() {
		t.Errorf("analysis = %+v, want default", result.Analysis)
	}
	if calls.Load() != 0 {
		t.Errorf("scorer called %d times for empty root, want 0", calls.Load())
	}
}

func TestAnalyzePreservesReplyOrder(t *testing.T) {
	post := &model.Post{
		Body: "root",
		Comments: []model.Comment{
			{Body: "first", Comments: []model.Comment{{Body: "nested"}}},
			{Body: ""},
			{Body: "second"},
			{Body: "third"},
		},
	}
	a, _ := newTestAnalyzer(t, 2, 0.9, "")

	result, err := a.Analyze(context.Background(), post)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(result.Children))
	}
	if len(result.Children[0].Children) != 1 {
		t.Errorf("first reply lost its nested reply")
	}
}

func TestAnalyzeFailedReplySubtreeIsDropped(t *testing.T) {
	post := &model.Post{
		Body: "root",
		Comments: []model.Comment{
			{Body: "fine"},
			{Body: "poison", Comments: []model.Comment{{Body: "orphaned"}}},
		},
	}
	a, _ := newTestAnalyzer(t, 2, 0.9, "poison")

	result, err := a.Analyze(context.Background(), post)
	if err != nil {
		t.Fatalf("Analyze: %v (reply failure must not propagate)", err)
	}
	if len(result.Children) != 1 {
		t.Fatalf("len(Children) = %d, want 1 (failed subtree dropped)", len(result.Children))
	}
}

func TestAnalyzeOwnFailurePropagates(t *testing.T) {
	post := &model.Post{
		Body:     "poison",
		Comments: []model.Comment{{Body: "fine"}},
	}
	a, _ := newTestAnalyzer(t, 2, 0.9, "poison")

	if _, err := a.Analyze(context.Background(), post); err == nil {
		t.Fatal("expected error when the node's own classification fails")
	}
}

func TestAnalyzeCounterMatchesSurvivingNodes(t *testing.T) {
	// Wide and deep tree; counter must equal the surviving node count no
	// matter how the work interleaves.
	var comments []model.Comment
	for i := 0; i < 8; i++ {
		comments = append(comments, model.Comment{
			Body: fmt.Sprintf("reply %d", i),
			Comments: []model.Comment{
				{Body: fmt.Sprintf("nested %d.0", i)},
				{Body: ""},
				{Body: fmt.Sprintf("nested %d.1", i)},
			},
		})
	}
	post := &model.Post{Body: "root", Comments: comments}

	var counter progress.Counter
	a, _ := newTestAnalyzer(t, 3, 0.9, "", WithProgress(&counter))

	want := Size(post) // 1 + 8*(1+2) = 25
	result, err := a.Analyze(context.Background(), post)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := result.Size(); got != want {
		t.Errorf("result Size() = %d, want %d", got, want)
	}
	if got := counter.Count(); got != want {
		t.Errorf("counter = %d, want %d", got, want)
	}

	// A fresh run starts from zero after reset.
	counter.Reset()
	if _, err := a.Analyze(context.Background(), post); err != nil {
		t.Fatalf("second Analyze: %v", err)
	}
	if got := counter.Count(); got != want {
		t.Errorf("counter after reset+rerun = %d, want %d", got, want)
	}
}

func TestAnalyzeBelowThresholdYieldsFallback(t *testing.T) {
	post := &model.Post{Body: "mumble"}
	a, _ := newTestAnalyzer(t, 1, 0.1, "")

	result, err := a.Analyze(context.Background(), post)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Analysis.Attitude != model.AttitudeNeutral {
		t.Errorf("attitude = %s, want Neutral", result.Analysis.Attitude)
	}
	if result.Analysis.Subject != model.SubjectOther {
		t.Errorf("subject = %s, want Other", result.Analysis.Subject)
	}
	if got, want := result.Analysis.AttitudeConfidence, 0.9; got != want {
		t.Errorf("attitude confidence = %v, want %v", got, want)
	}
}

func TestAnalyzeCancelledContext(t *testing.T) {
	// With the only resource held, Analyze blocks in Acquire and must
	// respect cancellation.
	var calls atomic.Int64
	res := []scorer.Scorer{&fakeScorer{score: 0.9, calls: &calls}}
	p := pool.New(res)
	defer p.Close()

	h, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	a := New(p, classifier.New(classifier.DefaultThreshold))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = a.Analyze(ctx, &model.Post{Body: "blocked"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Analyze with cancelled context: %v, want Canceled", err)
	}
	h.Release()
}

func TestSize(t *testing.T) {
	post := &model.Post{
		Body: "root",
		Comments: []model.Comment{
			{Body: "a", Comments: []model.Comment{{Body: "b"}, {Body: ""}}},
			{Body: "", Comments: []model.Comment{{Body: "unreachable"}}},
		},
	}
	// root + a + b; the empty reply's subtree is excluded entirely.
	if got := Size(post); got != 3 {
		t.Errorf("Size = %d, want 3", got)
	}
}

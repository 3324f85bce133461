package classifier

import (
	"errors"
	"testing"

	"github.com/hollyoak/canopy/internal/engine/scorer"
	"github.com/hollyoak/canopy/internal/model"
)

// fakeScorer returns canned scores keyed by label and counts calls.
type fakeScorer struct {
	scores map[string]float64
	calls  int
	err    error
	empty  bool
}

func (f *fakeScorer) Score(text string, labels []string, template scorer.Template, maxLen int) ([]model.ScoredLabel, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return nil, nil
	}
	scored := make([]model.ScoredLabel, len(labels))
	for i, label := range labels {
		scored[i] = model.ScoredLabel{Label: label, Score: f.scores[label]}
	}
	return scored, nil
}

func (f *fakeScorer) Close() error { return nil }

func TestClassifyEmptyTextSkipsScorer(t *testing.T) {
	fake := &fakeScorer{}
	cls := New(DefaultThreshold)

	got, err := cls.Classify(fake, "")
	if err != nil {
		t.Fatalf("Classify(\"\"): %v", err)
	}
	if got != model.DefaultAnalysis() {
		t.Errorf("Classify(\"\") = %+v, want default analysis", got)
	}
	if fake.calls != 0 {
		t.Errorf("scorer called %d times for empty text, want 0", fake.calls)
	}
}

func TestClassifyAboveThreshold(t *testing.T) {
	fake := &fakeScorer{scores: map[string]float64{
		"technology": 0.82,
		"praise":     0.67,
	}}
	cls := New(DefaultThreshold)

	got, err := cls.Classify(fake, "Rust is a fantastic language")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Subject != model.SubjectTechnology || got.SubjectConfidence != 0.82 {
		t.Errorf("subject = %s/%v, want Technology/0.82", got.Subject, got.SubjectConfidence)
	}
	if got.Attitude != model.AttitudePraise || got.AttitudeConfidence != 0.67 {
		t.Errorf("attitude = %s/%v, want Praise/0.67", got.Attitude, got.AttitudeConfidence)
	}
	if fake.calls != 2 {
		t.Errorf("scorer called %d times, want 2 (subject + attitude)", fake.calls)
	}
}

func TestClassifyBelowThresholdFallsBack(t *testing.T) {
	fake := &fakeScorer{scores: map[string]float64{
		"politics": 0.2,
		"question": 0.25,
	}}
	cls := New(DefaultThreshold)

	got, err := cls.Classify(fake, "hmm")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Subject != model.SubjectOther {
		t.Errorf("subject = %s, want Other", got.Subject)
	}
	if got.SubjectConfidence != 1.0-0.2 {
		t.Errorf("subject confidence = %v, want %v", got.SubjectConfidence, 1.0-0.2)
	}
	if got.Attitude != model.AttitudeNeutral {
		t.Errorf("attitude = %s, want Neutral", got.Attitude)
	}
	if got.AttitudeConfidence != 1.0-0.25 {
		t.Errorf("attitude confidence = %v, want %v", got.AttitudeConfidence, 1.0-0.25)
	}
}

func TestClassifyExactlyAtThresholdFallsBack(t *testing.T) {
	// The rule is strictly greater-than.
	fake := &fakeScorer{scores: map[string]float64{
		"science":   0.3,
		"agreement": 0.3,
	}}
	cls := New(DefaultThreshold)

	got, err := cls.Classify(fake, "interesting")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Subject != model.SubjectOther || got.Attitude != model.AttitudeNeutral {
		t.Errorf("got %s/%s, want fallback Other/Neutral", got.Subject, got.Attitude)
	}
}

func TestClassifyEmptyScoresIsError(t *testing.T) {
	fake := &fakeScorer{empty: true}
	cls := New(DefaultThreshold)

	if _, err := cls.Classify(fake, "something"); !errors.Is(err, ErrNoScores) {
		t.Fatalf("expected ErrNoScores, got %v", err)
	}
}

func TestClassifyScorerFailureIsFatal(t *testing.T) {
	scorerErr := errors.New("session exploded")
	fake := &fakeScorer{err: scorerErr}
	cls := New(DefaultThreshold)

	if _, err := cls.Classify(fake, "something"); !errors.Is(err, scorerErr) {
		t.Fatalf("expected wrapped scorer error, got %v", err)
	}
}

func TestClassifyUnknownLabelPropagates(t *testing.T) {
	// A scorer echoing labels outside the schema is a hard mismatch.
	fake := &unknownLabelScorer{}
	cls := New(DefaultThreshold)

	_, err := cls.Classify(fake, "something")
	var lerr *model.LabelError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *model.LabelError, got %v", err)
	}
}

type unknownLabelScorer struct{}

func (s *unknownLabelScorer) Score(text string, labels []string, template scorer.Template, maxLen int) ([]model.ScoredLabel, error) {
	return []model.ScoredLabel{{Label: "gardening", Score: 0.99}}, nil
}

func (s *unknownLabelScorer) Close() error { return nil }

func TestTopScoreSortsDescending(t *testing.T) {
	scored := []model.ScoredLabel{
		{Label: "low", Score: 0.1},
		{Label: "high", Score: 0.9},
		{Label: "mid", Score: 0.5},
	}
	best, err := topScore(scored)
	if err != nil {
		t.Fatalf("topScore: %v", err)
	}
	if best.Label != "high" {
		t.Errorf("topScore = %q, want %q", best.Label, "high")
	}
	// Input order untouched.
	if scored[0].Label != "low" {
		t.Errorf("topScore mutated its input: %v", scored)
	}
}

package classifier

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hollyoak/canopy/internal/engine/scorer"
	"github.com/hollyoak/canopy/internal/model"
)

// DefaultThreshold is the minimum top score for a non-fallback decision.
const DefaultThreshold = 0.3

// DefaultMaxLength caps the tokenized sequence length per scoring call.
const DefaultMaxLength = 192

// ErrNoScores is returned when the scorer violates its contract and emits
// no scored labels for a non-empty candidate set.
var ErrNoScores = errors.New("classifier: scorer returned no scores")

// Classifier turns raw scored label candidates into a discrete category
// plus confidence for both schemas.
type Classifier struct {
	Threshold float64
	MaxLength int
}

// New creates a Classifier with the given decision threshold.
func New(threshold float64) *Classifier {
	return &Classifier{Threshold: threshold, MaxLength: DefaultMaxLength}
}

func subjectHypothesis(label string) string {
	return fmt.Sprintf("This text's subject is %s", label)
}

func attitudeHypothesis(label string) string {
	return fmt.Sprintf("This text's attitude is %s", label)
}

// Classify scores text against both schemas on the given scorer and applies
// the threshold rule. Empty text short-circuits to the default Analysis
// without touching the scorer at all.
//
// Both scoring passes run back to back on the same scorer; the caller holds
// exclusive access for the duration of the call.
func (c *Classifier) Classify(s scorer.Scorer, text string) (model.Analysis, error) {
	if text == "" {
		return model.DefaultAnalysis(), nil
	}

	subjects, err := s.Score(text, model.SubjectLabels(), subjectHypothesis, c.MaxLength)
	if err != nil {
		return model.Analysis{}, fmt.Errorf("classifier: subject scoring: %w", err)
	}
	subject, subjectConf, err := c.decideSubject(subjects)
	if err != nil {
		return model.Analysis{}, err
	}

	attitudes, err := s.Score(text, model.AttitudeLabels(), attitudeHypothesis, c.MaxLength)
	if err != nil {
		return model.Analysis{}, fmt.Errorf("classifier: attitude scoring: %w", err)
	}
	attitude, attitudeConf, err := c.decideAttitude(attitudes)
	if err != nil {
		return model.Analysis{}, err
	}

	return model.Analysis{
		Attitude:           attitude,
		AttitudeConfidence: attitudeConf,
		Subject:            subject,
		SubjectConfidence:  subjectConf,
	}, nil
}

// decideAttitude applies the threshold rule to attitude scores. A top score
// above the threshold picks its variant at that confidence; otherwise the
// fallback wins with the inverted top score (a low top score is evidence
// for "none of the modeled categories").
func (c *Classifier) decideAttitude(scored []model.ScoredLabel) (model.Attitude, float64, error) {
	best, err := topScore(scored)
	if err != nil {
		return model.AttitudeNeutral, 0, err
	}
	if best.Score > c.Threshold {
		attitude, err := model.AttitudeFromLabel(best.Label)
		if err != nil {
			return model.AttitudeNeutral, 0, err
		}
		return attitude, best.Score, nil
	}
	return model.AttitudeNeutral, 1.0 - best.Score, nil
}

// decideSubject applies the threshold rule to subject scores.
func (c *Classifier) decideSubject(scored []model.ScoredLabel) (model.Subject, float64, error) {
	best, err := topScore(scored)
	if err != nil {
		return model.SubjectOther, 0, err
	}
	if best.Score > c.Threshold {
		subject, err := model.SubjectFromLabel(best.Label)
		if err != nil {
			return model.SubjectOther, 0, err
		}
		return subject, best.Score, nil
	}
	return model.SubjectOther, 1.0 - best.Score, nil
}

// topScore returns the highest-scored label. Scorers guarantee no ordering,
// so the slice is sorted here; an empty slice is a scorer contract violation.
func topScore(scored []model.ScoredLabel) (model.ScoredLabel, error) {
	if len(scored) == 0 {
		return model.ScoredLabel{}, ErrNoScores
	}
	sorted := make([]model.ScoredLabel, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted[0], nil
}

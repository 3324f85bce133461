package scorer

import (
	"errors"
	"fmt"

	"github.com/hollyoak/canopy/internal/model"
)

// ErrNoLabels is returned when Score is called with an empty candidate set.
var ErrNoLabels = errors.New("scorer: no candidate labels")

// Template renders a candidate label into a natural-language hypothesis.
type Template func(label string) string

// DefaultTemplate is the standard zero-shot hypothesis wrapper, used when
// the caller passes a nil template.
func DefaultTemplate(label string) string {
	return fmt.Sprintf("This example is %s.", label)
}

// Scorer scores a text against a set of candidate labels. Implementations
// are stateful and not safe for concurrent use; callers serialize access
// through a pool.
type Scorer interface {
	// Score returns exactly one ScoredLabel per candidate label, in input
	// order. No score ordering is guaranteed.
	Score(text string, labels []string, template Template, maxLen int) ([]model.ScoredLabel, error)
	Close() error
}

// ZeroShot performs zero-shot classification with a local NLI model: each
// (text, label) pair is scored as premise/hypothesis entailment.
type ZeroShot struct {
	session *nliSession
	tok     *tokenizer
}

// NewZeroShot loads the ONNX NLI model and vocabulary. Loading is expensive;
// instances are created once and live for the process lifetime.
func NewZeroShot(modelPath, vocabPath string) (*ZeroShot, error) {
	sess, err := newNLISession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("scorer: %w", err)
	}

	tok, err := newTokenizer(vocabPath)
	if err != nil {
		sess.close()
		return nil, fmt.Errorf("scorer: %w", err)
	}

	return &ZeroShot{session: sess, tok: tok}, nil
}

// Score classifies text against the candidate labels. Each label becomes a
// hypothesis via the template; the whole batch runs in a single inference
// call. The score is the entailment probability against contradiction.
func (z *ZeroShot) Score(text string, labels []string, template Template, maxLen int) ([]model.ScoredLabel, error) {
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	if template == nil {
		template = DefaultTemplate
	}

	hypotheses := make([]string, len(labels))
	for i, label := range labels {
		hypotheses[i] = template(label)
	}

	batch := z.tok.tokenizePairs(text, hypotheses, maxLen)

	logits, err := z.session.infer(
		batch.inputIDs, batch.attentionMask, batch.tokenTypeIDs,
		batch.batchSize, batch.seqLen,
	)
	if err != nil {
		return nil, fmt.Errorf("scorer: %w", err)
	}

	n := z.session.numClasses
	scored := make([]model.ScoredLabel, len(labels))
	for i := range labels {
		row := logits[int64(i)*n : int64(i+1)*n]
		scored[i] = model.ScoredLabel{
			Label: labels[i],
			Score: entailmentScore(row),
		}
	}
	return scored, nil
}

// Close releases ONNX Runtime resources.
func (z *ZeroShot) Close() error {
	if z.session != nil {
		return z.session.close()
	}
	return nil
}

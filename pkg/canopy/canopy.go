package canopy

import (
	"context"
	"fmt"

	"github.com/hollyoak/canopy/internal/engine/analyzer"
	"github.com/hollyoak/canopy/internal/engine/classifier"
	"github.com/hollyoak/canopy/internal/engine/pool"
	"github.com/hollyoak/canopy/internal/engine/scorer"
	"github.com/hollyoak/canopy/internal/model"
)

// Canopy is a discussion-tree attitude and subject classifier backed by
// a pool of zero-shot NLI inference sessions. Safe for concurrent use.
type Canopy struct {
	pool     *pool.Pool
	cls      *classifier.Classifier
	analyzer *analyzer.Analyzer
}

// New creates a Canopy instance, loading one ONNX session per pool
// slot. This is an expensive operation — create once, reuse across
// requests.
func New(opts ...Option) (*Canopy, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	modelPath, vocabPath := resolvePaths(o)

	scorers := make([]scorer.Scorer, 0, o.poolSize)
	for i := 0; i < o.poolSize; i++ {
		s, err := scorer.NewZeroShot(modelPath, vocabPath)
		if err != nil {
			for _, prev := range scorers {
				prev.Close()
			}
			return nil, fmt.Errorf("canopy: %w", err)
		}
		scorers = append(scorers, s)
	}

	p := pool.New(scorers)
	cls := classifier.New(o.threshold)
	cls.MaxLength = o.maxLength

	return &Canopy{
		pool:     p,
		cls:      cls,
		analyzer: analyzer.New(p, cls),
	}, nil
}

// Classify labels a single text with an attitude and a subject. Empty
// text gets the fallback labels at zero confidence without touching the
// model.
func (c *Canopy) Classify(ctx context.Context, text string) (Analysis, error) {
	if text == "" {
		return fromAnalysis(model.DefaultAnalysis()), nil
	}

	handle, err := c.pool.Acquire(ctx)
	if err != nil {
		return Analysis{}, err
	}
	defer handle.Release()

	a, err := c.cls.Classify(handle.Scorer(), text)
	if err != nil {
		return Analysis{}, err
	}
	return fromAnalysis(a), nil
}

// Analyze classifies a whole discussion tree concurrently. Replies with
// empty text are dropped along with their subtrees; a reply whose
// classification fails is dropped the same way. Failure on the root
// text itself is returned.
func (c *Canopy) Analyze(ctx context.Context, thread *Thread) (*Tree, error) {
	node, err := c.analyzer.Analyze(ctx, threadNode{t: thread})
	if err != nil {
		return nil, err
	}
	return fromInternal(node), nil
}

// Close releases the inference sessions. Blocks until outstanding
// classifications finish.
func (c *Canopy) Close() error {
	return c.pool.Close()
}

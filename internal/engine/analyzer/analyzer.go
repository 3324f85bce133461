// Package analyzer walks a discussion tree and classifies every node,
// fanning out concurrently over replies while a shared scorer pool bounds
// classification throughput.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hollyoak/canopy/internal/engine/classifier"
	"github.com/hollyoak/canopy/internal/engine/pool"
	"github.com/hollyoak/canopy/internal/model"
	"github.com/hollyoak/canopy/internal/progress"
)

// Analyzer classifies discussion trees. Safe for concurrent use; all shared
// state lives in the pool and the progress counter.
type Analyzer struct {
	pool    *pool.Pool
	cls     *classifier.Classifier
	counter *progress.Counter
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithProgress attaches a progress counter. The counter's lifecycle is the
// caller's: reset it before each run, observe it during.
func WithProgress(c *progress.Counter) Option {
	return func(a *Analyzer) { a.counter = c }
}

// New creates an Analyzer backed by the given pool and classifier.
func New(p *pool.Pool, cls *classifier.Classifier, opts ...Option) *Analyzer {
	a := &Analyzer{pool: p, cls: cls}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies node and, recursively and concurrently, its replies.
// The result tree mirrors the input tree's shape and order, minus replies
// with empty text and minus subtrees that failed.
//
// Failure policy is best-effort: a failed reply subtree is dropped from the
// result rather than aborting the parent, while a failure classifying the
// node's own text aborts this subtree and propagates. Every successfully
// classified node increments the progress counter exactly once, after its
// own classification, regardless of how its replies fared.
func (a *Analyzer) Analyze(ctx context.Context, node model.Node) (*model.AnalysisNode, error) {
	// Replies with empty text carry no signal; their whole subtrees are
	// dropped, not replaced with placeholders.
	var kept []model.Node
	for _, reply := range node.Replies() {
		if reply.Text() != "" {
			kept = append(kept, reply)
		}
	}

	// One goroutine per surviving reply, recursively. The fan-out is not
	// capped here: goroutines are cheap and the pool already bounds how
	// many classifications run at once.
	results := make([]*model.AnalysisNode, len(kept))
	var wg sync.WaitGroup
	for i, reply := range kept {
		wg.Add(1)
		go func(i int, reply model.Node) {
			defer wg.Done()
			res, err := a.Analyze(ctx, reply)
			if err != nil {
				slog.Debug("dropping failed reply subtree", "error", err)
				return
			}
			results[i] = res
		}(i, reply)
	}

	// Classify our own text while the reply subtrees run.
	analysis, err := a.classify(ctx, node.Text())
	wg.Wait()
	if err != nil {
		return nil, err
	}
	if a.counter != nil {
		a.counter.Increment()
	}

	children := make([]*model.AnalysisNode, 0, len(results))
	for _, res := range results {
		if res != nil {
			children = append(children, res)
		}
	}

	return &model.AnalysisNode{Analysis: analysis, Children: children}, nil
}

// classify runs both schema passes on one pool resource. Empty text never
// touches the pool.
func (a *Analyzer) classify(ctx context.Context, text string) (model.Analysis, error) {
	if text == "" {
		return model.DefaultAnalysis(), nil
	}

	handle, err := a.pool.Acquire(ctx)
	if err != nil {
		return model.Analysis{}, fmt.Errorf("analyzer: acquire scorer: %w", err)
	}
	defer handle.Release()

	return a.cls.Classify(handle.Scorer(), text)
}

// Size returns the number of nodes Analyze would visit for this tree: the
// node itself plus, recursively, every reply with non-empty text. Callers
// use it to size progress totals and to pre-filter trivially small trees.
func Size(node model.Node) int {
	total := 1
	for _, reply := range node.Replies() {
		if reply.Text() != "" {
			total += Size(reply)
		}
	}
	return total
}

// Package pipeline wires the connector, analyzer, store, and output
// into the two top-level operations: collecting discussion trees and
// classifying them.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hollyoak/canopy/internal/connector"
	"github.com/hollyoak/canopy/internal/engine/analyzer"
	"github.com/hollyoak/canopy/internal/model"
	"github.com/hollyoak/canopy/internal/output"
	"github.com/hollyoak/canopy/internal/progress"
	"github.com/hollyoak/canopy/internal/store"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMinTreeSize skips posts whose discussion tree has fewer nodes.
// Default 1 (analyze everything with at least the post itself).
func WithMinTreeSize(n int) Option {
	return func(p *Pipeline) {
		if n > 1 {
			p.minTreeSize = n
		}
	}
}

// WithCounter sets the shared node counter reset before each post. Pass
// the same counter the analyzer and progress display were built with.
func WithCounter(c *progress.Counter) Option {
	return func(p *Pipeline) { p.counter = c }
}

// WithPostCallback registers a callback invoked before each post is
// classified, with the post title and its node count.
func WithPostCallback(f func(title string, nodes int)) Option {
	return func(p *Pipeline) { p.onPost = f }
}

// WithSubredditCallback registers a callback invoked when work starts
// on a subreddit.
func WithSubredditCallback(f func(name string)) Option {
	return func(p *Pipeline) { p.onSubreddit = f }
}

// Pipeline connects the components into a processing pipeline.
type Pipeline struct {
	connector   connector.Connector
	analyzer    *analyzer.Analyzer
	store       *store.Store
	output      output.Output
	counter     *progress.Counter
	minTreeSize int
	onPost      func(string, int)
	onSubreddit func(string)
}

// New creates a Pipeline from the given components. The connector may
// be nil when only Analyze is used, and the analyzer nil when only
// Collect is.
func New(conn connector.Connector, an *analyzer.Analyzer, st *store.Store, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		connector:   conn,
		analyzer:    an,
		store:       st,
		output:      out,
		minTreeSize: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Collect fetches each subreddit through the connector and persists the
// snapshot. A subreddit that fails to fetch is logged and skipped;
// Collect only fails on context cancellation or storage errors.
func (p *Pipeline) Collect(ctx context.Context, cfg connector.Config, params connector.FetchParams, subreddits []string) error {
	for _, name := range subreddits {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.onSubreddit != nil {
			p.onSubreddit(name)
		}

		params.Subreddit = name
		sub, err := p.connector.Fetch(ctx, cfg, params)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("subreddit fetch failed, skipping", "subreddit", name, "error", err)
			continue
		}

		if err := p.store.SaveSubreddit(sub); err != nil {
			return fmt.Errorf("pipeline collect: save %s: %w", name, err)
		}
		slog.Info("collected subreddit", "subreddit", name, "posts", len(sub.Posts))
	}
	return nil
}

// Analyze classifies every stored post of the named subreddits and
// writes one report per post. With no names given, every collected
// subreddit is analyzed. Posts that fail to classify are logged and
// skipped.
func (p *Pipeline) Analyze(ctx context.Context, subreddits []string) error {
	if len(subreddits) == 0 {
		names, err := p.store.ListSubreddits()
		if err != nil {
			return fmt.Errorf("pipeline analyze: list subreddits: %w", err)
		}
		subreddits = names
	}

	for _, name := range subreddits {
		if err := p.analyzeSubreddit(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) analyzeSubreddit(ctx context.Context, name string) error {
	sub, err := p.store.GetSubreddit(name)
	if err != nil {
		return fmt.Errorf("pipeline analyze: %w", err)
	}
	if p.onSubreddit != nil {
		p.onSubreddit(name)
	}

	for i := range sub.Posts {
		if err := ctx.Err(); err != nil {
			return err
		}
		post := &sub.Posts[i]

		size := analyzer.Size(post)
		if size < p.minTreeSize {
			slog.Debug("skipping small tree", "subreddit", name, "post", post.Title, "nodes", size)
			continue
		}

		if p.counter != nil {
			p.counter.Reset()
		}
		if p.onPost != nil {
			p.onPost(post.Title, size)
		}

		tree, err := p.analyzer.Analyze(ctx, post)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("post classification failed, skipping",
				"subreddit", name, "post", post.Title, "error", err)
			continue
		}

		if err := p.persist(ctx, name, post, tree); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) persist(ctx context.Context, subreddit string, post *model.Post, tree *model.AnalysisNode) error {
	if err := p.store.SaveAnalysis(subreddit, post.Title, tree); err != nil {
		return fmt.Errorf("pipeline analyze: save analysis: %w", err)
	}

	report := output.Report{
		Subreddit: subreddit,
		PostTitle: post.Title,
		Tree:      tree,
	}
	if err := p.output.Write(ctx, report); err != nil {
		return fmt.Errorf("pipeline output: %w", err)
	}

	slog.Info("classified post", "subreddit", subreddit, "post", post.Title, "nodes", tree.Size())
	return nil
}

// Close shuts down the output, if the pipeline has one. Collect-only
// pipelines are built without an output.
func (p *Pipeline) Close() error {
	if p.output == nil {
		return nil
	}
	return p.output.Close()
}

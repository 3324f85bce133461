package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hollyoak/canopy/internal/config"
	"github.com/hollyoak/canopy/internal/engine/analyzer"
	"github.com/hollyoak/canopy/internal/engine/classifier"
	"github.com/hollyoak/canopy/internal/engine/pool"
	"github.com/hollyoak/canopy/internal/engine/scorer"
	"github.com/hollyoak/canopy/internal/logging"
	"github.com/hollyoak/canopy/internal/output"
	"github.com/hollyoak/canopy/internal/output/async"
	fileout "github.com/hollyoak/canopy/internal/output/file"
	"github.com/hollyoak/canopy/internal/output/multi"
	"github.com/hollyoak/canopy/internal/output/stdout"
	"github.com/hollyoak/canopy/internal/output/webhook"
	"github.com/hollyoak/canopy/internal/pipeline"
	"github.com/hollyoak/canopy/internal/progress"
	"github.com/hollyoak/canopy/internal/store"
	"github.com/hollyoak/canopy/internal/ui"
)

var (
	analyzeThreshold float64
	analyzeFull      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [subreddits...]",
	Short: "Classify the collected discussion trees",
	Long: `Run every collected post and comment through the NLI classifier,
label each node with an attitude and a subject, store the resulting
trees, and write one report per post.

With no arguments, every collected subreddit is analyzed.

Examples:
  canopy analyze
  canopy analyze golang
  canopy analyze --full --format json golang > trees.ndjson`,
	RunE:         runAnalyze,
	SilenceUsage: true,
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0, "Entailment score a label must exceed")
	analyzeCmd.Flags().BoolVar(&analyzeFull, "full", false, "Include complete trees in reports")
	RootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if analyzeThreshold > 0 {
		cfg.Engine.Threshold = analyzeThreshold
	}
	if analyzeFull {
		cfg.Output.Detail = "full"
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	scorers, err := buildScorers(cfg.Engine)
	if err != nil {
		return err
	}
	pl := pool.New(scorers)
	defer pl.Close()

	cls := classifier.New(cfg.Engine.Threshold)
	cls.MaxLength = cfg.Engine.MaxLength

	counter := &progress.Counter{}
	an := analyzer.New(pl, cls, analyzer.WithProgress(counter))

	out, err := buildOutput(cfg.Output)
	if err != nil {
		return err
	}

	u := GetUI()
	if u.IsInteractive() {
		logging.Silence()
	}
	prog := u.StartProgress(counter)
	prog.SetStage(ui.StageAnalyze)

	p := pipeline.New(nil, an, st, out,
		pipeline.WithCounter(counter),
		pipeline.WithMinTreeSize(cfg.Engine.MinTreeSize),
		pipeline.WithSubredditCallback(func(name string) {
			prog.SetOperation("r/" + name)
		}),
		pipeline.WithPostCallback(func(title string, nodes int) {
			prog.StartPost(title, nodes)
		}))
	defer p.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = p.Analyze(ctx, args)
	prog.Done(err)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// buildScorers loads one ONNX session per pool slot.
func buildScorers(cfg config.EngineConfig) ([]scorer.Scorer, error) {
	n := cfg.PoolSize
	if n < 1 {
		n = 1
	}
	scorers := make([]scorer.Scorer, 0, n)
	for i := 0; i < n; i++ {
		s, err := scorer.NewZeroShot(cfg.ModelPath, cfg.VocabPath)
		if err != nil {
			for _, prev := range scorers {
				prev.Close()
			}
			return nil, fmt.Errorf("load scorer %d/%d: %w", i+1, n, err)
		}
		scorers = append(scorers, s)
	}
	return scorers, nil
}

// buildOutput assembles the report destination from config: stdout or
// file as the primary, with an optional async webhook alongside.
func buildOutput(cfg config.OutputConfig) (output.Output, error) {
	detail := output.Summary
	if cfg.Detail == "full" {
		detail = output.Full
	}

	var primary output.Output
	switch cfg.Format {
	case "file":
		if cfg.Path == "" {
			return nil, errors.New("output format \"file\" needs a path (CANOPY_OUTPUT_PATH)")
		}
		f, err := fileout.New(cfg.Path, detail)
		if err != nil {
			return nil, err
		}
		primary = f
	case "stdout", "":
		primary = stdout.New(detail, cfg.Pretty)
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}

	if cfg.WebhookURL == "" {
		return primary, nil
	}
	hook := async.New(webhook.New(cfg.WebhookURL, webhook.WithDetail(detail)))
	return multi.New(primary, hook), nil
}

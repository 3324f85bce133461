package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hollyoak/canopy/internal/config"
	"github.com/hollyoak/canopy/internal/connector"
	"github.com/hollyoak/canopy/internal/logging"
	"github.com/hollyoak/canopy/internal/pipeline"
	"github.com/hollyoak/canopy/internal/store"
	"github.com/hollyoak/canopy/internal/ui"

	// Register connector implementations.
	_ "github.com/hollyoak/canopy/internal/connector/file"
	_ "github.com/hollyoak/canopy/internal/connector/reddit"
)

var (
	collectProvider string
	collectPosts    int
	collectComments int
)

var collectCmd = &cobra.Command{
	Use:   "collect [subreddits...]",
	Short: "Fetch subreddit discussion trees into the local database",
	Long: `Fetch the hot posts of each subreddit, including comment trees, and
store the snapshots locally for later classification.

Examples:
  canopy collect golang rust
  canopy collect --posts 25 askreddit
  CANOPY_SUBREDDITS=golang,rust canopy collect`,
	RunE:         runCollect,
	SilenceUsage: true,
}

func init() {
	collectCmd.Flags().StringVar(&collectProvider, "provider", "", "Connector provider (reddit, file)")
	collectCmd.Flags().IntVar(&collectPosts, "posts", 0, "Hot posts per subreddit (max 100)")
	collectCmd.Flags().IntVar(&collectComments, "comments", 0, "Top-level comments per post")
	RootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	subreddits := args
	if len(subreddits) == 0 {
		subreddits = cfg.Connector.Subreddits
	}
	if len(subreddits) == 0 {
		return errors.New("no subreddits given (pass them as arguments or set CANOPY_SUBREDDITS)")
	}

	provider := cfg.Connector.Provider
	if collectProvider != "" {
		provider = collectProvider
	}
	ctor, err := connector.Get(provider)
	if err != nil {
		return fmt.Errorf("available providers: %v: %w", connector.Providers(), err)
	}
	conn := ctor()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	u := GetUI()
	if u.IsInteractive() {
		logging.Silence()
	}
	progress := u.StartProgress(nil)
	progress.SetStage(ui.StageCollect)

	p := pipeline.New(conn, nil, st, nil,
		pipeline.WithSubredditCallback(func(name string) {
			progress.SetOperation("r/" + name)
		}))

	connCfg := connector.Config{
		Provider:  provider,
		BaseURL:   cfg.Connector.BaseURL,
		UserAgent: cfg.Connector.UserAgent,
		Extra:     cfg.Connector.Extra,
	}
	params := connector.FetchParams{
		PostLimit:    cfg.Connector.PostLimit,
		CommentLimit: cfg.Connector.CommentLimit,
	}
	if collectPosts > 0 {
		params.PostLimit = collectPosts
	}
	if collectComments > 0 {
		params.CommentLimit = collectComments
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = p.Collect(ctx, connCfg, params, subreddits)
	progress.Done(err)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

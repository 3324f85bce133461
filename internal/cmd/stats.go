package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hollyoak/canopy/internal/config"
	"github.com/hollyoak/canopy/internal/model"
	"github.com/hollyoak/canopy/internal/stats"
	"github.com/hollyoak/canopy/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats [subreddits...]",
	Short: "Summarize stored classification results",
	Long: `Aggregate the stored classification trees into attitude and subject
distributions, corpus totals, and a divisiveness figure.

With no arguments, every analyzed subreddit is summarized together.

Examples:
  canopy stats
  canopy stats golang
  canopy stats --format json golang`,
	RunE:         runStats,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(statsCmd)
}

// statsSummary is the JSON shape of the stats command output.
type statsSummary struct {
	Subreddits   []string               `json:"subreddits"`
	Posts        int                    `json:"posts"`
	Totals       stats.Totals           `json:"totals"`
	Divisiveness float64                `json:"divisiveness"`
	Attitudes    map[model.Attitude]int `json:"attitudes"`
	Subjects     map[model.Subject]int  `json:"subjects"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	names := args
	if len(names) == 0 {
		if names, err = st.ListSubreddits(); err != nil {
			return err
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("nothing analyzed yet (run \"canopy collect\" and \"canopy analyze\" first)")
	}

	var forest []*model.AnalysisNode
	for _, name := range names {
		stored, err := st.GetAnalyses(name)
		if err != nil {
			return err
		}
		for _, sa := range stored {
			forest = append(forest, sa.Tree)
		}
	}
	if len(forest) == 0 {
		return fmt.Errorf("no stored analyses for %v", names)
	}

	totals := stats.ComputeTotals(forest)
	summary := statsSummary{
		Subreddits:   names,
		Posts:        len(forest),
		Totals:       totals,
		Divisiveness: totals.Divisiveness(),
		Attitudes:    stats.AttitudeDistribution(forest),
		Subjects:     stats.SubjectDistribution(forest),
	}

	u := GetUI()
	if u.IsJSON() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	renderSummary(summary)
	return nil
}

func renderSummary(s statsSummary) {
	u := GetUI()
	st := u.Styles

	fmt.Println(st.Header.Render(fmt.Sprintf("Summary for %v", s.Subreddits)))
	fmt.Printf("  %s %d posts, %d nodes\n", st.Label.Render("corpus:"), s.Posts, s.Totals.Nodes)
	fmt.Printf("  %s %s / %s\n", st.Label.Render("tone:"),
		st.Positive.Render(fmt.Sprintf("%d positive", s.Totals.Positive)),
		st.Negative.Render(fmt.Sprintf("%d negative", s.Totals.Negative)))
	fmt.Printf("  %s %d agree, %d disagree (divisiveness %.2f)\n",
		st.Label.Render("stance:"), s.Totals.Agree, s.Totals.Disagree, s.Divisiveness)
	fmt.Printf("  %s %d\n", st.Label.Render("jokes:"), s.Totals.Jokes)

	fmt.Println(st.Subheader.Render("Attitudes"))
	for _, a := range sortedKeys(s.Attitudes) {
		fmt.Printf("  %-14s %d\n", a, s.Attitudes[model.Attitude(a)])
	}

	fmt.Println(st.Subheader.Render("Subjects"))
	for _, sub := range sortedKeys(s.Subjects) {
		fmt.Printf("  %-14s %d\n", sub, s.Subjects[model.Subject(sub)])
	}
}

func sortedKeys[K ~string](m map[K]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

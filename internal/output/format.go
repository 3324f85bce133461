package output

import (
	"github.com/hollyoak/canopy/internal/model"
	"github.com/hollyoak/canopy/internal/stats"
)

// Detail controls how much of a report is exported.
type Detail int

const (
	// Summary exports derived figures only, dropping the tree.
	Summary Detail = iota
	// Full exports derived figures plus the complete tree.
	Full
)

// FormattedReport is the export view of a Report: the raw tree plus the
// figures downstream consumers always want up front.
type FormattedReport struct {
	Subreddit    string              `json:"subreddit"`
	PostTitle    string              `json:"post_title"`
	Nodes        int                 `json:"nodes"`
	Divisiveness float64             `json:"divisiveness"`
	Consensus    model.Analysis      `json:"consensus"`
	Tree         *model.AnalysisNode `json:"tree,omitempty"`
}

// FormatReport derives the export view from a report. At Summary detail
// the tree is stripped; at Full it is carried whole.
func FormatReport(r Report, detail Detail) FormattedReport {
	f := FormattedReport{
		Subreddit: r.Subreddit,
		PostTitle: r.PostTitle,
	}
	if r.Tree == nil {
		return f
	}

	f.Nodes = r.Tree.Size()
	f.Divisiveness = stats.Divisiveness(r.Tree)
	f.Consensus = stats.AverageReply(r.Tree)
	if detail == Full {
		f.Tree = r.Tree
	}
	return f
}

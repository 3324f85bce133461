// Package output defines the destination interface for classification
// reports and shared formatting helpers.
package output

import (
	"context"

	"github.com/hollyoak/canopy/internal/model"
)

// Report is one post's classification result, ready for export.
type Report struct {
	Subreddit string              `json:"subreddit"`
	PostTitle string              `json:"post_title"`
	Tree      *model.AnalysisNode `json:"tree,omitempty"`
}

// Output defines the interface for report destinations.
type Output interface {
	Write(ctx context.Context, report Report) error
	Close() error
}

// Package connector defines the data acquisition interface and a registry
// of named providers. A connector turns an external source into a
// model.Subreddit ready for classification.
package connector

import (
	"context"

	"github.com/hollyoak/canopy/internal/model"
)

// Connector fetches one community's discussion trees from a source.
type Connector interface {
	// Fetch retrieves the community named in params, including its post
	// and comment trees. Individual posts that fail to load are skipped,
	// not fatal.
	Fetch(ctx context.Context, cfg Config, params FetchParams) (*model.Subreddit, error)
}

// Config holds provider-specific connection settings.
type Config struct {
	Provider  string
	BaseURL   string
	UserAgent string
	Extra     map[string]string
}

// FetchParams bounds a single fetch.
type FetchParams struct {
	Subreddit    string
	PostLimit    int // hot posts to retrieve, capped at 100
	CommentLimit int // top-level comments per post
}

// Defaults used when FetchParams fields are zero.
const (
	DefaultPostLimit    = 100
	DefaultCommentLimit = 10
)

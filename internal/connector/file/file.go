// Package file implements the connector.Connector interface over
// previously saved subreddit JSON, for offline reruns and fixtures.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hollyoak/canopy/internal/connector"
	"github.com/hollyoak/canopy/internal/model"
)

func init() {
	connector.Register("file", func() connector.Connector {
		return &Connector{}
	})
}

// Connector loads a subreddit from <dir>/<name>.json, where dir comes
// from cfg.Extra["dir"] (default ".").
type Connector struct{}

func (c *Connector) Fetch(ctx context.Context, cfg connector.Config, params connector.FetchParams) (*model.Subreddit, error) {
	if params.Subreddit == "" {
		return nil, fmt.Errorf("file: subreddit name required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := cfg.Extra["dir"]
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, params.Subreddit+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("file: read %s: %w", path, err)
	}

	var sub model.Subreddit
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("file: decode %s: %w", path, err)
	}
	if sub.Name == "" {
		sub.Name = params.Subreddit
	}
	return &sub, nil
}

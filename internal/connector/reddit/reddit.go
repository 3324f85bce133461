// Package reddit implements the connector.Connector interface against
// reddit's public JSON endpoints. No OAuth: the listing and comment
// endpoints only need a descriptive User-Agent.
package reddit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hollyoak/canopy/internal/connector"
	"github.com/hollyoak/canopy/internal/connector/httpclient"
	"github.com/hollyoak/canopy/internal/model"
)

const (
	defaultBaseURL = "https://www.reddit.com"

	// Public endpoint etiquette: stay under 1 request/second and don't
	// hammer posts in parallel.
	requestsPerSecond = 1.0
	fetchConcurrency  = 4
)

func init() {
	connector.Register("reddit", func() connector.Connector {
		return &Connector{}
	})
}

// Connector fetches subreddit hot listings and their comment trees.
type Connector struct {
	client *httpclient.Client
}

// thing is reddit's universal JSON envelope: a kind tag plus a payload
// whose shape depends on the kind.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	Children []thing `json:"children"`
}

type aboutData struct {
	DisplayName       string `json:"display_name"`
	PublicDescription string `json:"public_description"`
	Subscribers       uint64 `json:"subscribers"`
}

type linkData struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	SelfText string `json:"selftext"`
	Score    int    `json:"score"`
	Over18   bool   `json:"over_18"`
	Locked   bool   `json:"locked"`
}

type commentData struct {
	Body    string          `json:"body"`
	Score   int             `json:"score"`
	Replies json.RawMessage `json:"replies"`
}

// Fetch retrieves the subreddit's about info, its hot posts, and each
// post's comment tree. A post whose comments fail to load is dropped;
// listing failure is fatal.
func (c *Connector) Fetch(ctx context.Context, cfg connector.Config, params connector.FetchParams) (*model.Subreddit, error) {
	if params.Subreddit == "" {
		return nil, fmt.Errorf("reddit: subreddit name required")
	}
	c.init(cfg)

	postLimit := params.PostLimit
	if postLimit <= 0 || postLimit > connector.DefaultPostLimit {
		postLimit = connector.DefaultPostLimit
	}
	commentLimit := params.CommentLimit
	if commentLimit <= 0 {
		commentLimit = connector.DefaultCommentLimit
	}

	sub := &model.Subreddit{
		Name:      params.Subreddit,
		FetchedAt: time.Now().UTC(),
	}

	// About info is best-effort, matching how listing consumers treat
	// missing descriptions.
	var about thing
	if err := c.client.GetJSON(ctx, "/r/"+params.Subreddit+"/about.json", rawJSON(nil), &about); err != nil {
		slog.Debug("subreddit about fetch failed", "subreddit", params.Subreddit, "error", err)
	} else {
		var ad aboutData
		if err := json.Unmarshal(about.Data, &ad); err == nil {
			sub.Description = ad.PublicDescription
			sub.Subscribers = ad.Subscribers
		}
	}

	links, err := c.hotListing(ctx, params.Subreddit, postLimit)
	if err != nil {
		return nil, fmt.Errorf("reddit: hot listing for r/%s: %w", params.Subreddit, err)
	}

	posts := make([]*model.Post, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, link := range links {
		g.Go(func() error {
			post, err := c.fetchPost(gctx, params.Subreddit, link, commentLimit)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Debug("post fetch failed, skipping",
					"subreddit", params.Subreddit, "post", link.ID, "error", err)
				return nil
			}
			posts[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, post := range posts {
		if post != nil {
			sub.Posts = append(sub.Posts, *post)
		}
	}
	return sub, nil
}

func (c *Connector) init(cfg connector.Config) {
	if c.client != nil {
		return
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c.client = httpclient.New(baseURL, cfg.UserAgent,
		httpclient.WithRateLimit(requestsPerSecond, fetchConcurrency))
}

func (c *Connector) hotListing(ctx context.Context, subreddit string, limit int) ([]linkData, error) {
	var resp thing
	query := rawJSON(url.Values{"limit": []string{strconv.Itoa(limit)}})
	if err := c.client.GetJSON(ctx, "/r/"+subreddit+"/hot.json", query, &resp); err != nil {
		return nil, err
	}
	var lst listing
	if err := json.Unmarshal(resp.Data, &lst); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	var links []linkData
	for _, child := range lst.Children {
		if child.Kind != "t3" {
			continue
		}
		var link linkData
		if err := json.Unmarshal(child.Data, &link); err != nil {
			return nil, fmt.Errorf("decode link: %w", err)
		}
		links = append(links, link)
	}
	return links, nil
}

func (c *Connector) fetchPost(ctx context.Context, subreddit string, link linkData, commentLimit int) (*model.Post, error) {
	// The comments endpoint returns two listings: the post itself and
	// its comment forest.
	var resp []thing
	query := rawJSON(url.Values{"limit": []string{strconv.Itoa(commentLimit)}})
	path := "/r/" + subreddit + "/comments/" + link.ID + ".json"
	if err := c.client.GetJSON(ctx, path, query, &resp); err != nil {
		return nil, err
	}
	if len(resp) < 2 {
		return nil, fmt.Errorf("comments response for %s has %d listings, want 2", link.ID, len(resp))
	}

	var forest listing
	if err := json.Unmarshal(resp[1].Data, &forest); err != nil {
		return nil, fmt.Errorf("decode comment forest: %w", err)
	}
	comments, err := parseComments(forest.Children)
	if err != nil {
		return nil, err
	}

	return &model.Post{
		Title:    link.Title,
		NSFW:     link.Over18,
		Locked:   link.Locked,
		Body:     link.SelfText,
		Score:    link.Score,
		Comments: comments,
	}, nil
}

// parseComments unwraps a comment listing into the model tree. "more"
// stubs (collapsed continuation markers) are skipped, not expanded.
func parseComments(children []thing) ([]model.Comment, error) {
	var out []model.Comment
	for _, child := range children {
		if child.Kind != "t1" {
			continue
		}
		var cd commentData
		if err := json.Unmarshal(child.Data, &cd); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}
		replies, err := parseReplies(cd.Replies)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Comment{
			Body:     cd.Body,
			Score:    cd.Score,
			Comments: replies,
		})
	}
	return out, nil
}

// parseReplies handles reddit's replies quirk: the field is an empty
// string when a comment has no replies, and a Listing thing otherwise.
func parseReplies(raw json.RawMessage) ([]model.Comment, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte(`""`)) || bytes.Equal(raw, []byte(`null`)) {
		return nil, nil
	}
	var t thing
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode replies: %w", err)
	}
	var lst listing
	if err := json.Unmarshal(t.Data, &lst); err != nil {
		return nil, fmt.Errorf("decode replies listing: %w", err)
	}
	return parseComments(lst.Children)
}

// rawJSON adds raw_json=1 so reddit returns literal characters instead
// of HTML entities in body text.
func rawJSON(q url.Values) url.Values {
	if q == nil {
		q = url.Values{}
	}
	q.Set("raw_json", "1")
	return q
}

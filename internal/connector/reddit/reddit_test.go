package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hollyoak/canopy/internal/connector"
)

const aboutJSON = `{
  "kind": "t5",
  "data": {
    "display_name": "golang",
    "public_description": "Ask questions and post articles about Go.",
    "subscribers": 250000
  }
}`

const hotJSON = `{
  "kind": "Listing",
  "data": {
    "children": [
      {"kind": "t3", "data": {
        "id": "abc1",
        "title": "Generics landed",
        "selftext": "Finally!",
        "score": 1200,
        "over_18": false,
        "locked": false
      }},
      {"kind": "t3", "data": {
        "id": "abc2",
        "title": "Weekly thread",
        "selftext": "",
        "score": 30,
        "over_18": false,
        "locked": true
      }}
    ]
  }
}`

// Two listings: the post itself, then the comment forest. The first
// comment has a nested reply; the "more" stub must be skipped.
const commentsJSON = `[
  {"kind": "Listing", "data": {"children": [
    {"kind": "t3", "data": {"id": "abc1", "title": "Generics landed"}}
  ]}},
  {"kind": "Listing", "data": {"children": [
    {"kind": "t1", "data": {
      "body": "Great news",
      "score": 45,
      "replies": {"kind": "Listing", "data": {"children": [
        {"kind": "t1", "data": {"body": "Totally agree!", "score": 12, "replies": ""}}
      ]}}
    }},
    {"kind": "t1", "data": {"body": "Not convinced", "score": -3, "replies": ""}},
    {"kind": "more", "data": {"count": 57}}
  ]}}
]`

func testServer(t *testing.T, failPosts map[string]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/about.json"):
			w.Write([]byte(aboutJSON))
		case strings.HasSuffix(r.URL.Path, "/hot.json"):
			w.Write([]byte(hotJSON))
		case strings.Contains(r.URL.Path, "/comments/"):
			parts := strings.Split(r.URL.Path, "/")
			id := strings.TrimSuffix(parts[len(parts)-1], ".json")
			if failPosts[id] {
				w.WriteHeader(404)
				return
			}
			w.Write([]byte(commentsJSON))
		default:
			w.WriteHeader(404)
		}
	}))
}

func fetch(t *testing.T, srv *httptest.Server) (*Connector, connector.Config) {
	t.Helper()
	c := &Connector{}
	cfg := connector.Config{
		Provider:  "reddit",
		BaseURL:   srv.URL,
		UserAgent: "canopy-test/0.1",
	}
	return c, cfg
}

func TestFetch(t *testing.T) {
	srv := testServer(t, nil)
	defer srv.Close()

	c, cfg := fetch(t, srv)
	sub, err := c.Fetch(context.Background(), cfg, connector.FetchParams{Subreddit: "golang"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sub.Name != "golang" {
		t.Errorf("Name = %q, want golang", sub.Name)
	}
	if sub.Subscribers != 250000 {
		t.Errorf("Subscribers = %d, want 250000", sub.Subscribers)
	}
	if sub.Description == "" {
		t.Error("Description is empty")
	}
	if sub.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
	if len(sub.Posts) != 2 {
		t.Fatalf("len(Posts) = %d, want 2", len(sub.Posts))
	}

	post := sub.Posts[0]
	if post.Title != "Generics landed" || post.Score != 1200 {
		t.Errorf("unexpected post: %+v", post)
	}
	if len(post.Comments) != 2 {
		t.Fatalf("len(Comments) = %d, want 2 (more stub skipped)", len(post.Comments))
	}
	if post.Comments[0].Body != "Great news" {
		t.Errorf("first comment body = %q", post.Comments[0].Body)
	}
	if len(post.Comments[0].Comments) != 1 || post.Comments[0].Comments[0].Body != "Totally agree!" {
		t.Errorf("nested reply not unwrapped: %+v", post.Comments[0].Comments)
	}
	if len(post.Comments[1].Comments) != 0 {
		t.Errorf("empty replies string should yield no children")
	}

	if !sub.Posts[1].Locked {
		t.Error("second post should be locked")
	}
}

func TestFetchSkipsFailedPosts(t *testing.T) {
	srv := testServer(t, map[string]bool{"abc1": true})
	defer srv.Close()

	c, cfg := fetch(t, srv)
	sub, err := c.Fetch(context.Background(), cfg, connector.FetchParams{Subreddit: "golang"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sub.Posts) != 1 {
		t.Fatalf("len(Posts) = %d, want 1 (failed post skipped)", len(sub.Posts))
	}
	if sub.Posts[0].Title != "Weekly thread" {
		t.Errorf("surviving post = %q, want Weekly thread", sub.Posts[0].Title)
	}
}

func TestFetchListingFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
	}))
	defer srv.Close()

	c, cfg := fetch(t, srv)
	_, err := c.Fetch(context.Background(), cfg, connector.FetchParams{Subreddit: "private"})
	if err == nil {
		t.Fatal("expected error for failed listing")
	}
}

func TestFetchRequiresSubreddit(t *testing.T) {
	c := &Connector{}
	_, err := c.Fetch(context.Background(), connector.Config{}, connector.FetchParams{})
	if err == nil {
		t.Fatal("expected error for empty subreddit name")
	}
}

func TestRegistered(t *testing.T) {
	ctor, err := connector.Get("reddit")
	if err != nil {
		t.Fatalf("reddit provider not registered: %v", err)
	}
	if ctor() == nil {
		t.Fatal("constructor returned nil")
	}
}

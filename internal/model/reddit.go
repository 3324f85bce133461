package model

import "time"

// Node is the input-tree shape the analyzer consumes: a text plus ordered
// replies. Concrete field names (title, score, NSFW flags) belong to the
// acquisition layer.
type Node interface {
	Text() string
	Replies() []Node
}

// Subreddit is one collected community with its scraped posts.
type Subreddit struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Subscribers uint64    `json:"subscribers"`
	FetchedAt   time.Time `json:"fetched_at"`
	Posts       []Post    `json:"posts"`
}

// Post is a root submission with its comment tree.
type Post struct {
	Title    string    `json:"title"`
	NSFW     bool      `json:"nsfw"`
	Locked   bool      `json:"locked"`
	Body     string    `json:"body"`
	Score    int       `json:"score"`
	Comments []Comment `json:"comments"`
}

// Comment is one reply and its nested replies.
type Comment struct {
	Body     string    `json:"body"`
	Score    int       `json:"score"`
	Comments []Comment `json:"comments"`
}

func (p *Post) Text() string { return p.Body }

func (p *Post) Replies() []Node { return commentNodes(p.Comments) }

func (c *Comment) Text() string { return c.Body }

func (c *Comment) Replies() []Node { return commentNodes(c.Comments) }

func commentNodes(comments []Comment) []Node {
	if len(comments) == 0 {
		return nil
	}
	nodes := make([]Node, len(comments))
	for i := range comments {
		nodes[i] = &comments[i]
	}
	return nodes
}

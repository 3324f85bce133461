// Package store provides SQLite persistence for collected subreddits and
// their classification results. Trees are stored as JSON blobs; queries
// never reach inside them, so relational decomposition buys nothing.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hollyoak/canopy/internal/model"
)

// Store handles SQLite persistence. All methods are safe for concurrent
// use via an internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// StoredAnalysis is one persisted classification result: the tree for a
// single post, keyed by subreddit and post title.
type StoredAnalysis struct {
	Subreddit string
	PostTitle string
	Tree      *model.AnalysisNode
	CreatedAt time.Time
}

// Open creates a Store at the given database path, creating tables if
// they don't exist. File-based databases run in WAL mode.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS subreddits (
		name TEXT PRIMARY KEY,
		description TEXT,
		subscribers INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME NOT NULL,
		posts TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analyses (
		subreddit TEXT NOT NULL,
		post_title TEXT NOT NULL,
		tree TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (subreddit, post_title)
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_subreddit ON analyses(subreddit);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveSubreddit upserts a collected subreddit, replacing any previous
// snapshot of the same community.
func (s *Store) SaveSubreddit(sub *model.Subreddit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := json.Marshal(sub.Posts)
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO subreddits (name, description, subscribers, fetched_at, posts)
		VALUES (?, ?, ?, ?, ?)
	`, sub.Name, sub.Description, sub.Subscribers, sub.FetchedAt, string(posts))
	return err
}

// GetSubreddit loads one subreddit snapshot. Returns sql.ErrNoRows
// (wrapped) when the community has not been collected.
func (s *Store) GetSubreddit(name string) (*model.Subreddit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sub model.Subreddit
	var posts string
	err := s.db.QueryRow(`
		SELECT name, description, subscribers, fetched_at, posts
		FROM subreddits WHERE name = ?
	`, name).Scan(&sub.Name, &sub.Description, &sub.Subscribers, &sub.FetchedAt, &posts)
	if err != nil {
		return nil, fmt.Errorf("load subreddit %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(posts), &sub.Posts); err != nil {
		return nil, fmt.Errorf("decode posts for %s: %w", name, err)
	}
	return &sub, nil
}

// ListSubreddits returns the names of all collected subreddits, sorted.
func (s *Store) ListSubreddits() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT name FROM subreddits ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveAnalysis upserts the classification tree for one post.
func (s *Store) SaveAnalysis(subreddit, postTitle string, tree *model.AnalysisNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode analysis tree: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO analyses (subreddit, post_title, tree, created_at)
		VALUES (?, ?, ?, ?)
	`, subreddit, postTitle, string(encoded), time.Now().UTC())
	return err
}

// GetAnalyses returns all stored classification results for a subreddit,
// ordered by post title.
func (s *Store) GetAnalyses(subreddit string) ([]StoredAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT subreddit, post_title, tree, created_at
		FROM analyses WHERE subreddit = ?
		ORDER BY post_title
	`, subreddit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredAnalysis
	for rows.Next() {
		var sa StoredAnalysis
		var encoded string
		if err := rows.Scan(&sa.Subreddit, &sa.PostTitle, &encoded, &sa.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(encoded), &sa.Tree); err != nil {
			return nil, fmt.Errorf("decode analysis tree for %s/%s: %w", sa.Subreddit, sa.PostTitle, err)
		}
		out = append(out, sa)
	}
	return out, rows.Err()
}

// Package storage persists high scores and fetched posts.
// A file path opens SQLite through the pure-Go modernc.org/sqlite driver;
// a postgres:// URL opens PostgreSQL through lib/pq.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the database connection for scores and posts.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// HighScore represents a single high score record.
type HighScore struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Score     int       `json:"score"`
	Party     string    `json:"party"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a social media post shown on a balloon.
type Post struct {
	ID        int64     `json:"id"`
	Party     string    `json:"party"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}

// Open creates or opens the database named by dsn and runs migrations.
// For SQLite it expands ~ and creates the parent directories if needed.
func Open(dsn string) (*Store, error) {
	d := dialectFor(dsn)

	if d.driver == "sqlite" {
		// Expand ~ to home directory
		if dsn != "" && dsn[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
			}
			dsn = filepath.Join(home, dsn[1:])
		}

		// Create parent directories
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	source := dsn
	if d.driver == "sqlite" && !strings.Contains(dsn, "?") {
		source = dsn + "?_time_format=sqlite"
	}

	db, err := sql.Open(d.driver, source)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if d.driver == "sqlite" {
		// SQLite allows a single writer; the fetch job and HTTP handlers share it.
		db.SetMaxOpenConns(1)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: d}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	_, err := s.db.Exec(s.dialect.schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.dialect.driver
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("storage: ping failed: %w", err)
	}
	return nil
}

// q rewrites a query for the active dialect.
func (s *Store) q(query string) string {
	return s.dialect.rebind(query)
}

// parseTime converts a scanned timestamp column to time.Time.
// Drivers return either time.Time or a string depending on column type.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	}
	return time.Time{}
}

func parseTimeString(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// dialect captures the differences between SQLite and PostgreSQL.
type dialect struct {
	driver      string
	schema      string
	placeholder func(n int) string
}

func dialectFor(dsn string) dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return dialect{
			driver:      "postgres",
			schema:      postgresSchema,
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		}
	}
	return dialect{
		driver:      "sqlite",
		schema:      sqliteSchema,
		placeholder: func(int) string { return "?" },
	}
}

// rebind replaces each ? in query with the dialect's placeholder.
func (d dialect) rebind(query string) string {
	if d.driver == "sqlite" {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString(d.placeholder(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS high_scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_name TEXT NOT NULL,
		score INTEGER NOT NULL,
		party TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_high_scores_top ON high_scores(score DESC);

	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY,
		party TEXT NOT NULL,
		text TEXT NOT NULL,
		author TEXT NOT NULL,
		handle TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_party ON posts(party, id DESC);
`

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS high_scores (
		id SERIAL PRIMARY KEY,
		user_name TEXT NOT NULL,
		score INTEGER NOT NULL,
		party TEXT NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_high_scores_top ON high_scores(score DESC);

	CREATE TABLE IF NOT EXISTS posts (
		id BIGINT PRIMARY KEY,
		party TEXT NOT NULL,
		text TEXT NOT NULL,
		author TEXT NOT NULL,
		handle TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_party ON posts(party, id DESC);
`

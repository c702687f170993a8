package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SavePosts inserts posts, skipping any whose ID is already stored.
// Returns the number of posts actually inserted.
func (s *Store) SavePosts(ctx context.Context, posts []Post) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, s.q(
		`INSERT INTO posts (id, party, text, author, handle, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
	))
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, p := range posts {
		res, err := stmt.ExecContext(ctx, p.ID, p.Party, p.Text, p.Author, p.Handle, p.CreatedAt.UTC())
		if err != nil {
			return 0, fmt.Errorf("storage: cannot save post %d: %w", p.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit posts: %w", err)
	}
	return inserted, nil
}

// MaxPostID returns the newest stored post ID for a party, or 0 if none.
func (s *Store) MaxPostID(ctx context.Context, party string) (int64, error) {
	var id sql.NullInt64
	err := s.db.QueryRowContext(ctx, s.q("SELECT MAX(id) FROM posts WHERE party = ?"), party).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query newest post: %w", err)
	}
	if !id.Valid {
		return 0, nil
	}
	return id.Int64, nil
}

// PostByID returns a single post. Returns ErrNotFound if it does not exist.
func (s *Store) PostByID(ctx context.Context, id int64) (*Post, error) {
	var p Post
	var createdAt any
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT id, party, text, author, handle, created_at FROM posts WHERE id = ?`),
		id,
	).Scan(&p.ID, &p.Party, &p.Text, &p.Author, &p.Handle, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query post: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// PostsByParty returns posts of one party, newest first, skipping offset rows.
func (s *Store) PostsByParty(ctx context.Context, party string, offset, limit int) ([]Post, error) {
	if limit <= 0 {
		return nil, nil
	}
	if offset < 0 {
		offset = 0
	}
	return s.queryPosts(ctx,
		`SELECT id, party, text, author, handle, created_at
		 FROM posts
		 WHERE party = ?
		 ORDER BY id DESC
		 LIMIT ? OFFSET ?`,
		party, limit, offset,
	)
}

// AllPosts returns posts of every party, newest first.
func (s *Store) AllPosts(ctx context.Context, offset, limit int) ([]Post, error) {
	if limit <= 0 {
		return nil, nil
	}
	if offset < 0 {
		offset = 0
	}
	return s.queryPosts(ctx,
		`SELECT id, party, text, author, handle, created_at
		 FROM posts
		 ORDER BY id DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		var createdAt any
		if err := rows.Scan(&p.ID, &p.Party, &p.Text, &p.Author, &p.Handle, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return posts, nil
}

// CountPosts returns how many posts are stored for a party, or for all
// parties when party is empty.
func (s *Store) CountPosts(ctx context.Context, party string) (int, error) {
	var n int
	var err error
	if party == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, s.q("SELECT COUNT(*) FROM posts WHERE party = ?"), party).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count posts: %w", err)
	}
	return n, nil
}

// ClearPosts deletes every stored post and returns how many were removed.
func (s *Store) ClearPosts(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts")
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear posts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count cleared posts: %w", err)
	}
	return n, nil
}

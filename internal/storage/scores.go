package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveHighScore records a new high score.
// Returns the ID of the inserted record.
func (s *Store) SaveHighScore(ctx context.Context, hs HighScore) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.q("INSERT INTO high_scores (user_name, score, party) VALUES (?, ?, ?) RETURNING id"),
		hs.User, hs.Score, hs.Party,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	return id, nil
}

// TopHighScores retrieves the top N scores across both parties.
// Results are ordered by score descending.
func (s *Store) TopHighScores(ctx context.Context, limit int) ([]HighScore, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.queryScores(ctx,
		`SELECT id, user_name, score, party, created_at
		 FROM high_scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// TopHighScoresByParty retrieves the top N scores of players of one party.
func (s *Store) TopHighScoresByParty(ctx context.Context, party string, limit int) ([]HighScore, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.queryScores(ctx,
		`SELECT id, user_name, score, party, created_at
		 FROM high_scores
		 WHERE party = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		party, limit,
	)
}

func (s *Store) queryScores(ctx context.Context, query string, args ...any) ([]HighScore, error) {
	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []HighScore
	for rows.Next() {
		var e HighScore
		var createdAt any
		if err := rows.Scan(&e.ID, &e.User, &e.Score, &e.Party, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestScore returns the highest recorded score. Returns 0 if no scores exist.
func (s *Store) BestScore(ctx context.Context) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(score) FROM high_scores").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearHighScores deletes all high scores.
func (s *Store) ClearHighScores(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM high_scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// PartyStats contains aggregated statistics for players of one party.
type PartyStats struct {
	Party      string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// StatsByParty retrieves statistics for every party that has recorded scores.
func (s *Store) StatsByParty(ctx context.Context) (map[string]*PartyStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT party, COUNT(*), MAX(score), AVG(score), SUM(score)
		 FROM high_scores
		 GROUP BY party`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get party stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*PartyStats)
	for rows.Next() {
		var ps PartyStats
		if err := rows.Scan(&ps.Party, &ps.GamesCount, &ps.HighScore, &ps.AvgScore, &ps.TotalScore); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats[ps.Party] = &ps
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	for party, ps := range stats {
		var lastPlayed any
		err := s.db.QueryRowContext(ctx,
			s.q(`SELECT created_at FROM high_scores WHERE party = ? ORDER BY id DESC LIMIT 1`),
			party,
		).Scan(&lastPlayed)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("storage: cannot get last played: %w", err)
		}
		ps.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

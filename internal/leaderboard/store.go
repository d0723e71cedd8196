// internal/leaderboard/store.go
//
// Durable ranked list of completed-game results, backed by SQL.
// Ranking order: fewest moves first, ties broken by fastest completion,
// then earliest submission. Player names are unique (case-insensitive);
// the duplicate check and the insert run in one transaction.

package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrDuplicateName is returned when the player name already holds an entry.
var ErrDuplicateName = errors.New("player name already on the leaderboard")

// Entry is one submitted result.
type Entry struct {
	PlayerName     string    `json:"player_name"`
	Moves          int       `json:"moves"`
	CompletionTime float64   `json:"completion_time"` // seconds
	CreatedAt      time.Time `json:"created_at"`
	UserID         string    `json:"-"` // optional account association
}

// Store reads and appends leaderboard entries.
type Store struct{ db *sql.DB }

// NewStore wraps an opened database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Exists reports whether playerName already has an entry (case-insensitive).
func (s *Store) Exists(ctx context.Context, playerName string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM player_scores WHERE lower(player_name)=lower(?)`,
		playerName,
	).Scan(&cnt)
	return cnt > 0, err
}

// Insert appends an entry, enforcing name uniqueness atomically.
// Returns the stored entry with CreatedAt populated, or ErrDuplicateName.
func (s *Store) Insert(ctx context.Context, e Entry) (Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("begin insert score: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var cnt int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM player_scores WHERE lower(player_name)=lower(?)`,
		e.PlayerName,
	).Scan(&cnt); err != nil {
		return Entry{}, fmt.Errorf("check player name: %w", err)
	}
	if cnt > 0 {
		return Entry{}, ErrDuplicateName
	}

	e.CreatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO player_scores (player_name, moves, completion_time, user_id, created_at)
        VALUES (?, ?, ?, NULLIF(?, ''), ?)`,
		e.PlayerName, e.Moves, e.CompletionTime, e.UserID, e.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return Entry{}, fmt.Errorf("insert score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("commit score: %w", err)
	}
	return e, nil
}

// Top fetches the ranked leaderboard. Default limit is 10 if not positive.
func (s *Store) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player_name, moves, completion_time, created_at
        FROM player_scores
        ORDER BY moves ASC, completion_time ASC, created_at ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.PlayerName, &e.Moves, &e.CompletionTime, &created); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

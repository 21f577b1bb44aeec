package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Session is one tracking session's persisted state.
type Session struct {
	SessionID   string  `json:"session_id"`
	Exercise    string  `json:"exercise"`
	RepCount    int     `json:"rep_count"`
	FrameCount  int     `json:"frame_count"`
	StartedUnix float64 `json:"started_unix"`
	UpdatedUnix float64 `json:"updated_unix"`
}

// ErrSessionNotFound is returned when a session ID is unknown.
var ErrSessionNotFound = errors.New("session not found")

func nowUnix() float64 {
	return float64(time.Now().UnixMilli()) / 1000.0
}

// CreateSession inserts a new session row.
func (db *DB) CreateSession(ctx context.Context, sessionID, exercise string) error {
	now := nowUnix()
	_, err := db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, exercise, rep_count, frame_count, started_unix, updated_unix)
		 VALUES (?, ?, 0, 0, ?, ?)`,
		sessionID, exercise, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// UpdateSessionProgress records the latest rep and frame counts.
func (db *DB) UpdateSessionProgress(ctx context.Context, sessionID string, repCount, frameCount int) error {
	result, err := db.ExecContext(ctx,
		`UPDATE sessions SET rep_count = ?, frame_count = ?, updated_unix = ? WHERE session_id = ?`,
		repCount, frameCount, nowUnix(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// GetSession returns one session by ID.
func (db *DB) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	err := db.QueryRowContext(ctx,
		`SELECT session_id, exercise, rep_count, frame_count, started_unix, updated_unix
		 FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&s.SessionID, &s.Exercise, &s.RepCount, &s.FrameCount, &s.StartedUnix, &s.UpdatedUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// Sessions lists the most recent sessions, newest first.
func (db *DB) Sessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx,
		`SELECT session_id, exercise, rep_count, frame_count, started_unix, updated_unix
		 FROM sessions ORDER BY started_unix DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.SessionID, &s.Exercise, &s.RepCount, &s.FrameCount, &s.StartedUnix, &s.UpdatedUnix); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

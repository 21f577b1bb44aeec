package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/repsense-data/repsense/internal/reps"
)

// RepResult is one persisted repetition's analytics.
type RepResult struct {
	SessionID     string   `json:"session_id"`
	RepNumber     int      `json:"rep_number"`
	StartFrame    int      `json:"start_frame"`
	EndFrame      int      `json:"end_frame"`
	DurationMs    float64  `json:"duration_ms"`
	MinAngle      float64  `json:"min_angle"`
	MaxAngle      float64  `json:"max_angle"`
	AvgAngle      float64  `json:"avg_angle"`
	RangeOfMotion float64  `json:"range_of_motion"`
	TargetMin     *float64 `json:"target_min,omitempty"`
	TargetMax     *float64 `json:"target_max,omitempty"`
}

// RecordRepResult upserts one rep's analytics. The (session, rep number)
// key is stable, so re-running segmentation over a grown history updates in
// place instead of duplicating rows.
func (db *DB) RecordRepResult(ctx context.Context, sessionID string, seg reps.RepSegment, a reps.Analysis) error {
	var targetMin, targetMax sql.NullFloat64
	if a.TargetAngles != nil {
		targetMin = sql.NullFloat64{Float64: a.TargetAngles.Min, Valid: true}
		targetMax = sql.NullFloat64{Float64: a.TargetAngles.Max, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO rep_results (
			session_id, rep_number, start_frame, end_frame, duration_ms,
			min_angle, max_angle, avg_angle, range_of_motion, target_min, target_max
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, rep_number) DO UPDATE SET
			start_frame = excluded.start_frame,
			end_frame = excluded.end_frame,
			duration_ms = excluded.duration_ms,
			min_angle = excluded.min_angle,
			max_angle = excluded.max_angle,
			avg_angle = excluded.avg_angle,
			range_of_motion = excluded.range_of_motion,
			target_min = excluded.target_min,
			target_max = excluded.target_max
	`,
		sessionID, a.RepNumber, seg.StartFrame, seg.EndFrame, a.DurationMs,
		a.AngleRange.Min, a.AngleRange.Max, a.AverageAngle, a.RangeOfMotion,
		targetMin, targetMax,
	)
	if err != nil {
		return fmt.Errorf("failed to record rep result: %w", err)
	}
	return nil
}

// SessionReps returns all recorded reps for a session in rep order.
func (db *DB) SessionReps(ctx context.Context, sessionID string) ([]RepResult, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT session_id, rep_number, start_frame, end_frame, duration_ms,
			min_angle, max_angle, avg_angle, range_of_motion, target_min, target_max
		FROM rep_results
		WHERE session_id = ?
		ORDER BY rep_number
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session reps: %w", err)
	}
	defer rows.Close()

	var results []RepResult
	for rows.Next() {
		var r RepResult
		var targetMin, targetMax sql.NullFloat64
		if err := rows.Scan(
			&r.SessionID, &r.RepNumber, &r.StartFrame, &r.EndFrame, &r.DurationMs,
			&r.MinAngle, &r.MaxAngle, &r.AvgAngle, &r.RangeOfMotion, &targetMin, &targetMax,
		); err != nil {
			return nil, err
		}
		if targetMin.Valid {
			r.TargetMin = &targetMin.Float64
		}
		if targetMax.Valid {
			r.TargetMax = &targetMax.Float64
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// SessionSummary aggregates a session's recorded reps.
type SessionSummary struct {
	SessionID     string  `json:"session_id"`
	RepCount      int     `json:"rep_count"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	AvgROM        float64 `json:"avg_range_of_motion"`
	BestROM       float64 `json:"best_range_of_motion"`
	WorstROM      float64 `json:"worst_range_of_motion"`
}

// SummarizeSession aggregates the persisted reps of one session. A session
// with no recorded reps yields a zero summary rather than an error.
func (db *DB) SummarizeSession(ctx context.Context, sessionID string) (*SessionSummary, error) {
	s := &SessionSummary{SessionID: sessionID}
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(duration_ms), 0),
			COALESCE(AVG(range_of_motion), 0),
			COALESCE(MAX(range_of_motion), 0),
			COALESCE(MIN(range_of_motion), 0)
		FROM rep_results
		WHERE session_id = ?
	`, sessionID).Scan(&s.RepCount, &s.AvgDurationMs, &s.AvgROM, &s.BestROM, &s.WorstROM)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize session: %w", err)
	}
	return s, nil
}

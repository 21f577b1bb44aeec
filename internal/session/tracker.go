// Package session owns live tracking sessions: the growing pose history per
// session, serialized access to it, and fan-out of newly completed reps to
// persistence and the feedback service. The engine in internal/reps stays
// pure; this layer supplies the single-writer discipline it requires.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/repsense-data/repsense/internal/coach"
	"github.com/repsense-data/repsense/internal/db"
	"github.com/repsense-data/repsense/internal/exercise"
	"github.com/repsense-data/repsense/internal/monitoring"
	"github.com/repsense-data/repsense/internal/pose"
	"github.com/repsense-data/repsense/internal/reps"
)

// Tracker is one live tracking session. All methods serialize on an
// internal mutex: the engine requires that no two segmentation passes read
// the same growing history concurrently.
type Tracker struct {
	ID       string
	Exercise *exercise.Config

	mu           sync.Mutex
	history      pose.History
	lastRepCount int
	pending      int // frames appended since the last Process
	lastActivity time.Time

	store      *db.DB // optional
	dispatcher coach.Dispatcher
}

// NewTracker creates a session for the given (validated) exercise config.
// store may be nil to disable persistence; dispatcher may be nil to disable
// feedback dispatch.
func NewTracker(cfg *exercise.Config, store *db.DB, dispatcher coach.Dispatcher) *Tracker {
	return &Tracker{
		ID:           uuid.NewString(),
		Exercise:     cfg,
		lastActivity: time.Now(),
		store:        store,
		dispatcher:   dispatcher,
	}
}

// AddFrame appends one pose frame without running segmentation. Use for
// high-rate ingest where a worker (or an explicit Process call) picks up
// the accumulated frames.
func (t *Tracker) AddFrame(f pose.Frame, timestampMs int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history.Append(f, timestampMs)
	t.pending++
	t.lastActivity = time.Now()
}

// Process runs the segmentation pipeline over the full history, persists
// and dispatches any newly completed reps, and returns the total rep count
// plus the analyses for the new reps only.
//
// Persistence and dispatch failures are logged, not returned: a flaky
// database or feedback service must not break the tracking loop, and the
// at-most-once emission bookkeeping advances regardless.
func (t *Tracker) Process(ctx context.Context) (int, []reps.Analysis) {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := reps.Segment(&t.history, t.Exercise, t.lastRepCount)
	t.pending = 0

	var analyses []reps.Analysis
	for _, seg := range result.NewSegments {
		a := reps.Analyze(seg, t.Exercise)
		analyses = append(analyses, a)

		if t.store != nil {
			if err := t.store.RecordRepResult(ctx, t.ID, seg, a); err != nil {
				monitoring.Logf("Session %s: failed to persist rep %d: %v", t.ID, a.RepNumber, err)
			}
		}
		if t.dispatcher != nil {
			if err := t.dispatcher.Dispatch(ctx, coach.NewRecord(t.ID, t.Exercise.Name, a)); err != nil {
				monitoring.Logf("Session %s: failed to dispatch rep %d: %v", t.ID, a.RepNumber, err)
			}
		}
	}

	if result.RepCount > t.lastRepCount {
		t.lastRepCount = result.RepCount
	}
	if t.store != nil {
		if err := t.store.UpdateSessionProgress(ctx, t.ID, t.lastRepCount, t.history.Len()); err != nil {
			monitoring.Logf("Session %s: failed to update progress: %v", t.ID, err)
		}
	}
	return t.lastRepCount, analyses
}

// RepCount returns the running total of completed reps.
func (t *Tracker) RepCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastRepCount
}

// FrameCount returns the number of frames recorded so far.
func (t *Tracker) FrameCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.Len()
}

// Pending reports how many frames arrived since the last Process call.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// LastActivity returns the time of the most recent frame append.
func (t *Tracker) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastActivity
}

// SignalSnapshot is a point-in-time view of the composite signal and its
// detected extrema, for debugging and chart rendering.
type SignalSnapshot struct {
	Exercise string    `json:"exercise"`
	Signal   []float64 `json:"signal"`
	Smoothed []float64 `json:"smoothed"`
	Peaks    []int     `json:"peaks"`
	Valleys  []int     `json:"valleys"`
	RepCount int       `json:"rep_count"`
}

// Snapshot recomputes the composite signal and extrema over the current
// history. Read-only with respect to segmentation state.
func (t *Tracker) Snapshot() SignalSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	signal, _ := reps.BuildSignal(&t.history, t.Exercise)
	peaks, valleys := reps.DetectExtrema(signal, t.Exercise.MinPeakDistance)
	return SignalSnapshot{
		Exercise: t.Exercise.Name,
		Signal:   signal,
		Smoothed: reps.MovingAverage(signal, reps.DetectionWindow),
		Peaks:    peaks,
		Valleys:  valleys,
		RepCount: t.lastRepCount,
	}
}

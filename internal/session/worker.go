package session

import (
	"context"
	"time"

	"github.com/repsense-data/repsense/internal/monitoring"
	"github.com/repsense-data/repsense/internal/timeutil"
)

// Worker periodically sweeps the live trackers: sessions with frames that
// arrived since their last segmentation pass get processed, and sessions
// idle past the expiry window are dropped from the live set. It backstops
// callers that ingest frames without asking for immediate processing.
type Worker struct {
	Manager    *Manager
	Clock      timeutil.Clock
	Interval   time.Duration // how often to sweep
	IdleExpiry time.Duration // drop sessions with no frames for this long
	StopChan   chan struct{}
}

// NewWorker returns a worker with the default sweep cadence.
func NewWorker(m *Manager) *Worker {
	return &Worker{
		Manager:    m,
		Clock:      timeutil.RealClock{},
		Interval:   2 * time.Second,
		IdleExpiry: 10 * time.Minute,
		StopChan:   make(chan struct{}),
	}
}

// Start runs the periodic sweep loop in a goroutine.
func (w *Worker) Start() {
	go func() {
		ticker := w.Clock.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				w.RunOnce(context.Background())
			case <-w.StopChan:
				return
			}
		}
	}()
}

// Stop requests the worker to stop.
func (w *Worker) Stop() {
	close(w.StopChan)
}

// RunOnce performs a single sweep over the live trackers.
func (w *Worker) RunOnce(ctx context.Context) {
	for _, t := range w.Manager.Active() {
		if w.IdleExpiry > 0 && w.Clock.Since(t.LastActivity()) > w.IdleExpiry {
			monitoring.Logf("Session %s: expiring after %s idle", t.ID, w.IdleExpiry)
			w.Manager.Remove(t.ID)
			continue
		}
		if t.Pending() == 0 {
			continue
		}
		t.Process(ctx)
	}
}

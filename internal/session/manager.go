package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/repsense-data/repsense/internal/coach"
	"github.com/repsense-data/repsense/internal/db"
	"github.com/repsense-data/repsense/internal/exercise"
)

// Manager owns the set of live trackers and wires each new session to the
// exercise store, persistence, and feedback dispatch.
type Manager struct {
	configs    *exercise.Store
	store      *db.DB
	dispatcher coach.Dispatcher

	mu       sync.RWMutex
	trackers map[string]*Tracker
}

// NewManager builds a manager. store and dispatcher may be nil (no
// persistence / no feedback).
func NewManager(configs *exercise.Store, store *db.DB, dispatcher coach.Dispatcher) *Manager {
	return &Manager{
		configs:    configs,
		store:      store,
		dispatcher: dispatcher,
		trackers:   make(map[string]*Tracker),
	}
}

// Start creates a tracker for the named exercise and registers a session
// row when persistence is configured.
func (m *Manager) Start(ctx context.Context, exerciseName string) (*Tracker, error) {
	cfg, ok := m.configs.Lookup(exerciseName)
	if !ok {
		return nil, fmt.Errorf("unknown exercise %q", exerciseName)
	}

	t := NewTracker(cfg, m.store, m.dispatcher)
	if m.store != nil {
		if err := m.store.CreateSession(ctx, t.ID, cfg.Name); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	m.trackers[t.ID] = t
	m.mu.Unlock()
	return t, nil
}

// Get returns the live tracker for a session ID.
func (m *Manager) Get(sessionID string) (*Tracker, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trackers[sessionID]
	return t, ok
}

// Remove drops a tracker from the live set. Persisted rows are untouched.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trackers, sessionID)
}

// Active returns the live trackers, ordered by session ID for stable
// iteration.
func (m *Manager) Active() []*Tracker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Tracker, 0, len(m.trackers))
	for _, t := range m.trackers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

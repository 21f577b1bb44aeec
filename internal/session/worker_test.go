package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repsense-data/repsense/internal/timeutil"
)

func TestWorkerRunOnceProcessesPendingFrames(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	tr, err := m.Start(context.Background(), "Bicep Curl")
	require.NoError(t, err)
	feedCurl(tr)

	w := NewWorker(m)
	w.RunOnce(context.Background())

	assert.Equal(t, 1, tr.RepCount())
	assert.Zero(t, tr.Pending())

	// A second sweep with nothing pending is a no-op.
	w.RunOnce(context.Background())
	assert.Equal(t, 1, tr.RepCount())
}

func TestWorkerRunOnceExpiresIdleSessions(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	tr, err := m.Start(context.Background(), "Bicep Curl")
	require.NoError(t, err)

	clock := timeutil.NewMockClock(time.Now())
	w := NewWorker(m)
	w.Clock = clock

	// Within the idle window the session survives a sweep.
	w.RunOnce(context.Background())
	assert.Len(t, m.Active(), 1)

	// Past the idle window it gets dropped from the live set.
	clock.Advance(w.IdleExpiry + time.Second)
	w.RunOnce(context.Background())
	_, ok := m.Get(tr.ID)
	assert.False(t, ok)
	assert.Empty(t, m.Active())
}

func TestWorkerLoop(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	tr, err := m.Start(context.Background(), "Bicep Curl")
	require.NoError(t, err)
	feedCurl(tr)

	w := NewWorker(m)
	w.Interval = 5 * time.Millisecond
	w.Start()
	defer w.Stop()

	assert.Eventually(t, func() bool { return tr.RepCount() == 1 },
		2*time.Second, 10*time.Millisecond)
}

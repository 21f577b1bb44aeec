package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repsense-data/repsense/internal/reps"
)

// newTestDB opens a throwaway on-disk database with the full schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.MigrateUp("migrations"))
	return database
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)

	version, dirty, err := database.MigrateVersion("migrations")
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	// Down then up again must be clean.
	require.NoError(t, database.MigrateDown("migrations"))
	require.NoError(t, database.MigrateUp("migrations"))
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.CreateSession(ctx, "sess-1", "Bicep Curl"))

	s, err := database.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Bicep Curl", s.Exercise)
	assert.Zero(t, s.RepCount)

	require.NoError(t, database.UpdateSessionProgress(ctx, "sess-1", 3, 100))
	s, err = database.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.RepCount)
	assert.Equal(t, 100, s.FrameCount)

	_, err = database.GetSession(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = database.UpdateSessionProgress(ctx, "nope", 1, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsList(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.CreateSession(ctx, "sess-a", "Squat"))
	require.NoError(t, database.CreateSession(ctx, "sess-b", "Bicep Curl"))

	sessions, err := database.Sessions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func testAnalysis(repNumber int, rom float64) (reps.RepSegment, reps.Analysis) {
	seg := reps.RepSegment{
		RepNumber:  repNumber,
		StartFrame: repNumber * 30,
		EndFrame:   repNumber*30 + 15,
		DurationMs: 500,
	}
	a := reps.Analysis{
		RepNumber:     repNumber,
		DurationMs:    500,
		AngleRange:    reps.AngleRange{Min: 45, Max: 45 + rom},
		AverageAngle:  90,
		RangeOfMotion: rom,
		TargetAngles:  &reps.AngleRange{Min: 45, Max: 150},
	}
	return seg, a
}

func TestRecordRepResultUpsert(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, database.CreateSession(ctx, "sess-1", "Bicep Curl"))

	seg, a := testAnalysis(1, 100)
	require.NoError(t, database.RecordRepResult(ctx, "sess-1", seg, a))

	// Re-recording the same rep updates in place.
	a.RangeOfMotion = 105
	require.NoError(t, database.RecordRepResult(ctx, "sess-1", seg, a))

	results, err := database.SessionReps(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 105.0, results[0].RangeOfMotion)
	require.NotNil(t, results[0].TargetMin)
	assert.Equal(t, 45.0, *results[0].TargetMin)
}

func TestSummarizeSession(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, database.CreateSession(ctx, "sess-1", "Bicep Curl"))

	for i, rom := range []float64{100, 105, 95} {
		seg, a := testAnalysis(i+1, rom)
		require.NoError(t, database.RecordRepResult(ctx, "sess-1", seg, a))
	}

	summary, err := database.SummarizeSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.RepCount)
	assert.InDelta(t, 100.0, summary.AvgROM, 1e-9)
	assert.Equal(t, 105.0, summary.BestROM)
	assert.Equal(t, 95.0, summary.WorstROM)
	assert.Equal(t, 500.0, summary.AvgDurationMs)
}

func TestSummarizeEmptySession(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	summary, err := database.SummarizeSession(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Zero(t, summary.RepCount)
	assert.Zero(t, summary.AvgROM)
}

package reps

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repsense-data/repsense/internal/pose"
)

// sineHistory builds a pose history whose elbow angles trace
// center + amplitude*sin(2*pi*i/period + phase).
func sineHistory(n int, center, amplitude, period, phase float64) *pose.History {
	h := &pose.History{}
	for i := 0; i < n; i++ {
		angle := center + amplitude*math.Sin(2*math.Pi*float64(i)/period+phase)
		h.Append(frameWithElbowAngles(angle, angle), 0)
	}
	return h
}

// curlHistory simulates one full bicep curl with a slight run-in and
// settle: extend to 150, curl down to 45, back up to 150.
func curlHistory() *pose.History {
	h := &pose.History{}
	for i := 0; i < 60; i++ {
		var angle float64
		switch {
		case i < 10:
			angle = 140 + 10*float64(i)/9
		case i < 30:
			angle = 150 - 105*float64(i-10)/20
		case i < 50:
			angle = 45 + 105*float64(i-30)/20
		default:
			angle = 150 - 10*float64(i-50)/9
		}
		h.Append(frameWithElbowAngles(angle, angle), 0)
	}
	return h
}

func TestSegmentInsufficientData(t *testing.T) {
	t.Parallel()

	cfg := curlConfig()

	t.Run("fewer than 20 frames", func(t *testing.T) {
		t.Parallel()
		h := sineHistory(19, 90, 50, 30, 0)
		result := Segment(h, cfg, 0)
		assert.Equal(t, Result{}, result)
	})

	t.Run("nil history", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, Result{}, Segment(nil, cfg, 0))
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, Result{}, Segment(&pose.History{}, cfg, 0))
	})
}

func TestSegmentSineWave(t *testing.T) {
	t.Parallel()

	// Clean oscillation between ~40 and ~140 degrees, three full cycles
	// visible in 100 frames.
	h := sineHistory(100, 90, -50, 30, 0.2)
	cfg := curlConfig()
	cfg.Inverted = false

	result := Segment(h, cfg, 0)
	assert.Equal(t, 3, result.RepCount)
	require.Len(t, result.NewSegments, 3)

	for i, seg := range result.NewSegments {
		assert.Equal(t, i+1, seg.RepNumber)
		assert.Equal(t, 15, seg.EndFrame-seg.StartFrame)

		a := Analyze(seg, cfg)
		assert.InDelta(t, 99.5, a.RangeOfMotion, 1.0)
		assert.InDelta(t, 40.2, a.AngleRange.Min, 1.0)
		assert.InDelta(t, 139.8, a.AngleRange.Max, 1.0)
	}
}

func TestSegmentMonotonicRepCount(t *testing.T) {
	t.Parallel()

	h := sineHistory(100, 90, -50, 30, 0.2)
	cfg := curlConfig()
	cfg.Inverted = false

	prev := 0
	for n := 20; n <= 100; n++ {
		prefix := &pose.History{Frames: h.Frames[:n]}
		result := Segment(prefix, cfg, 0)
		assert.GreaterOrEqual(t, result.RepCount, prev, "rep count regressed at %d frames", n)
		prev = result.RepCount
	}
	assert.Equal(t, 3, prev)
}

func TestSegmentAtMostOnceEmission(t *testing.T) {
	t.Parallel()

	h := sineHistory(100, 90, -50, 30, 0.2)
	cfg := curlConfig()
	cfg.Inverted = false

	first := Segment(h, cfg, 0)
	require.Equal(t, 3, first.RepCount)
	require.Len(t, first.NewSegments, 3)

	// Re-running with the previous count reports the total but emits nothing.
	second := Segment(h, cfg, first.RepCount)
	assert.Equal(t, 3, second.RepCount)
	assert.Empty(t, second.NewSegments)

	// A partially processed history emits only the tail.
	partial := Segment(h, cfg, 1)
	assert.Equal(t, 3, partial.RepCount)
	require.Len(t, partial.NewSegments, 2)
	assert.Equal(t, 2, partial.NewSegments[0].RepNumber)
	assert.Equal(t, 3, partial.NewSegments[1].RepNumber)
}

func TestSegmentBicepCurl(t *testing.T) {
	t.Parallel()

	// Inverted config: the composite falls as the elbow closes, so the
	// curl's bottom becomes a signal peak and one curl is one valley->peak.
	result := Segment(curlHistory(), curlConfig(), 0)
	assert.Equal(t, 1, result.RepCount)
	require.Len(t, result.NewSegments, 1)

	seg := result.NewSegments[0]
	a := Analyze(seg, curlConfig())
	assert.Equal(t, 1, a.RepNumber)
	assert.InDelta(t, 105.0, a.RangeOfMotion, 1.0)
	require.NotNil(t, a.TargetAngles)
	assert.Equal(t, 45.0, a.TargetAngles.Min)
	assert.Equal(t, 150.0, a.TargetAngles.Max)
	assert.InDelta(t, 733.3, seg.DurationMs, 40.0)
}

func TestSegmentDurationFromTimestamps(t *testing.T) {
	t.Parallel()

	// Same curl but with real capture times 100ms apart: durations come
	// from the timestamps, not the 30fps estimate.
	src := curlHistory()
	h := &pose.History{}
	for i, f := range src.Frames {
		h.Append(f, int64(1_000_000+i*100))
	}
	require.True(t, h.HasTimestamps())

	result := Segment(h, curlConfig(), 0)
	require.Len(t, result.NewSegments, 1)
	seg := result.NewSegments[0]
	assert.InDelta(t, float64((seg.EndFrame-seg.StartFrame)*100), seg.DurationMs, 1e-9)
}

func TestSegmentWithDropoutFrames(t *testing.T) {
	t.Parallel()

	// Every tenth frame loses its detection entirely. The run must not
	// panic, dropout frames contribute composite zero, and their frames
	// carry no angle samples.
	h := sineHistory(100, 90, -50, 30, 0.2)
	for i := 0; i < 100; i += 10 {
		h.Frames[i] = pose.Frame{}
	}
	cfg := curlConfig()
	cfg.Inverted = false

	signal, samples := BuildSignal(h, cfg)
	for i := 0; i < 100; i += 10 {
		assert.Zero(t, signal[i])
	}
	for _, s := range samples {
		assert.NotZero(t, s.FrameIndex%10)
	}

	result := Segment(h, cfg, 0)
	assert.Equal(t, 3, result.RepCount)
}

func TestMergeEvents(t *testing.T) {
	t.Parallel()

	t.Run("interleaves by frame index", func(t *testing.T) {
		t.Parallel()
		got := mergeEvents([]int{10, 30}, []int{20, 40})
		want := []Event{
			{10, KindPeak}, {20, KindValley}, {30, KindPeak}, {40, KindValley},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("merged events mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("collapses same-kind runs keeping the first", func(t *testing.T) {
		t.Parallel()
		// Peak spacing is independent of valley spacing, so two peaks can
		// arrive with no valley between them.
		got := mergeEvents([]int{10, 25, 30}, []int{40})
		want := []Event{{10, KindPeak}, {40, KindValley}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("merged events mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, mergeEvents(nil, nil))
	})
}

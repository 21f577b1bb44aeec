package reps

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sineSignal samples amplitude*sin(2*pi*i/period + phase) around center.
func sineSignal(n int, center, amplitude, period, phase float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = center + amplitude*math.Sin(2*math.Pi*float64(i)/period+phase)
	}
	return out
}

func TestDetectExtremaTooFewSamples(t *testing.T) {
	t.Parallel()

	peaks, valleys := DetectExtrema([]float64{1, 2, 3, 2}, 8)
	assert.Empty(t, peaks)
	assert.Empty(t, valleys)
}

func TestDetectExtremaSineWave(t *testing.T) {
	t.Parallel()

	// Period 30 over 100 frames: interior extrema every 15 frames,
	// alternating valley/peak.
	signal := sineSignal(100, 90, -50, 30, 0.2)
	peaks, valleys := DetectExtrema(signal, 8)

	assert.Equal(t, []int{22, 52, 82}, peaks)
	assert.Equal(t, []int{7, 37, 67}, valleys)
}

func TestDetectExtremaFlatSignal(t *testing.T) {
	t.Parallel()

	flat := make([]float64, 50)
	for i := range flat {
		flat[i] = 10
	}
	peaks, valleys := DetectExtrema(flat, 8)
	// Ties disqualify: a perfectly flat signal has no strict extrema.
	assert.Empty(t, peaks)
	assert.Empty(t, valleys)
}

func TestDetectExtremaMinPeakDistance(t *testing.T) {
	t.Parallel()

	// Period-10 oscillation with minPeakDistance 15: natural extrema come
	// every 10 frames, so every other one must be suppressed.
	signal := sineSignal(100, 90, 50, 10, 0)
	peaks, valleys := DetectExtrema(signal, 15)

	require.NotEmpty(t, peaks)
	require.NotEmpty(t, valleys)
	for i := 1; i < len(peaks); i++ {
		assert.GreaterOrEqual(t, peaks[i]-peaks[i-1], 15)
	}
	for i := 1; i < len(valleys); i++ {
		assert.GreaterOrEqual(t, valleys[i]-valleys[i-1], 15)
	}
}

func TestDetectExtremaProminence(t *testing.T) {
	t.Parallel()

	// A small bump riding just above the global minimum: a strict local
	// max, but within the prominence threshold of the floor, so rejected.
	signal := make([]float64, 60)
	for i := range signal {
		switch {
		case i < 15:
			signal[i] = 50 - 50*float64(i)/15
		case i < 20:
			signal[i] = float64(i-15) * 0.6
		case i < 25:
			signal[i] = 3 - float64(i-20)*0.6
		default:
			signal[i] = float64(i-25) * 50 / 35
		}
	}

	peaks, _ := DetectExtrema(signal, 8)
	assert.Empty(t, peaks)
}

func TestDetectExtremaAscendingOrder(t *testing.T) {
	t.Parallel()

	signal := sineSignal(200, 0, 10, 23, 0.4)
	peaks, valleys := DetectExtrema(signal, 5)
	assert.True(t, sortedAscending(peaks), "peaks not ascending: %v", peaks)
	assert.True(t, sortedAscending(valleys), "valleys not ascending: %v", valleys)
}

func sortedAscending(idx []int) bool {
	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			return false
		}
	}
	return true
}

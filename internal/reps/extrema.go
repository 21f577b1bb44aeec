package reps

import "gonum.org/v1/gonum/floats"

const (
	// minDetectSamples is the floor below which no extrema are meaningful.
	minDetectSamples = 5

	// DetectionWindow is the smoothing window applied before extrema
	// detection, fixed regardless of other smoothing in the system: a
	// stronger filter here suppresses frame-to-frame detection jitter from
	// the pose model.
	DetectionWindow = 7

	// prominenceFraction scales the smoothed signal's global range into the
	// minimum deviation a candidate extremum must show, rejecting small
	// wobbles that are not true repetition boundaries.
	prominenceFraction = 0.15
)

// DetectExtrema finds peak and valley frame indices in the composite signal.
//
// A candidate peak at i must be strictly greater than every other sample in
// the surrounding trend window (ties on a flat plateau disqualify it), stand
// more than the prominence threshold above the global minimum, and sit at
// least minPeakDistance frames after the previously accepted peak. Valleys
// are symmetric against the global maximum. The spacing constraint applies
// within each kind independently; a peak and a valley may be adjacent.
//
// Both returned lists are in ascending frame order.
func DetectExtrema(values []float64, minPeakDistance int) (peaks, valleys []int) {
	if len(values) < minDetectSamples {
		return nil, nil
	}

	smoothed := MovingAverage(values, DetectionWindow)

	minVal := floats.Min(smoothed)
	maxVal := floats.Max(smoothed)
	prominence := (maxVal - minVal) * prominenceFraction

	trendWindow := max(3, minPeakDistance/2)

	for i := trendWindow; i < len(smoothed)-trendWindow; i++ {
		isPeak, isValley := true, true
		for j := i - trendWindow; j <= i+trendWindow; j++ {
			if j == i {
				continue
			}
			if smoothed[j] >= smoothed[i] {
				isPeak = false
			}
			if smoothed[j] <= smoothed[i] {
				isValley = false
			}
			if !isPeak && !isValley {
				break
			}
		}

		if isPeak && smoothed[i]-minVal > prominence &&
			(len(peaks) == 0 || i-peaks[len(peaks)-1] >= minPeakDistance) {
			peaks = append(peaks, i)
		}
		if isValley && maxVal-smoothed[i] > prominence &&
			(len(valleys) == 0 || i-valleys[len(valleys)-1] >= minPeakDistance) {
			valleys = append(valleys, i)
		}
	}
	return peaks, valleys
}

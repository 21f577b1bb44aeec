package reps

// MovingAverage returns a same-length, centered moving average of values.
// Boundary windows are clipped rather than padded, so the first and last
// samples average over shorter spans. When the input is shorter than the
// window no smoothing is applied and the input is returned unchanged.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) < window {
		return values
	}

	half := window / 2
	out := make([]float64, len(values))
	for i := range values {
		lo := max(0, i-half)
		hi := min(len(values)-1, i+half)
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

package reps

import (
	"math"

	"github.com/repsense-data/repsense/internal/exercise"
	"github.com/repsense-data/repsense/internal/pose"
)

// FrameComposite computes the composite scalar for one frame plus the raw
// per-definition angle measurements that contributed to it.
//
// A definition contributes only when all three of its landmarks are present
// in the frame and the computed angle is finite; others are skipped for this
// frame. The composite is the weighted mean over contributing definitions,
// or 0 when none contribute (an empty or unusable frame yields a zero
// sample rather than aborting the run). Inversion applies to the composite
// only; raw angles stay un-inverted for analytics.
func FrameComposite(frameIndex int, f pose.Frame, cfg *exercise.Config) (float64, []AngleSample) {
	var weightedSum, weightTotal float64
	var samples []AngleSample

	for i := range cfg.AngleDefinitions {
		d := &cfg.AngleDefinitions[i]
		if !f.Has(d.Points[0]) || !f.Has(d.Points[1]) || !f.Has(d.Points[2]) {
			continue
		}
		angle := pose.Angle(f[d.Points[0]], f[d.Points[1]], f[d.Points[2]])
		if math.IsNaN(angle) || math.IsInf(angle, 0) {
			continue
		}
		weightedSum += angle * d.Weight
		weightTotal += d.Weight
		samples = append(samples, AngleSample{
			FrameIndex: frameIndex,
			Definition: d.Name,
			Angle:      angle,
		})
	}

	if weightTotal == 0 {
		return 0, nil
	}

	composite := weightedSum / weightTotal
	if cfg.Inverted {
		composite = -composite
	}
	return composite, samples
}

// BuildSignal computes the full composite signal over a history, one scalar
// per frame, along with all raw angle samples for later per-rep analytics.
func BuildSignal(h *pose.History, cfg *exercise.Config) ([]float64, []AngleSample) {
	signal := make([]float64, len(h.Frames))
	var samples []AngleSample
	for i, f := range h.Frames {
		value, frameSamples := FrameComposite(i, f, cfg)
		signal[i] = value
		samples = append(samples, frameSamples...)
	}
	return signal, samples
}

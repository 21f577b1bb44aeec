package reps

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/repsense-data/repsense/internal/exercise"
	"github.com/repsense-data/repsense/internal/units"
)

// Analyze derives the summary statistics for one completed repetition from
// its raw (un-inverted) angle samples and the exercise's declared target
// ranges. Pure and deterministic; angle values are rounded to one decimal.
func Analyze(seg RepSegment, cfg *exercise.Config) Analysis {
	out := Analysis{
		RepNumber:  seg.RepNumber,
		DurationMs: seg.DurationMs,
	}

	if len(seg.AngleSamples) > 0 {
		angles := make([]float64, len(seg.AngleSamples))
		for i, s := range seg.AngleSamples {
			angles[i] = s.Angle
		}
		minAngle := floats.Min(angles)
		maxAngle := floats.Max(angles)
		out.AngleRange = AngleRange{
			Min: units.Round1(minAngle),
			Max: units.Round1(maxAngle),
		}
		out.AverageAngle = units.Round1(stat.Mean(angles, nil))
		out.RangeOfMotion = units.Round1(maxAngle - minAngle)
	}

	// Target range averaged across only the definitions declaring both
	// bounds; omitted entirely when none do.
	var lowSum, highSum float64
	var n int
	for i := range cfg.AngleDefinitions {
		d := &cfg.AngleDefinitions[i]
		if !d.HasTargets() {
			continue
		}
		lowSum += *d.TargetLowAngle
		highSum += *d.TargetHighAngle
		n++
	}
	if n > 0 {
		out.TargetAngles = &AngleRange{
			Min: units.Round1(lowSum / float64(n)),
			Max: units.Round1(highSum / float64(n)),
		}
	}
	return out
}

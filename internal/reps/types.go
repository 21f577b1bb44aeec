// Package reps turns a pose-landmark time series plus an exercise config
// into counted repetitions with per-rep joint-angle analytics. The pipeline
// is: composite signal per frame -> smoothed extrema detection -> alternating
// peak/valley pairing into repetition boundaries -> per-rep statistics.
//
// Everything here is pure and synchronous; callers own serialization across
// repeated calls on a growing history (see session.Tracker).
package reps

// Kind labels a detected extremum in the composite signal.
type Kind string

const (
	KindPeak   Kind = "peak"
	KindValley Kind = "valley"
)

// Event is one detected extremum, a candidate repetition boundary.
type Event struct {
	FrameIndex int  `json:"frame_index"`
	Kind       Kind `json:"kind"`
}

// AngleSample is one raw (un-inverted) joint-angle measurement: the value of
// a single angle definition in a single frame.
type AngleSample struct {
	FrameIndex int     `json:"frame_index"`
	Definition string  `json:"definition"`
	Angle      float64 `json:"angle"`
}

// RepSegment is one completed repetition: its boundary frames, the raw angle
// samples spanned by it, and an estimated duration. Created once when the
// boundary is confirmed and immutable afterwards.
type RepSegment struct {
	RepNumber    int           `json:"rep_number"`
	StartFrame   int           `json:"start_frame"`
	EndFrame     int           `json:"end_frame"`
	AngleSamples []AngleSample `json:"-"`
	DurationMs   float64       `json:"duration_ms"`
}

// Result is the output of one Segment call over a pose history.
type Result struct {
	// RepCount is the total completed repetitions in the supplied history,
	// including ones already reported on earlier calls.
	RepCount int `json:"rep_count"`
	// NewSegments holds only the repetitions numbered beyond the caller's
	// lastProcessedRepCount, so each rep is emitted at most once.
	NewSegments []RepSegment `json:"new_segments"`
}

// AngleRange is an inclusive min/max angle pair in degrees.
type AngleRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Analysis is the derived summary for one completed repetition. Angle values
// are rounded to one decimal place. TargetAngles is nil when no angle
// definition declares both target bounds.
type Analysis struct {
	RepNumber     int         `json:"rep_number"`
	DurationMs    float64     `json:"duration_ms"`
	AngleRange    AngleRange  `json:"angle_range"`
	AverageAngle  float64     `json:"average_angle"`
	RangeOfMotion float64     `json:"range_of_motion"`
	TargetAngles  *AngleRange `json:"target_angles,omitempty"`
}

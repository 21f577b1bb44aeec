package pose

import (
	"math"

	"github.com/repsense-data/repsense/internal/units"
)

// Angle computes the angle in degrees subtended at vertex by the rays to p1
// and p3, using x/y only (the z estimate from monocular pose models is too
// noisy to improve joint angles). Result is in [0, 180].
//
// Returns NaN when either ray has zero magnitude (coincident landmarks);
// callers are expected to drop such samples.
func Angle(p1, vertex, p3 Landmark) float64 {
	v1x, v1y := p1.X-vertex.X, p1.Y-vertex.Y
	v2x, v2y := p3.X-vertex.X, p3.Y-vertex.Y

	mag1 := math.Hypot(v1x, v1y)
	mag2 := math.Hypot(v2x, v2y)
	if mag1 == 0 || mag2 == 0 {
		return math.NaN()
	}

	cos := (v1x*v2x + v1y*v2y) / (mag1 * mag2)
	// Clamp before acos: rounding can push the ratio just past ±1.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return units.Degrees(math.Acos(cos))
}

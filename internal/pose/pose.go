// Package pose holds the landmark data model produced by the upstream
// pose-estimation model and the geometry helpers derived from it.
package pose

// Landmark is one estimated body-joint position for a single video frame,
// in normalized image coordinates (0-1 expected, not enforced).
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility,omitempty"`
}

// Frame is the ordered landmark set for one video frame, indexed by the
// standard 33-point anatomical scheme. An empty frame means no body was
// detected in that video frame.
type Frame []Landmark

// Has reports whether the frame carries a landmark at the given index.
func (f Frame) Has(idx int) bool {
	return idx >= 0 && idx < len(f)
}

// History is an append-only sequence of frames for one tracking session,
// one entry per processed video frame. TimestampsMs, when populated, holds
// one unix-millisecond capture time per frame and must match Frames in
// length; segmentation falls back to a fixed 30fps estimate without it.
type History struct {
	Frames       []Frame
	TimestampsMs []int64
}

// Append adds one frame (and optionally its capture timestamp) to the history.
func (h *History) Append(f Frame, timestampMs int64) {
	h.Frames = append(h.Frames, f)
	if timestampMs > 0 {
		h.TimestampsMs = append(h.TimestampsMs, timestampMs)
	}
}

// Len returns the number of frames recorded so far.
func (h *History) Len() int {
	return len(h.Frames)
}

// HasTimestamps reports whether every frame carries a capture timestamp.
func (h *History) HasTimestamps() bool {
	return len(h.TimestampsMs) == len(h.Frames) && len(h.Frames) > 0
}

package reps

import (
	"sort"

	"github.com/repsense-data/repsense/internal/exercise"
	"github.com/repsense-data/repsense/internal/pose"
	"github.com/repsense-data/repsense/internal/units"
)

// minSegmentFrames is the hard floor distinguishing "not enough data yet"
// from "no movement detected". Below it Segment returns a zero result.
const minSegmentFrames = 20

// Segment runs the full pipeline over a pose history: composite signal,
// extrema detection, and pairing of alternating extrema into completed
// repetitions.
//
// RepCount in the result covers the whole history; NewSegments carries only
// repetitions numbered beyond lastProcessedRepCount. Callers invoking
// Segment repeatedly on a growing history thread the previous RepCount back
// in as lastProcessedRepCount so each rep is emitted at most once.
//
// Insufficient or malformed frame data degrades to a zero result; the
// tracking loop must never be taken down by a bad frame. cfg is assumed
// validated (exercise.Config.Validate at load time).
func Segment(h *pose.History, cfg *exercise.Config, lastProcessedRepCount int) Result {
	if h == nil || h.Len() < minSegmentFrames {
		return Result{}
	}

	signal, samples := BuildSignal(h, cfg)
	peaks, valleys := DetectExtrema(signal, cfg.MinPeakDistance)
	events := mergeEvents(peaks, valleys)

	// A rep completes on valley->peak when the movement starts downward,
	// peak->valley when it starts upward. The opposite transition only
	// advances the sequence.
	completeOn := KindPeak
	if cfg.InitialDirection == exercise.DirectionUp {
		completeOn = KindValley
	}

	var result Result
	for i := 1; i < len(events); i++ {
		if events[i].Kind != completeOn {
			continue
		}
		result.RepCount++
		if result.RepCount <= lastProcessedRepCount {
			continue
		}

		startFrame := events[i-1].FrameIndex
		endFrame := events[i].FrameIndex
		segSamples := samplesInRange(samples, startFrame, endFrame)
		if len(segSamples) == 0 {
			// No angle definition matched anywhere in the span; nothing to
			// report for this rep.
			continue
		}

		result.NewSegments = append(result.NewSegments, RepSegment{
			RepNumber:    result.RepCount,
			StartFrame:   startFrame,
			EndFrame:     endFrame,
			AngleSamples: segSamples,
			DurationMs:   segmentDuration(h, startFrame, endFrame),
		})
	}
	return result
}

// mergeEvents merges peak and valley indices into one frame-ordered stream
// and collapses runs of consecutive same-kind events. Spacing constraints
// are independent per kind, so the raw merged stream can repeat a kind; the
// first event of a run wins and the segmenter sees a clean alternating
// sequence.
func mergeEvents(peaks, valleys []int) []Event {
	merged := make([]Event, 0, len(peaks)+len(valleys))
	for _, p := range peaks {
		merged = append(merged, Event{FrameIndex: p, Kind: KindPeak})
	}
	for _, v := range valleys {
		merged = append(merged, Event{FrameIndex: v, Kind: KindValley})
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].FrameIndex < merged[j].FrameIndex
	})

	deduped := merged[:0]
	for _, e := range merged {
		if len(deduped) > 0 && deduped[len(deduped)-1].Kind == e.Kind {
			continue
		}
		deduped = append(deduped, e)
	}
	return deduped
}

// samplesInRange slices the flat angle-sample list to [startFrame, endFrame]
// inclusive. Samples are in frame order, so the span is contiguous.
func samplesInRange(samples []AngleSample, startFrame, endFrame int) []AngleSample {
	lo := sort.Search(len(samples), func(i int) bool {
		return samples[i].FrameIndex >= startFrame
	})
	hi := sort.Search(len(samples), func(i int) bool {
		return samples[i].FrameIndex > endFrame
	})
	if lo >= hi {
		return nil
	}
	return samples[lo:hi]
}

// segmentDuration prefers real capture timestamps when the history has them;
// otherwise it falls back to the fixed 30fps frame-interval estimate.
func segmentDuration(h *pose.History, startFrame, endFrame int) float64 {
	if h.HasTimestamps() {
		return float64(h.TimestampsMs[endFrame] - h.TimestampsMs[startFrame])
	}
	return units.FramesToMs(endFrame - startFrame)
}

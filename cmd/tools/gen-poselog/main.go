// Command gen-poselog generates synthetic pose recordings (JSONL, one frame
// per line) for testing replay without a camera. Elbow and knee angles trace
// a sinusoid between the given bounds, so the output drives both arm and leg
// exercise configs.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/repsense-data/repsense/internal/pose"
	"github.com/repsense-data/repsense/internal/units"
)

type logLine struct {
	TimestampMs int64           `json:"timestamp_ms"`
	Landmarks   []pose.Landmark `json:"landmarks"`
}

func main() {
	output := flag.String("o", "sample.jsonl", "output path")
	repCount := flag.Int("reps", 3, "number of repetitions")
	period := flag.Int("period", 45, "frames per repetition")
	low := flag.Float64("low", 45, "lowest joint angle (degrees)")
	high := flag.Float64("high", 150, "highest joint angle (degrees)")
	noise := flag.Float64("noise", 0, "gaussian angle noise stddev (degrees)")
	fps := flag.Float64("fps", units.DefaultFrameRate, "frame rate for timestamps")
	seed := flag.Int64("seed", 1, "noise RNG seed")
	flag.Parse()

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(*seed))
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)

	center := (*high + *low) / 2
	amplitude := (*high - *low) / 2
	frames := *repCount * *period
	frameMs := 1000.0 / *fps

	for i := 0; i < frames; i++ {
		// Start near the high bound so the first movement is downward,
		// matching how most tracked exercises begin.
		angle := center + amplitude*math.Cos(2*math.Pi*float64(i)/float64(*period)+0.2)
		if *noise > 0 {
			angle += rng.NormFloat64() * *noise
		}

		line := logLine{
			TimestampMs: int64(float64(i) * frameMs),
			Landmarks:   syntheticFrame(angle),
		}
		if err := enc.Encode(&line); err != nil {
			log.Fatalf("failed to write frame %d: %v", i, err)
		}
		if (i+1)%100 == 0 {
			log.Printf("%d/%d frames", i+1, frames)
		}
	}

	if err := w.Flush(); err != nil {
		log.Fatalf("failed to flush output: %v", err)
	}
	log.Printf("✓ Created: %s (%d frames, %d reps)", *output, frames, *repCount)
}

// syntheticFrame builds a full 33-landmark frame where both elbow and both
// knee angles equal deg. Untracked landmarks sit at plausible resting
// positions with full visibility.
func syntheticFrame(deg float64) []pose.Landmark {
	f := make([]pose.Landmark, pose.LandmarkCount)
	for i := range f {
		f[i] = pose.Landmark{X: 0.5, Y: 0.5, Visibility: 1}
	}

	rad := units.Radians(deg)
	joint := func(top, mid, end int, x, yTop, yMid, reach float64) {
		f[top] = pose.Landmark{X: x, Y: yTop, Visibility: 1}
		f[mid] = pose.Landmark{X: x, Y: yMid, Visibility: 1}
		f[end] = pose.Landmark{
			X:          x + reach*math.Sin(rad),
			Y:          yMid - reach*math.Cos(rad),
			Visibility: 1,
		}
	}

	joint(pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, 0.35, 0.25, 0.4, 0.15)
	joint(pose.RightShoulder, pose.RightElbow, pose.RightWrist, 0.65, 0.25, 0.4, 0.15)
	joint(pose.LeftHip, pose.LeftKnee, pose.LeftAnkle, 0.4, 0.55, 0.75, 0.2)
	joint(pose.RightHip, pose.RightKnee, pose.RightAnkle, 0.6, 0.55, 0.75, 0.2)
	return f
}

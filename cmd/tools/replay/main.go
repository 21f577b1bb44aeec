// Command replay runs a recorded pose log (JSONL, as written by gen-poselog
// or a capture frontend) through the repetition engine and prints per-rep
// analytics. With -plot it also renders the composite signal and detected
// extrema to a PNG for offline inspection.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/repsense-data/repsense/internal/exercise"
	"github.com/repsense-data/repsense/internal/pose"
	"github.com/repsense-data/repsense/internal/reps"
)

type logLine struct {
	TimestampMs int64           `json:"timestamp_ms"`
	Landmarks   []pose.Landmark `json:"landmarks"`
}

func main() {
	input := flag.String("log", "sample.jsonl", "pose log to replay")
	configPath := flag.String("config", "exercises/bicep_curl.json", "exercise config")
	plotPath := flag.String("plot", "", "optional output PNG of the composite signal")
	flag.Parse()

	cfg, err := exercise.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load exercise config: %v", err)
	}

	history, err := readLog(*input)
	if err != nil {
		log.Fatalf("failed to read pose log: %v", err)
	}
	log.Printf("Replaying %d frames against %q", history.Len(), cfg.Name)

	result := reps.Segment(history, cfg, 0)
	fmt.Printf("Detected %d repetitions\n", result.RepCount)
	for _, seg := range result.NewSegments {
		a := reps.Analyze(seg, cfg)
		fmt.Printf("  rep %d: frames %d-%d, %.0fms, range %.1f-%.1f°, avg %.1f°, ROM %.1f°",
			a.RepNumber, seg.StartFrame, seg.EndFrame, a.DurationMs,
			a.AngleRange.Min, a.AngleRange.Max, a.AverageAngle, a.RangeOfMotion)
		if a.TargetAngles != nil {
			fmt.Printf(" (target %.1f-%.1f°)", a.TargetAngles.Min, a.TargetAngles.Max)
		}
		fmt.Println()
	}

	if *plotPath != "" {
		if err := renderSignal(history, cfg, *plotPath); err != nil {
			log.Fatalf("failed to render plot: %v", err)
		}
		log.Printf("✓ Created: %s", *plotPath)
	}
}

func readLog(path string) (*pose.History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := &pose.History{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		var line logLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		h.Append(pose.Frame(line.Landmarks), line.TimestampMs)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return h, nil
}

func renderSignal(h *pose.History, cfg *exercise.Config, path string) error {
	signal, _ := reps.BuildSignal(h, cfg)
	smoothed := reps.MovingAverage(signal, reps.DetectionWindow)
	peaks, valleys := reps.DetectExtrema(signal, cfg.MinPeakDistance)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Composite Signal", cfg.Name)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Signal (deg)"

	rawPts := make(plotter.XYs, len(signal))
	smoothPts := make(plotter.XYs, len(smoothed))
	for i, v := range signal {
		rawPts[i] = plotter.XY{X: float64(i), Y: v}
	}
	for i, v := range smoothed {
		smoothPts[i] = plotter.XY{X: float64(i), Y: v}
	}

	rawLine, err := plotter.NewLine(rawPts)
	if err != nil {
		return err
	}
	rawLine.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	rawLine.Width = vg.Points(1)
	p.Add(rawLine)
	p.Legend.Add("raw", rawLine)

	smoothLine, err := plotter.NewLine(smoothPts)
	if err != nil {
		return err
	}
	smoothLine.Color = color.RGBA{R: 60, G: 179, B: 113, A: 255}
	smoothLine.Width = vg.Points(1)
	smoothLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(smoothLine)
	p.Legend.Add("smoothed", smoothLine)

	if err := addExtrema(p, "peaks", signal, peaks, color.RGBA{R: 220, G: 20, B: 60, A: 255}); err != nil {
		return err
	}
	if err := addExtrema(p, "valleys", signal, valleys, color.RGBA{R: 255, G: 165, B: 0, A: 255}); err != nil {
		return err
	}

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}

func addExtrema(p *plot.Plot, label string, signal []float64, indices []int, c color.RGBA) error {
	if len(indices) == 0 {
		return nil
	}
	pts := make(plotter.XYs, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(signal) {
			pts = append(pts, plotter.XY{X: float64(idx), Y: signal[idx]})
		}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.Color = c
	scatter.Radius = vg.Points(3)
	p.Add(scatter)
	p.Legend.Add(label, scatter)
	return nil
}

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// signalChartHandler renders a quick HTML line chart of a live session's
// composite signal using go-echarts. This is a debugging-only endpoint (no
// auth) to eyeball the signal and its detected extrema without a frontend.
// Query params:
//   - session (required) live session ID
func (s *Server) signalChartHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'session' parameter")
		return
	}

	tracker, ok := s.manager.Get(sessionID)
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, "Unknown session")
		return
	}

	snap := tracker.Snapshot()
	if len(snap.Signal) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "No frames recorded yet")
		return
	}

	xAxis := make([]string, len(snap.Signal))
	raw := make([]opts.LineData, len(snap.Signal))
	smoothed := make([]opts.LineData, len(snap.Smoothed))
	for i, v := range snap.Signal {
		xAxis[i] = strconv.Itoa(i)
		raw[i] = opts.LineData{Value: v}
	}
	for i, v := range snap.Smoothed {
		smoothed[i] = opts.LineData{Value: v}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Composite Signal", Theme: "dark",
			Width: "1200px", Height: "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s composite signal", snap.Exercise),
			Subtitle: fmt.Sprintf("session=%s frames=%d reps=%d peaks=%d valleys=%d",
				sessionID, len(snap.Signal), snap.RepCount, len(snap.Peaks), len(snap.Valleys)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "signal (deg)", Scale: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("raw", raw)
	line.AddSeries("smoothed", smoothed,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	// Overlay the detected extrema as scatter points on the raw signal.
	scatter := charts.NewScatter()
	scatter.SetXAxis(xAxis)
	scatter.AddSeries("peaks", extremaScatter(snap.Signal, snap.Peaks),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	scatter.AddSeries("valleys", extremaScatter(snap.Signal, snap.Valleys),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	line.Overlap(scatter)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func extremaScatter(signal []float64, indices []int) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(signal) {
			continue
		}
		data = append(data, opts.ScatterData{Value: []interface{}{idx, signal[idx]}})
	}
	return data
}

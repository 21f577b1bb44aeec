// Package coach defines the boundary to the external feedback-generation
// service: the flat per-rep record it consumes and dispatchers that deliver
// records to it. Turning a record into natural-language coaching text and a
// score happens on the far side of this boundary.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/repsense-data/repsense/internal/httputil"
	"github.com/repsense-data/repsense/internal/reps"
)

// Record is the flat serialization of one repetition's analytics.
type Record struct {
	Exercise      string   `json:"exercise"`
	SessionID     string   `json:"session_id"`
	RepNumber     int      `json:"rep_number"`
	DurationMs    float64  `json:"duration_ms"`
	MinAngle      float64  `json:"min_angle"`
	MaxAngle      float64  `json:"max_angle"`
	AverageAngle  float64  `json:"average_angle"`
	RangeOfMotion float64  `json:"range_of_motion"`
	TargetMin     *float64 `json:"target_min_angle,omitempty"`
	TargetMax     *float64 `json:"target_max_angle,omitempty"`
}

// NewRecord flattens one analysis for the feedback service.
func NewRecord(sessionID, exercise string, a reps.Analysis) Record {
	r := Record{
		Exercise:      exercise,
		SessionID:     sessionID,
		RepNumber:     a.RepNumber,
		DurationMs:    a.DurationMs,
		MinAngle:      a.AngleRange.Min,
		MaxAngle:      a.AngleRange.Max,
		AverageAngle:  a.AverageAngle,
		RangeOfMotion: a.RangeOfMotion,
	}
	if a.TargetAngles != nil {
		tMin, tMax := a.TargetAngles.Min, a.TargetAngles.Max
		r.TargetMin = &tMin
		r.TargetMax = &tMax
	}
	return r
}

// Dispatcher delivers rep records to the feedback collaborator. Delivery
// failures must not affect segmentation state; callers treat dispatch as
// fire-and-forget with logging.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec Record) error
}

// HTTPDispatcher posts records as JSON to the feedback service endpoint.
type HTTPDispatcher struct {
	URL    string
	Client httputil.HTTPClient
}

// NewHTTPDispatcher returns a dispatcher with a bounded request timeout so
// a slow feedback service cannot stall the tracking loop.
func NewHTTPDispatcher(url string) *HTTPDispatcher {
	return &HTTPDispatcher{
		URL:    url,
		Client: httputil.NewStandardClient(&http.Client{Timeout: 10 * time.Second}),
	}
}

func (d *HTTPDispatcher) Dispatch(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal rep record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build feedback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post rep record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("feedback service returned status %d", resp.StatusCode)
	}
	return nil
}

// LogDispatcher writes records to the process log. Used when no feedback
// service is configured.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(_ context.Context, rec Record) error {
	log.Printf("Rep %d of %s: duration %.0fms, range %.1f-%.1f, ROM %.1f",
		rec.RepNumber, rec.Exercise, rec.DurationMs, rec.MinAngle, rec.MaxAngle, rec.RangeOfMotion)
	return nil
}

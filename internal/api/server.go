// Package api exposes the tracking engine over HTTP: session lifecycle,
// frame ingest, per-rep analytics, and a couple of debug surfaces.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/repsense-data/repsense/internal/db"
	"github.com/repsense-data/repsense/internal/exercise"
	"github.com/repsense-data/repsense/internal/pose"
	"github.com/repsense-data/repsense/internal/reps"
	"github.com/repsense-data/repsense/internal/session"
)

// ANSI escape codes for request log colouring
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	manager *session.Manager
	configs *exercise.Store
	db      *db.DB // optional; analytics endpoints 503 without it
}

func NewServer(manager *session.Manager, configs *exercise.Store, database *db.DB) *Server {
	return &Server{
		manager: manager,
		configs: configs,
		db:      database,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/exercises", s.listExercises)
	mux.HandleFunc("GET /api/sessions", s.listSessions)
	mux.HandleFunc("POST /api/sessions", s.startSession)
	mux.HandleFunc("POST /api/sessions/{id}/frames", s.ingestFrames)
	mux.HandleFunc("GET /api/sessions/{id}/reps", s.listSessionReps)
	mux.HandleFunc("GET /api/sessions/{id}/summary", s.showSessionSummary)
	mux.HandleFunc("GET /api/sessions/{id}/signal", s.showSignal)
	mux.HandleFunc("GET /debug/signal-chart", s.signalChartHandler)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

type exerciseSummary struct {
	Name             string   `json:"name"`
	AngleDefinitions []string `json:"angle_definitions"`
	MinPeakDistance  int      `json:"min_peak_distance"`
	InitialDirection string   `json:"initial_direction"`
	Inverted         bool     `json:"inverted"`
}

func (s *Server) listExercises(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	names := s.configs.Names()
	out := make([]exerciseSummary, 0, len(names))
	for _, name := range names {
		cfg, ok := s.configs.Lookup(name)
		if !ok {
			continue
		}
		defs := make([]string, len(cfg.AngleDefinitions))
		for i, d := range cfg.AngleDefinitions {
			defs[i] = d.Name
		}
		out = append(out, exerciseSummary{
			Name:             cfg.Name,
			AngleDefinitions: defs,
			MinPeakDistance:  cfg.MinPeakDistance,
			InitialDirection: cfg.InitialDirection,
			Inverted:         cfg.Inverted,
		})
	}

	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write exercises")
	}
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "Persistence disabled")
		return
	}

	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	sessions, err := s.db.Sessions(r.Context(), limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve sessions: %v", err))
		return
	}
	if sessions == nil {
		sessions = []db.Session{}
	}

	if err := json.NewEncoder(w).Encode(sessions); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write sessions")
	}
}

type startSessionRequest struct {
	Exercise string `json:"exercise"`
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
	Exercise  string `json:"exercise"`
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Exercise == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'exercise' field")
		return
	}

	tracker, err := s.manager.Start(r.Context(), req.Exercise)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(startSessionResponse{
		SessionID: tracker.ID,
		Exercise:  tracker.Exercise.Name,
	})
}

type frameRequest struct {
	Landmarks   []pose.Landmark `json:"landmarks"`
	TimestampMs int64           `json:"timestamp_ms,omitempty"`
}

type ingestFramesRequest struct {
	Frames []frameRequest `json:"frames"`
}

type ingestFramesResponse struct {
	SessionID  string          `json:"session_id"`
	RepCount   int             `json:"rep_count"`
	FrameCount int             `json:"frame_count"`
	NewReps    []reps.Analysis `json:"new_reps"`
}

func (s *Server) ingestFrames(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tracker, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, "Unknown session")
		return
	}

	var req ingestFramesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Frames) == 0 {
		s.writeJSONError(w, http.StatusBadRequest, "No frames in request")
		return
	}

	for _, f := range req.Frames {
		tracker.AddFrame(pose.Frame(f.Landmarks), f.TimestampMs)
	}
	repCount, analyses := tracker.Process(r.Context())

	resp := ingestFramesResponse{
		SessionID:  tracker.ID,
		RepCount:   repCount,
		FrameCount: tracker.FrameCount(),
		NewReps:    analyses,
	}
	if resp.NewReps == nil {
		resp.NewReps = []reps.Analysis{}
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write response")
	}
}

func (s *Server) listSessionReps(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "Persistence disabled")
		return
	}

	results, err := s.db.SessionReps(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve reps: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(results); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write reps")
	}
}

func (s *Server) showSessionSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "Persistence disabled")
		return
	}

	summary, err := s.db.SummarizeSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to summarize session: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(summary); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write summary")
	}
}

func (s *Server) showSignal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tracker, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, "Unknown session")
		return
	}

	if err := json.NewEncoder(w).Encode(tracker.Snapshot()); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write signal")
	}
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/crewline/pulse/internal/model"
)

// defaultNotificationLimit bounds the feed when the client does not ask
// for a specific page size.
const defaultNotificationLimit = 50

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must
// include a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/analyze/bottlenecks", s.handleAnalyzeBottlenecks)
	mux.HandleFunc("POST /v1/analyze/suggestions", s.handleAnalyzeSuggestions)
	mux.HandleFunc("GET /v1/notifications", s.handleListNotifications)
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	var h http.Handler = mux
	h = RecoveryMiddleware(s.logger, h)
	h = LoggingMiddleware(s.logger, h)
	return AuthMiddleware(authToken, h)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeBottlenecksInput struct {
	ProjectID string `json:"project_id"`
}

// handleAnalyzeBottlenecks handles POST /v1/analyze/bottlenecks. An
// empty body runs the pass over every project.
func (s *Server) handleAnalyzeBottlenecks(w http.ResponseWriter, r *http.Request) {
	var in analyzeBottlenecksInput
	if err := decodeOptionalBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	summary, err := s.engine.RunBottlenecks(r.Context(), in.ProjectID)
	if err != nil {
		s.logger.Error("bottleneck pass failed", "project_id", in.ProjectID, "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

type analyzeSuggestionsInput struct {
	ProfileID string `json:"profile_id"`
	Limit     int    `json:"limit"`
}

// handleAnalyzeSuggestions handles POST /v1/analyze/suggestions. An
// empty body runs the pass over every profile.
func (s *Server) handleAnalyzeSuggestions(w http.ResponseWriter, r *http.Request) {
	var in analyzeSuggestionsInput
	if err := decodeOptionalBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must not be negative")
		return
	}

	summary, err := s.engine.RunSuggestions(r.Context(), in.ProfileID, in.Limit)
	if err != nil {
		s.logger.Error("suggestion pass failed", "profile_id", in.ProfileID, "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleListNotifications handles GET /v1/notifications.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recipient := q.Get("recipient")
	if recipient == "" {
		writeError(w, http.StatusBadRequest, "recipient is required")
		return
	}

	limit := defaultNotificationLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	notifications, err := s.store.ListNotifications(r.Context(), recipient, limit)
	if err != nil {
		s.logger.Error("failed to list notifications", "recipient", recipient, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	// Never null in JSON output.
	if notifications == nil {
		notifications = []*model.Notification{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// decodeOptionalBody decodes a JSON body into dst, treating an absent or
// empty body as the zero value.
func decodeOptionalBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

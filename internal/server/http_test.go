package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crewline/pulse/internal/alert"
	"github.com/crewline/pulse/internal/engine"
	"github.com/crewline/pulse/internal/events"
	"github.com/crewline/pulse/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(s *mockStore, authToken string) http.Handler {
	logger := testLogger()
	emitter := alert.NewEmitter(s, &events.NoopPublisher{}, logger)
	e := engine.New(s, emitter, &events.NoopPublisher{}, engine.Params{}, logger)
	return New(e, s, logger).NewHTTPHandler(authToken)
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(newMockStore(), "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestAnalyzeBottlenecks(t *testing.T) {
	s := newMockStore()
	due := time.Now().UTC().Add(-48 * time.Hour)
	s.projects = []*model.Project{{ID: "p1", Name: "launch", OwnerID: "owner"}}
	s.tasks["p1"] = []*model.Task{{
		ID: "t1", ProjectID: "p1", Title: "late task",
		Status: model.StatusInProgress, DueAt: &due, UpdatedAt: time.Now().UTC(),
	}}
	h := newTestHandler(s, "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze/bottlenecks", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var summary engine.BottleneckSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.ProjectsAnalyzed != 1 || summary.AlertsCreated != 1 {
		t.Errorf("summary = %+v, want 1 project and 1 alert", summary)
	}
}

func TestAnalyzeBottlenecks_ScopedToProject(t *testing.T) {
	s := newMockStore()
	s.projects = []*model.Project{
		{ID: "p1", Name: "launch", OwnerID: "owner"},
		{ID: "p2", Name: "cleanup", OwnerID: "owner"},
	}
	h := newTestHandler(s, "")

	body := bytes.NewBufferString(`{"project_id":"p1"}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze/bottlenecks", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var summary engine.BottleneckSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.ProjectsAnalyzed != 1 {
		t.Errorf("ProjectsAnalyzed = %d, want 1", summary.ProjectsAnalyzed)
	}
}

func TestAnalyzeBottlenecks_BadJSON(t *testing.T) {
	h := newTestHandler(newMockStore(), "")

	body := bytes.NewBufferString(`{"project_id":`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze/bottlenecks", body))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeSuggestions(t *testing.T) {
	s := newMockStore()
	s.profiles = []*model.Profile{
		{ID: "a", Region: "pacific"},
		{ID: "b", Region: "pacific"},
	}
	s.follows = []*model.Follow{{FollowerID: "b", FolloweeID: "a"}}
	h := newTestHandler(s, "")

	body := bytes.NewBufferString(`{"profile_id":"a"}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze/suggestions", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var summary engine.SuggestionSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.ProfilesAnalyzed != 1 || summary.SuggestionsCreated != 1 {
		t.Errorf("summary = %+v, want 1 profile and 1 suggestion", summary)
	}
}

func TestAnalyzeSuggestions_NegativeLimit(t *testing.T) {
	h := newTestHandler(newMockStore(), "")

	body := bytes.NewBufferString(`{"limit":-1}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze/suggestions", body))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListNotifications(t *testing.T) {
	s := newMockStore()
	now := time.Now().UTC()
	s.notifications = []*model.Notification{
		{ID: "nt-1", RecipientID: "owner", Category: "project_alert", Title: "late", CreatedAt: now},
		{ID: "nt-2", RecipientID: "owner", Category: "project_alert", Title: "stuck", CreatedAt: now},
		{ID: "nt-3", RecipientID: "other", Category: "match_suggestion", Title: "meet", CreatedAt: now},
	}
	h := newTestHandler(s, "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/notifications?recipient=owner", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Notifications []*model.Notification `json:"notifications"`
		Total         int                   `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Total != 2 || len(body.Notifications) != 2 {
		t.Errorf("got %d notifications, want 2", len(body.Notifications))
	}
}

func TestListNotifications_RecipientRequired(t *testing.T) {
	h := newTestHandler(newMockStore(), "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/notifications", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListNotifications_Limit(t *testing.T) {
	s := newMockStore()
	now := time.Now().UTC()
	for _, id := range []string{"nt-1", "nt-2", "nt-3"} {
		s.notifications = append(s.notifications, &model.Notification{
			ID: id, RecipientID: "owner", Category: "project_alert", CreatedAt: now,
		})
	}
	h := newTestHandler(s, "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/notifications?recipient=owner&limit=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Notifications []*model.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Notifications) != 2 {
		t.Errorf("got %d notifications, want 2", len(body.Notifications))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/notifications?recipient=owner&limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

func TestListNotifications_EmptyIsNotNull(t *testing.T) {
	h := newTestHandler(newMockStore(), "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/notifications?recipient=nobody", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if string(body["notifications"]) != "[]" {
		t.Errorf("notifications = %s, want []", body["notifications"])
	}
}

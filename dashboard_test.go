package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestDashboardRecordAndGetSessions(t *testing.T) {
	d := NewDashboard()

	d.RecordEvent(CommandEvent{
		SessionID: "s1", Method: "GET", Path: "/session/s1/url",
		Status: 200, DurationMs: 5, Timestamp: time.Now(),
	})
	d.RecordEvent(CommandEvent{
		SessionID: "s2", Method: "POST", Path: "/session/s2/execute/sync",
		Status: 200, DurationMs: 10, Timestamp: time.Now(),
	})

	sessions := d.GetSessionActivity()
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	found := map[string]bool{}
	for _, s := range sessions {
		found[s.SessionID] = true
	}
	if !found["s1"] || !found["s2"] {
		t.Error("expected both s1 and s2 sessions")
	}
}

func TestDashboardSessionUpdates(t *testing.T) {
	d := NewDashboard()
	d.RecordEvent(CommandEvent{SessionID: "bot", Method: "GET", Path: "/session/bot/url", Timestamp: time.Now()})
	d.RecordEvent(CommandEvent{SessionID: "bot", Method: "POST", Path: "/session/bot/url", Timestamp: time.Now()})

	sessions := d.GetSessionActivity()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].ActionCount != 2 {
		t.Errorf("expected 2 actions, got %d", sessions[0].ActionCount)
	}
}

func TestDashboardHandlerSessions(t *testing.T) {
	d := NewDashboard()
	d.RecordEvent(CommandEvent{SessionID: "test-session", Method: "GET", Path: "/status", Status: 200, Timestamp: time.Now()})

	r := chi.NewRouter()
	d.RegisterHandlers(r)

	req := httptest.NewRequest("GET", "/debug/sessions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var sessions []SessionActivity
	_ = json.NewDecoder(w.Body).Decode(&sessions)
	if len(sessions) != 1 || sessions[0].SessionID != "test-session" {
		t.Errorf("unexpected sessions: %+v", sessions)
	}
}

func TestDashboardUI(t *testing.T) {
	d := NewDashboard()
	r := chi.NewRouter()
	d.RegisterHandlers(r)

	req := httptest.NewRequest("GET", "/debug", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("expected text/html, got %s", ct)
	}
}

func TestDashboardSSEInit(t *testing.T) {
	d := NewDashboard()
	d.RecordEvent(CommandEvent{SessionID: "sse-session", Method: "GET", Path: "/status", Timestamp: time.Now()})

	r := chi.NewRouter()
	d.RegisterHandlers(r)

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/debug/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return
	}
	if resp != nil {
		defer resp.Body.Close()
		if resp.Header.Get("Content-Type") != "text/event-stream" {
			t.Errorf("expected text/event-stream, got %s", resp.Header.Get("Content-Type"))
		}
	}
}

func TestTrackingMiddleware(t *testing.T) {
	d := NewDashboard()

	r := chi.NewRouter()
	r.Get("/session/{session}/url", d.TrackingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})).ServeHTTP)

	req := httptest.NewRequest("GET", "/session/test-bot/url", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	sessions := d.GetSessionActivity()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].SessionID != "test-bot" {
		t.Errorf("expected session test-bot, got %s", sessions[0].SessionID)
	}
}

func TestTrackingMiddlewareAnonymous(t *testing.T) {
	d := NewDashboard()

	r := chi.NewRouter()
	r.Get("/status", d.TrackingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})).ServeHTTP)

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	sessions := d.GetSessionActivity()
	if len(sessions) != 1 || sessions[0].SessionID != "-" {
		t.Errorf("expected anonymous session \"-\", got %+v", sessions)
	}
}

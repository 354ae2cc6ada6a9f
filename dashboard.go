package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

const maxDashboardEvents = 10000

// CommandEvent is one dispatched WebDriver command, recorded by
// TrackingMiddleware. SessionID is "-" for commands whose path carries no
// session id (e.g. GET /status).
type CommandEvent struct {
	SessionID  string    `json:"sessionId"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	DurationMs int64     `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}

// SessionActivity summarizes one session's command history for the
// dashboard's session list.
type SessionActivity struct {
	SessionID   string    `json:"sessionId"`
	ActionCount int       `json:"actionCount"`
	LastCommand string    `json:"lastCommand"`
	LastSeen    time.Time `json:"lastSeen"`
}

// Dashboard is an in-memory command activity log with an HTML debug view
// and an SSE live feed, backed by a fixed-size ring buffer of recent
// commands plus a per-session activity summary.
type Dashboard struct {
	mu       sync.RWMutex
	events   []CommandEvent
	sessions map[string]*SessionActivity

	subMu sync.Mutex
	subs  map[chan CommandEvent]struct{}
}

func NewDashboard() *Dashboard {
	return &Dashboard{
		sessions: map[string]*SessionActivity{},
		subs:     map[chan CommandEvent]struct{}{},
	}
}

// RecordEvent appends an event to the ring buffer, updates the owning
// session's summary, and fans it out to any open SSE subscribers.
func (d *Dashboard) RecordEvent(e CommandEvent) {
	d.mu.Lock()
	d.events = append(d.events, e)
	if len(d.events) > maxDashboardEvents {
		d.events = d.events[len(d.events)-maxDashboardEvents:]
	}
	sess, ok := d.sessions[e.SessionID]
	if !ok {
		sess = &SessionActivity{SessionID: e.SessionID}
		d.sessions[e.SessionID] = sess
	}
	sess.ActionCount++
	sess.LastCommand = fmt.Sprintf("%s %s", e.Method, e.Path)
	sess.LastSeen = e.Timestamp
	d.mu.Unlock()

	d.subMu.Lock()
	for ch := range d.subs {
		select {
		case ch <- e:
		default:
		}
	}
	d.subMu.Unlock()
}

// GetSessionActivity returns every tracked session's summary, sorted by
// most-recently-seen first.
func (d *Dashboard) GetSessionActivity() []SessionActivity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]SessionActivity, 0, len(d.sessions))
	for _, s := range d.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastSeen.After(out[j].LastSeen) })
	return out
}

// RegisterHandlers mounts the debug surface under /debug; never part of the
// W3C wire protocol, exists for local development.
func (d *Dashboard) RegisterHandlers(r chi.Router) {
	r.Get("/debug", d.handleUI)
	r.Get("/debug/sessions", d.handleSessions)
	r.Get("/debug/events", d.handleEvents)
}

func (d *Dashboard) handleSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(d.GetSessionActivity())
}

func (d *Dashboard) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := make(chan CommandEvent, 16)
	d.subMu.Lock()
	d.subs[ch] = struct{}{}
	d.subMu.Unlock()
	defer func() {
		d.subMu.Lock()
		delete(d.subs, ch)
		d.subMu.Unlock()
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-ch:
			data, _ := json.Marshal(e)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (d *Dashboard) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	sessions := d.GetSessionActivity()
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>pinchtab-webdriver debug</title>
<style>
body{font-family:monospace;background:#111;color:#ddd;margin:2rem}
table{border-collapse:collapse;width:100%}
td,th{border:1px solid #333;padding:.4rem .8rem;text-align:left}
h1{font-size:1.2rem}
</style></head><body>
<h1>pinchtab-webdriver: active sessions</h1>
<table><tr><th>session</th><th>commands</th><th>last command</th><th>last seen</th></tr>`)
	for _, s := range sessions {
		fmt.Fprintf(w, "<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>\n",
			htmlEscape(s.SessionID), s.ActionCount, htmlEscape(s.LastCommand), s.LastSeen.Format(time.RFC3339))
	}
	fmt.Fprint(w, `</table>
<p><a href="/debug/events" style="color:#6cf">live event stream (SSE)</a></p>
</body></html>`)
	// Note an empty session list in an HTML comment after the page.
	if len(sessions) == 0 {
		fmt.Fprint(w, "<!-- no sessions yet; this page refreshes nothing automatically, reload manually -->")
	}
}

func htmlEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			out = append(out, []byte("&lt;")...)
		case '>':
			out = append(out, []byte("&gt;")...)
		case '&':
			out = append(out, []byte("&amp;")...)
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

// TrackingMiddleware wraps the dispatcher to record every command's
// method/path/status/duration keyed by session id, resolved from chi's
// {session} path parameter once routing has matched; anonymous commands
// (no session in the path, e.g. GET /status) are recorded under "-".
func (d *Dashboard) TrackingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(rec, r)

		sessionID := chi.URLParam(r, "session")
		if sessionID == "" {
			sessionID = "-"
		}
		d.RecordEvent(CommandEvent{
			SessionID:  sessionID,
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     rec.status,
			DurationMs: time.Since(start).Milliseconds(),
			Timestamp:  start,
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestServer wires a fresh serverState around a fakeBackend, matching the
// teacher's newTestBridge pattern: enough of the real dependency graph
// (sessions, dashboard, config) to drive the chi router end to end without a
// live Chrome instance.
func newTestServer(t *testing.T) (*serverState, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	cfg := defaultConfig()
	cfg.Token = ""
	srv := &serverState{
		sessions:  newSessionManager(defaultTimeouts()),
		backend:   fb,
		cfg:       cfg,
		dashboard: NewDashboard(),
	}
	return srv, fb
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

// scenario 1: GET /status is always ready, session or no session.
func TestScenarioStatusAlwaysReady(t *testing.T) {
	srv, _ := newTestServer(t)
	router := buildRouter(srv)

	rec, decoded := doJSON(t, router, http.MethodGet, "/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	value, _ := decoded["value"].(map[string]any)
	if ready, _ := value["ready"].(bool); !ready {
		t.Errorf("expected ready=true, got %v", value)
	}
}

// scenario 2: create session, echo capabilities, delete once, delete again
// fails with invalid session id.
func TestScenarioSessionCreateEchoDelete(t *testing.T) {
	srv, _ := newTestServer(t)
	router := buildRouter(srv)

	rec, decoded := doJSON(t, router, http.MethodPost, "/session", map[string]any{
		"capabilities": map[string]any{},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 creating session, got %d: %s", rec.Code, rec.Body.String())
	}
	value, _ := decoded["value"].(map[string]any)
	sessionID, _ := value["sessionId"].(string)
	if sessionID == "" {
		t.Fatal("expected a non-empty sessionId")
	}
	if _, ok := value["capabilities"]; !ok {
		t.Error("expected capabilities to be echoed back")
	}

	rec, decoded = doJSON(t, router, http.MethodDelete, "/session/"+sessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on first delete, got %d", rec.Code)
	}
	if decoded["value"] != nil {
		t.Errorf("expected value=null on delete, got %v", decoded["value"])
	}

	rec, decoded = doJSON(t, router, http.MethodDelete, "/session/"+sessionID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
	value, _ = decoded["value"].(map[string]any)
	if value["error"] != string(KindInvalidSessionID) {
		t.Errorf("expected invalid session id, got %v", value["error"])
	}
}

// scenario 3: find an element, click it, navigate away, then confirm the
// stale handle now reports "stale element reference".
func TestScenarioFindClickThenStaleAfterNavigate(t *testing.T) {
	srv, fb := newTestServer(t)
	router := buildRouter(srv)

	_, decoded := doJSON(t, router, http.MethodPost, "/session", map[string]any{"capabilities": map[string]any{}})
	sessionID := decoded["value"].(map[string]any)["sessionId"].(string)

	fb.queueEval(true, nil) // the locator script reports a match
	rec, decoded := doJSON(t, router, http.MethodPost, "/session/"+sessionID+"/element", map[string]any{
		"using": "css selector",
		"value": "#submit",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 finding element, got %d: %s", rec.Code, rec.Body.String())
	}
	elRef, _ := decoded["value"].(map[string]any)
	handle, _ := elRef[elementMagicKey].(string)
	if handle == "" {
		t.Fatalf("expected an element handle, got %v", decoded)
	}

	fb.queueEval(map[string]any{"success": true, "value": map[string]any{"x": 10.0, "y": 20.0}}, nil)
	rec, _ = doJSON(t, router, http.MethodPost, "/session/"+sessionID+"/element/"+handle+"/click", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 clicking element, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/session/"+sessionID+"/url", map[string]any{"url": "https://example.com/next"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 navigating, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, decoded = doJSON(t, router, http.MethodGet, "/session/"+sessionID+"/element/"+handle+"/selected", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a stale element, got %d: %s", rec.Code, rec.Body.String())
	}
	value, _ := decoded["value"].(map[string]any)
	if value["error"] != string(KindStaleElement) {
		t.Errorf("expected stale element reference, got %v", value["error"])
	}
}

// scenario 4: an async script that eventually calls back succeeds; one
// bounded by a short script timeout with no callback times out.
func TestScenarioAsyncScriptSuccessAndTimeout(t *testing.T) {
	srv, fb := newTestServer(t)
	router := buildRouter(srv)

	_, decoded := doJSON(t, router, http.MethodPost, "/session", map[string]any{"capabilities": map[string]any{}})
	sessionID := decoded["value"].(map[string]any)["sessionId"].(string)

	fb.asyncHandler = func() (any, string) {
		time.Sleep(10 * time.Millisecond)
		return "delayed", ""
	}
	rec, decoded := doJSON(t, router, http.MethodPost, "/session/"+sessionID+"/execute/async", map[string]any{
		"script": "var cb = arguments[arguments.length - 1]; setTimeout(function(){ cb('delayed') }, 10);",
		"args":   []any{},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decoded["value"] != "delayed" {
		t.Errorf("expected delayed, got %v", decoded["value"])
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/session/"+sessionID+"/timeouts", map[string]any{"script": 50})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 setting timeouts, got %d", rec.Code)
	}

	fb.asyncHandler = nil // page never calls back
	rec, decoded = doJSON(t, router, http.MethodPost, "/session/"+sessionID+"/execute/async", map[string]any{
		"script": "// never resolves",
		"args":   []any{},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on script timeout, got %d: %s", rec.Code, rec.Body.String())
	}
	value, _ := decoded["value"].(map[string]any)
	if value["error"] != string(KindScriptTimeout) {
		t.Errorf("expected script timeout, got %v", value["error"])
	}
}

// scenario 5: a prompt dialog round-trip through the alert endpoints.
func TestScenarioAlertPromptRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	router := buildRouter(srv)

	_, decoded := doJSON(t, router, http.MethodPost, "/session", map[string]any{"capabilities": map[string]any{}})
	sessionID := decoded["value"].(map[string]any)["sessionId"].(string)
	sess, err := srv.sessions.Get(sessionID)
	if err != nil {
		t.Fatalf("unexpected error fetching session: %v", err)
	}

	var accepted bool
	var submittedText string
	sess.Alerts.SetPending(AlertKindPrompt, "Please enter your name:", "Default Value", func(accept bool, text string) {
		accepted, submittedText = accept, text
	})

	rec, decoded := doJSON(t, router, http.MethodGet, "/session/"+sessionID+"/alert/text", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 reading alert text, got %d: %s", rec.Code, rec.Body.String())
	}
	if decoded["value"] != "Please enter your name:" {
		t.Errorf("unexpected alert message: %v", decoded["value"])
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/session/"+sessionID+"/alert/text", map[string]any{"text": "Ada Lovelace"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 sending alert text, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/session/"+sessionID+"/alert/accept", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 accepting alert, got %d: %s", rec.Code, rec.Body.String())
	}
	if !accepted || submittedText != "Ada Lovelace" {
		t.Errorf("expected accept=true text=Ada Lovelace, got accept=%v text=%q", accepted, submittedText)
	}
	if sess.Alerts.IsOpen() {
		t.Error("expected the alert to be closed after accept")
	}
}

// scenario 6: cookie CRUD round-trip.
func TestScenarioCookieCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	router := buildRouter(srv)

	_, decoded := doJSON(t, router, http.MethodPost, "/session", map[string]any{"capabilities": map[string]any{}})
	sessionID := decoded["value"].(map[string]any)["sessionId"].(string)

	rec, _ := doJSON(t, router, http.MethodPost, "/session/"+sessionID+"/cookie", map[string]any{
		"cookie": map[string]any{"name": "a", "value": "1", "path": "/"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 adding cookie, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, decoded = doJSON(t, router, http.MethodGet, "/session/"+sessionID+"/cookie", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing cookies, got %d", rec.Code)
	}
	cookies, _ := decoded["value"].([]any)
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	rec, _ = doJSON(t, router, http.MethodDelete, "/session/"+sessionID+"/cookie/a", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting cookie, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, decoded = doJSON(t, router, http.MethodGet, "/session/"+sessionID+"/cookie", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing cookies after delete, got %d", rec.Code)
	}
	cookies, _ = decoded["value"].([]any)
	if len(cookies) != 0 {
		t.Errorf("expected 0 cookies after delete, got %d", len(cookies))
	}
}

// An unauthenticated request against a token-protected server gets a plain
// 401, not a WebDriverError envelope.
func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.cfg.Token = "s3cret"
	router := buildRouter(srv)

	rec, decoded := doJSON(t, router, http.MethodGet, "/status", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if decoded["error"] != "unauthorized" {
		t.Errorf("expected a plain {error: unauthorized} body, got %v", decoded)
	}
	if _, hasValue := decoded["value"]; hasValue {
		t.Error("expected no WebDriverError envelope on an auth rejection")
	}
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.cfg.Token = "s3cret"
	router := buildRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid token, got %d", rec.Code)
	}
}

// unhandledPromptBehavior=dismiss silently dismisses the pending alert and
// lets the original command through instead of erroring.
func TestUnhandledPromptBehaviorDismissLetsCommandThrough(t *testing.T) {
	srv, fb := newTestServer(t)
	router := buildRouter(srv)

	_, decoded := doJSON(t, router, http.MethodPost, "/session", map[string]any{
		"capabilities": map[string]any{"alwaysMatch": map[string]any{"unhandledPromptBehavior": "dismiss"}},
	})
	sessionID := decoded["value"].(map[string]any)["sessionId"].(string)
	sess, err := srv.sessions.Get(sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var dismissed bool
	sess.Alerts.SetPending(AlertKindAlert, "in your way", "", func(accept bool, text string) { dismissed = !accept })

	fb.queueEval("Example", nil)
	rec, _ := doJSON(t, router, http.MethodGet, "/session/"+sessionID+"/title", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected the original command to succeed once the alert is auto-dismissed, got %d: %s", rec.Code, rec.Body.String())
	}
	if !dismissed {
		t.Error("expected the pending alert to be dismissed")
	}
	if sess.Alerts.IsOpen() {
		t.Error("expected no alert to remain pending")
	}
}

// unhandledPromptBehavior="dismiss and notify" dismisses the alert but still
// reports unexpected alert open to the client.
func TestUnhandledPromptBehaviorDismissAndNotifyStillErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	router := buildRouter(srv)

	_, decoded := doJSON(t, router, http.MethodPost, "/session", map[string]any{
		"capabilities": map[string]any{"alwaysMatch": map[string]any{"unhandledPromptBehavior": "dismiss and notify"}},
	})
	sessionID := decoded["value"].(map[string]any)["sessionId"].(string)
	sess, err := srv.sessions.Get(sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var dismissed bool
	sess.Alerts.SetPending(AlertKindAlert, "in your way", "", func(accept bool, text string) { dismissed = !accept })

	rec, decoded := doJSON(t, router, http.MethodGet, "/session/"+sessionID+"/title", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected unexpected alert open, got %d: %s", rec.Code, rec.Body.String())
	}
	value, _ := decoded["value"].(map[string]any)
	if value["error"] != string(KindUnexpectedAlertOpen) {
		t.Errorf("expected unexpected alert open, got %v", value["error"])
	}
	if !dismissed {
		t.Error("expected the alert to have been dismissed even though the command errored")
	}
}

// The default (no capability set) behavior is unchanged: error without
// touching the pending alert.
func TestUnhandledPromptBehaviorDefaultsToIgnore(t *testing.T) {
	srv, _ := newTestServer(t)
	router := buildRouter(srv)

	_, decoded := doJSON(t, router, http.MethodPost, "/session", map[string]any{"capabilities": map[string]any{}})
	sessionID := decoded["value"].(map[string]any)["sessionId"].(string)
	sess, err := srv.sessions.Get(sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resolved bool
	sess.Alerts.SetPending(AlertKindAlert, "in your way", "", func(accept bool, text string) { resolved = true })

	rec, _ := doJSON(t, router, http.MethodGet, "/session/"+sessionID+"/title", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected unexpected alert open, got %d", rec.Code)
	}
	if resolved {
		t.Error("expected the alert to remain untouched under the default ignore behavior")
	}
}

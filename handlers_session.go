package main

import "net/http"

// sessionRoutes covers server status plus session create/delete/timeouts.
func sessionRoutes() []route {
	return []route{
		{http.MethodGet, "/status", routeOpts{noSession: true}, handleStatus},
		{http.MethodPost, "/session", routeOpts{noSession: true}, handleCreateSession},
		{http.MethodDelete, "/session/{session}", routeOpts{}, handleDeleteSession},
		{http.MethodGet, "/session/{session}/timeouts", routeOpts{}, handleGetTimeouts},
		{http.MethodPost, "/session/{session}/timeouts", routeOpts{}, handleSetTimeouts},
	}
}

// handleStatus always reports ready regardless of session presence: this
// backend supports at most one session and has no warm-up phase worth
// reporting.
func handleStatus(rc *reqCtx) (any, *WebDriverError) {
	return map[string]any{
		"ready":   true,
		"message": "pinchtab-webdriver is ready to create a new session",
	}, nil
}

func handleCreateSession(rc *reqCtx) (any, *WebDriverError) {
	caps, _ := rc.body["capabilities"].(map[string]any)
	always, _ := caps["alwaysMatch"].(map[string]any)
	echoed := always
	if echoed == nil {
		echoed = caps
	}
	sess, err := rc.srv.sessions.Create(echoed)
	if err != nil {
		return nil, err
	}

	handle, backendErr := rc.srv.backend.CurrentWindowHandle(rc.r.Context())
	if backendErr == nil {
		sess.SetCurrentWindow(handle)
	}
	_ = rc.srv.backend.InstallAlertHandler(rc.r.Context(), func(kind AlertKind, message, defaultText string, respond func(accept bool, text string)) {
		sess.Alerts.SetPending(kind, message, defaultText, respond)
	})

	return map[string]any{
		"sessionId":    sess.ID,
		"capabilities": sess.Capabilities,
	}, nil
}

func handleDeleteSession(rc *reqCtx) (any, *WebDriverError) {
	if err := rc.srv.sessions.Delete(rc.session.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func handleGetTimeouts(rc *reqCtx) (any, *WebDriverError) {
	return timeoutsToWire(rc.session.Timeouts), nil
}

func handleSetTimeouts(rc *reqCtx) (any, *WebDriverError) {
	t := rc.session.Timeouts
	if v, ok := rc.body["implicit"]; ok {
		ms, werr := toNonNegativeMs(v, false)
		if werr != nil {
			return nil, werr
		}
		t.ImplicitMs = *ms
	}
	if v, ok := rc.body["pageLoad"]; ok {
		ms, werr := toNonNegativeMs(v, false)
		if werr != nil {
			return nil, werr
		}
		t.PageLoadMs = *ms
	}
	if v, ok := rc.body["script"]; ok {
		ms, werr := toNonNegativeMs(v, true)
		if werr != nil {
			return nil, werr
		}
		t.ScriptMs = ms
	}
	rc.session.Timeouts = t
	return nil, nil
}

func timeoutsToWire(t Timeouts) map[string]any {
	out := map[string]any{"implicit": t.ImplicitMs, "pageLoad": t.PageLoadMs}
	if t.ScriptMs != nil {
		out["script"] = *t.ScriptMs
	} else {
		out["script"] = nil
	}
	return out
}

// toNonNegativeMs validates a timeout field; nullable controls whether a
// JSON null is accepted as "disable this timeout" (only the script timeout
// supports this).
func toNonNegativeMs(v any, nullable bool) (*int64, *WebDriverError) {
	if v == nil {
		if nullable {
			return nil, nil
		}
		return nil, ErrInvalidArgument("timeout may not be null")
	}
	f, ok := v.(float64)
	if !ok || f < 0 {
		return nil, ErrInvalidArgument("timeout must be a non-negative integer")
	}
	ms := int64(f)
	return &ms, nil
}

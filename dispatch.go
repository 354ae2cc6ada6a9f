package main

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// serverState is the dependency bag every handler closes over: the single
// session manager, the shared backend, resolved config, and the debug
// dashboard.
type serverState struct {
	sessions  *SessionManager
	backend   Backend
	cfg       *Config
	dashboard *Dashboard
}

// reqCtx bundles everything a handler needs: the raw request/response pair,
// the resolved session (nil for session-less routes like /status), and the
// decoded JSON body.
type reqCtx struct {
	w       http.ResponseWriter
	r       *http.Request
	srv     *serverState
	session *Session
	body    map[string]any
}

// param reads a chi URL parameter.
func (rc *reqCtx) param(name string) string {
	return chi.URLParam(rc.r, name)
}

// handlerFunc is what every WebDriver command handler implements: inspect
// the request context, call into the backend/registry, and return either a
// wire value or a typed error; envelope.go does the rest.
type handlerFunc func(rc *reqCtx) (any, *WebDriverError)

// routeOpts tunes the adapter's precondition checks per command, since not
// every route needs a session and alert-related routes must bypass the
// unexpected-alert-open guard.
type routeOpts struct {
	noSession  bool // route has no {session} path segment (GET /status)
	alertRoute bool // accept/dismiss/alert text get/set: exempt from the guard
}

// route pairs an HTTP method + chi path template with its handler and opts.
type route struct {
	method string
	path   string
	opts   routeOpts
	fn     handlerFunc
}

// adapt turns a handlerFunc into an http.HandlerFunc: resolves the session,
// decodes the JSON body, enforces the unhandledPromptBehavior precondition,
// invokes fn, and hands the result to the protocol envelope.
func adapt(srv *serverState, opts routeOpts, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := &reqCtx{w: w, r: r, srv: srv}

		if !opts.noSession {
			id := chi.URLParam(r, "session")
			sess, err := srv.sessions.Get(id)
			if err != nil {
				writeError(w, err)
				return
			}
			rc.session = sess
		}

		if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut) {
			body, decodeErr := decodeBody(r)
			if decodeErr != nil {
				writeError(w, decodeErr)
				return
			}
			rc.body = body
		}

		if rc.session != nil && !opts.alertRoute && rc.session.Alerts.IsOpen() {
			msg, _ := rc.session.Alerts.Message()
			switch unhandledPromptBehavior(rc.session) {
			case "dismiss":
				rc.session.Alerts.Resolve(false)
			case "accept":
				rc.session.Alerts.Resolve(true)
			case "dismiss and notify":
				rc.session.Alerts.Resolve(false)
				writeError(w, ErrUnexpectedAlertOpen(msg))
				return
			case "accept and notify":
				rc.session.Alerts.Resolve(true)
				writeError(w, ErrUnexpectedAlertOpen(msg))
				return
			default: // "ignore", or the capability was never set
				writeError(w, ErrUnexpectedAlertOpen(msg))
				return
			}
		}

		value, err := fn(rc)
		if err != nil {
			writeError(w, err)
			return
		}
		writeValue(w, value)
	}
}

// unhandledPromptBehavior reads the session's "unhandledPromptBehavior"
// capability: it governs what adapt does with a pending alert ahead of any
// non-alert command instead of always erroring.
func unhandledPromptBehavior(s *Session) string {
	behavior, _ := s.Capabilities["unhandledPromptBehavior"].(string)
	return behavior
}

// decodeBody reads and JSON-decodes a request body. An empty body decodes to
// an empty object, matching the W3C spec's "missing fields default
// per-endpoint" rule rather than erroring on a bodyless POST.
func decodeBody(r *http.Request) (map[string]any, *WebDriverError) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, ErrInvalidArgument("failed to read request body: %v", err)
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, ErrInvalidArgument("malformed JSON body: %v", err)
	}
	return m, nil
}

// buildRouter assembles the chi.Router carrying the full W3C WebDriver
// surface plus the /status endpoint and the /debug dashboard, wiring the
// bearer-token auth gate and command-tracking middleware ahead of every
// route.
func buildRouter(srv *serverState) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware(srv.cfg))
	r.Use(srv.dashboard.TrackingMiddleware)

	for _, rt := range webDriverRoutes() {
		r.MethodFunc(rt.method, rt.path, adapt(srv, rt.opts, rt.fn))
	}

	srv.dashboard.RegisterHandlers(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, ErrUnknownCommand(r.Method, r.URL.Path))
	})
	return r
}

// webDriverRoutes is the full ~50-endpoint table, grouped by command family:
// session, navigation, element, document, script, window, frame, cookie,
// alert, actions, screenshot, print.
func webDriverRoutes() []route {
	var routes []route
	routes = append(routes, sessionRoutes()...)
	routes = append(routes, navigationRoutes()...)
	routes = append(routes, elementRoutes()...)
	routes = append(routes, documentRoutes()...)
	routes = append(routes, scriptRoutes()...)
	routes = append(routes, windowRoutes()...)
	routes = append(routes, frameRoutes()...)
	routes = append(routes, cookieRoutes()...)
	routes = append(routes, alertRoutes()...)
	routes = append(routes, actionsRoutes()...)
	routes = append(routes, screenshotRoutes()...)
	routes = append(routes, printRoutes()...)
	return routes
}

package main

import "net/http"

// documentRoutes covers the page source endpoint.
func documentRoutes() []route {
	return []route{
		{http.MethodGet, "/session/{session}/source", routeOpts{}, handleGetSource},
	}
}

func handleGetSource(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	defer rc.session.backendLock.Unlock()
	html, err := rc.srv.backend.PageSource(rc.r.Context())
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return html, nil
}

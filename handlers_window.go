package main

import "net/http"

func windowRoutes() []route {
	return []route{
		{http.MethodGet, "/session/{session}/window", routeOpts{}, handleGetWindowHandle},
		{http.MethodDelete, "/session/{session}/window", routeOpts{}, handleCloseWindow},
		{http.MethodPost, "/session/{session}/window", routeOpts{}, handleSwitchToWindow},
		{http.MethodGet, "/session/{session}/window/handles", routeOpts{}, handleWindowHandles},
		{http.MethodPost, "/session/{session}/window/new", routeOpts{}, handleNewWindow},
		{http.MethodGet, "/session/{session}/window/rect", routeOpts{}, handleGetWindowRect},
		{http.MethodPost, "/session/{session}/window/rect", routeOpts{}, handleSetWindowRect},
		{http.MethodPost, "/session/{session}/window/maximize", routeOpts{}, handleMaximizeWindow},
		{http.MethodPost, "/session/{session}/window/minimize", routeOpts{}, handleMinimizeWindow},
		{http.MethodPost, "/session/{session}/window/fullscreen", routeOpts{}, handleFullscreenWindow},
	}
}

func handleGetWindowHandle(rc *reqCtx) (any, *WebDriverError) {
	return rc.session.GetCurrentWindow(), nil
}

// handleCloseWindow closes the current top-level browsing context and
// reports the surviving window handles; closing the last window leaves the
// session without a current window but does not delete it.
func handleCloseWindow(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	err := rc.srv.backend.CloseWindow(rc.r.Context())
	handles, listErr := rc.srv.backend.WindowHandles(rc.r.Context())
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	if listErr != nil {
		return nil, ErrBackendUnavailable(listErr)
	}
	if len(handles) == 0 {
		rc.session.SetCurrentWindow("")
	}
	return handles, nil
}

func handleSwitchToWindow(rc *reqCtx) (any, *WebDriverError) {
	handle, _ := rc.body["handle"].(string)
	if handle == "" {
		return nil, ErrInvalidArgument("handle is required")
	}
	rc.session.backendLock.Lock()
	err := rc.srv.backend.SwitchToWindow(rc.r.Context(), handle)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrNoSuchWindow()
	}
	rc.session.SetCurrentWindow(handle)
	return nil, nil
}

func handleWindowHandles(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	handles, err := rc.srv.backend.WindowHandles(rc.r.Context())
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return handles, nil
}

func handleNewWindow(rc *reqCtx) (any, *WebDriverError) {
	typ, _ := rc.body["type"].(string)
	if typ == "" {
		typ = "tab"
	}
	rc.session.backendLock.Lock()
	handle, err := rc.srv.backend.NewWindow(rc.r.Context(), typ)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return map[string]string{"handle": handle, "type": typ}, nil
}

func handleGetWindowRect(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	r, err := rc.srv.backend.WindowRect(rc.r.Context())
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return r, nil
}

func handleSetWindowRect(rc *reqCtx) (any, *WebDriverError) {
	var want WindowRect
	if v, ok := rc.body["x"].(float64); ok {
		want.X = int(v)
	}
	if v, ok := rc.body["y"].(float64); ok {
		want.Y = int(v)
	}
	if v, ok := rc.body["width"].(float64); ok {
		want.Width = int(v)
	}
	if v, ok := rc.body["height"].(float64); ok {
		want.Height = int(v)
	}
	rc.session.backendLock.Lock()
	r, err := rc.srv.backend.SetWindowRect(rc.r.Context(), want)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return r, nil
}

func handleMaximizeWindow(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	r, err := rc.srv.backend.MaximizeWindow(rc.r.Context())
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return r, nil
}

func handleMinimizeWindow(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	err := rc.srv.backend.MinimizeWindow(rc.r.Context())
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return WindowRect{}, nil
}

func handleFullscreenWindow(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	r, err := rc.srv.backend.FullscreenWindow(rc.r.Context())
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return r, nil
}

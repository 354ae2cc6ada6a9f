package main

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// navigationRoutes covers URL get/set, back/forward/refresh, and title.
func navigationRoutes() []route {
	return []route{
		{http.MethodGet, "/session/{session}/url", routeOpts{}, handleGetURL},
		{http.MethodPost, "/session/{session}/url", routeOpts{}, handleSetURL},
		{http.MethodPost, "/session/{session}/back", routeOpts{}, handleBack},
		{http.MethodPost, "/session/{session}/forward", routeOpts{}, handleForward},
		{http.MethodPost, "/session/{session}/refresh", routeOpts{}, handleRefresh},
		{http.MethodGet, "/session/{session}/title", routeOpts{}, handleTitle},
	}
}

func handleGetURL(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	defer rc.session.backendLock.Unlock()
	url, err := rc.srv.backend.CurrentURL(rc.r.Context())
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return url, nil
}

// pageLoadCtx bounds a navigation call by the session's page-load timeout
// and tears the context down early if the client disconnects. A zero
// PageLoadMs means "no timeout" for this purpose.
func pageLoadCtx(rc *reqCtx) (context.Context, context.CancelFunc) {
	ms := rc.session.Timeouts.PageLoadMs
	if ms <= 0 {
		ctx, cancel := context.WithCancel(rc.r.Context())
		return ctx, cancel
	}
	ctx, cancel := context.WithTimeout(rc.r.Context(), time.Duration(ms)*time.Millisecond)
	return ctx, cancel
}

// navErrOrTimeout maps a navigation failure to "timeout" when it was caused
// by pageLoadCtx's deadline rather than a genuine backend failure.
func navErrOrTimeout(ctx context.Context, err error) *WebDriverError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrPageLoadTimeout()
	}
	return ErrBackendUnavailable(err)
}

func handleSetURL(rc *reqCtx) (any, *WebDriverError) {
	url, _ := rc.body["url"].(string)
	if url == "" {
		return nil, ErrInvalidArgument("missing url")
	}
	ctx, cancel := pageLoadCtx(rc)
	defer cancel()
	go cancelOnClientDone(rc.r.Context(), cancel)

	rc.session.backendLock.Lock()
	err := rc.srv.backend.Navigate(ctx, url)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, navErrOrTimeout(ctx, err)
	}
	rc.session.Registry.BumpEpoch()
	rc.session.ResetFrame()
	return nil, nil
}

func handleBack(rc *reqCtx) (any, *WebDriverError) {
	ctx, cancel := pageLoadCtx(rc)
	defer cancel()
	go cancelOnClientDone(rc.r.Context(), cancel)

	rc.session.backendLock.Lock()
	err := rc.srv.backend.Back(ctx)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, navErrOrTimeout(ctx, err)
	}
	rc.session.Registry.BumpEpoch()
	rc.session.ResetFrame()
	return nil, nil
}

func handleForward(rc *reqCtx) (any, *WebDriverError) {
	ctx, cancel := pageLoadCtx(rc)
	defer cancel()
	go cancelOnClientDone(rc.r.Context(), cancel)

	rc.session.backendLock.Lock()
	err := rc.srv.backend.Forward(ctx)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, navErrOrTimeout(ctx, err)
	}
	rc.session.Registry.BumpEpoch()
	rc.session.ResetFrame()
	return nil, nil
}

func handleRefresh(rc *reqCtx) (any, *WebDriverError) {
	ctx, cancel := pageLoadCtx(rc)
	defer cancel()
	go cancelOnClientDone(rc.r.Context(), cancel)

	rc.session.backendLock.Lock()
	err := rc.srv.backend.Refresh(ctx)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, navErrOrTimeout(ctx, err)
	}
	rc.session.Registry.BumpEpoch()
	rc.session.ResetFrame()
	return nil, nil
}

func handleTitle(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	defer rc.session.backendLock.Unlock()
	title, err := rc.srv.backend.Title(rc.r.Context())
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return title, nil
}

package main

import "net/http"

func cookieRoutes() []route {
	return []route{
		{http.MethodGet, "/session/{session}/cookie", routeOpts{}, handleGetAllCookies},
		{http.MethodGet, "/session/{session}/cookie/{name}", routeOpts{}, handleGetNamedCookie},
		{http.MethodPost, "/session/{session}/cookie", routeOpts{}, handleAddCookie},
		{http.MethodDelete, "/session/{session}/cookie/{name}", routeOpts{}, handleDeleteCookie},
		{http.MethodDelete, "/session/{session}/cookie", routeOpts{}, handleDeleteAllCookies},
	}
}

func handleGetAllCookies(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	cookies, err := rc.srv.backend.AllCookies(rc.r.Context())
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return cookies, nil
}

func handleGetNamedCookie(rc *reqCtx) (any, *WebDriverError) {
	name := rc.param("name")
	rc.session.backendLock.Lock()
	cookies, err := rc.srv.backend.AllCookies(rc.r.Context())
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	for _, c := range cookies {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, ErrInvalidArgument("no such cookie: %s", name)
}

// cookieFromBody parses the {"cookie": {...}} payload the W3C Add Cookie
// command wraps its fields in.
func cookieFromBody(body map[string]any) (Cookie, *WebDriverError) {
	raw, _ := body["cookie"].(map[string]any)
	if raw == nil {
		return Cookie{}, ErrInvalidArgument("cookie is required")
	}
	name, _ := raw["name"].(string)
	value, _ := raw["value"].(string)
	if name == "" {
		return Cookie{}, ErrInvalidArgument("cookie.name is required")
	}
	c := Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: false,
		Secure:   false,
	}
	if path, ok := raw["path"].(string); ok && path != "" {
		c.Path = path
	}
	if domain, ok := raw["domain"].(string); ok {
		c.Domain = domain
	}
	if secure, ok := raw["secure"].(bool); ok {
		c.Secure = secure
	}
	if httpOnly, ok := raw["httpOnly"].(bool); ok {
		c.HTTPOnly = httpOnly
	}
	if expiry, ok := raw["expiry"].(float64); ok {
		e := int64(expiry)
		c.Expiry = &e
	}
	if sameSite, ok := raw["sameSite"].(string); ok && sameSite != "" {
		c.SameSite = &sameSite
	}
	return c, nil
}

func handleAddCookie(rc *reqCtx) (any, *WebDriverError) {
	c, werr := cookieFromBody(rc.body)
	if werr != nil {
		return nil, werr
	}
	rc.session.backendLock.Lock()
	err := rc.srv.backend.AddCookie(rc.r.Context(), c)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrInvalidArgument("failed to set cookie: %v", err)
	}
	return nil, nil
}

func handleDeleteCookie(rc *reqCtx) (any, *WebDriverError) {
	name := rc.param("name")
	rc.session.backendLock.Lock()
	err := rc.srv.backend.DeleteCookie(rc.r.Context(), name)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return nil, nil
}

func handleDeleteAllCookies(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	err := rc.srv.backend.DeleteAllCookies(rc.r.Context())
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return nil, nil
}

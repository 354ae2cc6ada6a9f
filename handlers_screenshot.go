package main

import "net/http"

// Element screenshot lives in handlers_element.go (handleElementScreenshot),
// grouped with the rest of the /element/{element}/... surface; this file
// covers only the top-level viewport capture.
func screenshotRoutes() []route {
	return []route{
		{http.MethodGet, "/session/{session}/screenshot", routeOpts{}, handleTakeScreenshot},
	}
}

func handleTakeScreenshot(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	data, err := rc.srv.backend.Screenshot(rc.r.Context())
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	return base64Encode(data), nil
}

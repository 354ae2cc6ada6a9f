package main

import (
	"fmt"
	"net/http"
)

func frameRoutes() []route {
	return []route{
		{http.MethodPost, "/session/{session}/frame", routeOpts{}, handleSwitchToFrame},
		{http.MethodPost, "/session/{session}/frame/parent", routeOpts{}, handleSwitchToParentFrame},
	}
}

// handleSwitchToFrame descends into a child frame addressed by index or by
// element reference, or returns to the top-level context when id is null.
func handleSwitchToFrame(rc *reqCtx) (any, *WebDriverError) {
	id, present := rc.body["id"]
	if !present || id == nil {
		rc.session.ResetFrame()
		return nil, nil
	}

	switch v := id.(type) {
	case float64:
		rc.session.PushFrame(fmt.Sprintf("frames[%d]", int(v)))
		return nil, nil
	case map[string]any:
		handle, isElement, ok := unwrapRef(v)
		if !ok || !isElement {
			return nil, ErrInvalidArgument("frame id must be null, an integer index, or an element reference")
		}
		ref, err := rc.session.Registry.ResolveKind(handle, KindElement)
		if err != nil {
			return nil, err
		}
		script := withFrameContext(rc.session.FrameContextExpr(), wrapEnvelope(fmt.Sprintf(`
			var el = window.%s;
			if (!el) throw new Error('stale element reference');
			if (el.tagName !== 'IFRAME' && el.tagName !== 'FRAME') throw new Error('no such frame');
			return {success: true, value: true};
		`, ref.JSRef)))
		rc.session.backendLock.Lock()
		raw, evalErr := rc.srv.backend.EvaluateSync(rc.r.Context(), script, nil)
		rc.session.backendLock.Unlock()
		if evalErr != nil {
			return nil, ErrBackendUnavailable(evalErr)
		}
		if _, ok, errMsg := extractEnvelope(raw); !ok {
			return nil, classifyScriptError(errMsg)
		}
		rc.session.PushFrame(ref.JSRef + ".contentWindow")
		return nil, nil
	default:
		return nil, ErrInvalidArgument("frame id must be null, an integer index, or an element reference")
	}
}

func handleSwitchToParentFrame(rc *reqCtx) (any, *WebDriverError) {
	rc.session.PopFrame()
	return nil, nil
}

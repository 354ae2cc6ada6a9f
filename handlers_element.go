package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pinchtab/webdriver/internal/upload"
)

// elementRoutes covers the find-element family, element state queries, and
// element interaction (click/clear/send-keys).
func elementRoutes() []route {
	return []route{
		{http.MethodPost, "/session/{session}/element", routeOpts{}, handleFindElement},
		{http.MethodPost, "/session/{session}/elements", routeOpts{}, handleFindElements},
		{http.MethodPost, "/session/{session}/element/{element}/element", routeOpts{}, handleFindElementFromElement},
		{http.MethodPost, "/session/{session}/element/{element}/elements", routeOpts{}, handleFindElementsFromElement},
		{http.MethodPost, "/session/{session}/shadow/{shadow}/element", routeOpts{}, handleFindElementFromShadow},
		{http.MethodPost, "/session/{session}/shadow/{shadow}/elements", routeOpts{}, handleFindElementsFromShadow},
		{http.MethodGet, "/session/{session}/element/active", routeOpts{}, handleActiveElement},
		{http.MethodGet, "/session/{session}/element/{element}/shadow", routeOpts{}, handleGetShadowRoot},

		{http.MethodPost, "/session/{session}/element/{element}/click", routeOpts{}, handleElementClick},
		{http.MethodPost, "/session/{session}/element/{element}/clear", routeOpts{}, handleElementClear},
		{http.MethodPost, "/session/{session}/element/{element}/value", routeOpts{}, handleElementSendKeys},

		{http.MethodGet, "/session/{session}/element/{element}/text", routeOpts{}, handleElementText},
		{http.MethodGet, "/session/{session}/element/{element}/name", routeOpts{}, handleElementTagName},
		{http.MethodGet, "/session/{session}/element/{element}/attribute/{name}", routeOpts{}, handleElementAttribute},
		{http.MethodGet, "/session/{session}/element/{element}/property/{name}", routeOpts{}, handleElementProperty},
		{http.MethodGet, "/session/{session}/element/{element}/css/{property}", routeOpts{}, handleElementCSS},
		{http.MethodGet, "/session/{session}/element/{element}/rect", routeOpts{}, handleElementRect},
		{http.MethodGet, "/session/{session}/element/{element}/selected", routeOpts{}, handleElementSelected},
		{http.MethodGet, "/session/{session}/element/{element}/enabled", routeOpts{}, handleElementEnabled},
		{http.MethodGet, "/session/{session}/element/{element}/displayed", routeOpts{}, handleElementDisplayed},
		{http.MethodGet, "/session/{session}/element/{element}/screenshot", routeOpts{}, handleElementScreenshot},
		{http.MethodGet, "/session/{session}/element/{element}/computedrole", routeOpts{}, handleElementComputedRole},
		{http.MethodGet, "/session/{session}/element/{element}/computedlabel", routeOpts{}, handleElementComputedLabel},
	}
}

func handleFindElement(rc *reqCtx) (any, *WebDriverError) {
	strategy, value, err := parseUsingValue(rc.body)
	if err != nil {
		return nil, err
	}
	ref, err := rc.findOne(strategy, value)
	if err != nil {
		return nil, err
	}
	return elementRefValue(ref), nil
}

func handleFindElements(rc *reqCtx) (any, *WebDriverError) {
	strategy, value, err := parseUsingValue(rc.body)
	if err != nil {
		return nil, err
	}
	refs, err := rc.findMany(strategy, value)
	if err != nil {
		return nil, err
	}
	return refListValue(refs), nil
}

func handleFindElementFromElement(rc *reqCtx) (any, *WebDriverError) {
	parent, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	strategy, value, err := parseUsingValue(rc.body)
	if err != nil {
		return nil, err
	}
	ref, err := rc.findOneFromElement(parent, strategy, value)
	if err != nil {
		return nil, err
	}
	return elementRefValue(ref), nil
}

func handleFindElementsFromElement(rc *reqCtx) (any, *WebDriverError) {
	parent, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	strategy, value, err := parseUsingValue(rc.body)
	if err != nil {
		return nil, err
	}
	refs, err := rc.findManyFromElement(parent, strategy, value)
	if err != nil {
		return nil, err
	}
	return refListValue(refs), nil
}

func handleFindElementFromShadow(rc *reqCtx) (any, *WebDriverError) {
	shadow, err := rc.resolveShadowRef("shadow")
	if err != nil {
		return nil, err
	}
	strategy, value, err := parseUsingValue(rc.body)
	if err != nil {
		return nil, err
	}
	ref, err := rc.findOneFromShadow(shadow, strategy, value)
	if err != nil {
		return nil, err
	}
	return elementRefValue(ref), nil
}

func handleFindElementsFromShadow(rc *reqCtx) (any, *WebDriverError) {
	shadow, err := rc.resolveShadowRef("shadow")
	if err != nil {
		return nil, err
	}
	strategy, value, err := parseUsingValue(rc.body)
	if err != nil {
		return nil, err
	}
	refs, err := rc.findManyFromShadow(shadow, strategy, value)
	if err != nil {
		return nil, err
	}
	return refListValue(refs), nil
}

func handleActiveElement(rc *reqCtx) (any, *WebDriverError) {
	jsVar := rc.session.Registry.NextJSVarBase()
	v, err := rc.evalEnvelope(scriptGetActiveElement(jsVar))
	if err != nil {
		return nil, err
	}
	found, _ := v.(bool)
	if !found {
		return nil, ErrNoSuchElement()
	}
	ref := rc.session.Registry.MintNamed(KindElement, jsVar)
	return elementRefValue(ref), nil
}

func handleGetShadowRoot(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	shadowJSVar := rc.session.Registry.NextJSVarBase()
	v, err := rc.evalEnvelope(scriptGetShadowRoot(el.JSRef, shadowJSVar))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNoSuchShadowRoot()
	}
	ref := rc.session.Registry.MintNamed(KindShadow, shadowJSVar)
	return wrapShadow(ref.Handle), nil
}

func handleElementClick(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	v, err := rc.evalEnvelope(scriptClickPoint(el.JSRef))
	if err != nil {
		return nil, err
	}
	point, _ := v.(map[string]any)
	x, _ := point["x"].(float64)
	y, _ := point["y"].(float64)

	rc.session.backendLock.Lock()
	defer rc.session.backendLock.Unlock()
	ctx := rc.r.Context()
	if derr := rc.srv.backend.DispatchPointer(ctx, PointerDown, int(x), int(y), 0); derr != nil {
		return nil, ErrBackendUnavailable(derr)
	}
	if derr := rc.srv.backend.DispatchPointer(ctx, PointerUp, int(x), int(y), 0); derr != nil {
		return nil, ErrBackendUnavailable(derr)
	}
	return nil, nil
}

func handleElementClear(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	_, err = rc.evalEnvelope(scriptClearElement(el.JSRef))
	return nil, err
}

// handleElementSendKeys dispatches a text sequence to the element, with a
// Selenium-compatible extension: when the target is a file input, the value
// is treated as a data-URL/base64 upload payload (internal/upload) rather
// than literal keystrokes.
func handleElementSendKeys(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	text := joinTextSequence(rc.body)

	isFile, werr := rc.isFileInput(el)
	if werr != nil {
		return nil, werr
	}
	if isFile {
		return nil, rc.setFileInput(el, text)
	}

	if _, werr := rc.evalEnvelope(scriptSetFocus(el.JSRef)); werr != nil {
		return nil, werr
	}

	rc.session.backendLock.Lock()
	defer rc.session.backendLock.Unlock()
	ctx := rc.r.Context()
	for _, r := range text {
		key, named := keyEventTable[r]
		if !named {
			key = string(r)
		}
		held := isModifierKey(r)
		if derr := rc.srv.backend.DispatchKey(ctx, key, true); derr != nil {
			return nil, ErrBackendUnavailable(derr)
		}
		if !held {
			if derr := rc.srv.backend.DispatchKey(ctx, key, false); derr != nil {
				return nil, ErrBackendUnavailable(derr)
			}
		}
	}
	return nil, nil
}

// joinTextSequence concatenates the "value" array the W3C wire format sends
// for element send-keys (historically an array of single characters).
func joinTextSequence(body map[string]any) string {
	if s, ok := body["text"].(string); ok {
		return s
	}
	arr, _ := body["value"].([]any)
	var sb strings.Builder
	for _, v := range arr {
		if s, ok := v.(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (rc *reqCtx) isFileInput(el *Ref) (bool, *WebDriverError) {
	v, err := rc.evalEnvelope(wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		return {success:true, value: (el.tagName === 'INPUT' && el.type === 'file')};
	`, el.JSRef)))
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

func (rc *reqCtx) setFileInput(el *Ref, payload string) *WebDriverError {
	path, werr := upload.SaveToTempFile(payload)
	if werr != nil {
		return ErrInvalidArgument("failed to decode file upload payload: %v", werr)
	}
	rc.session.backendLock.Lock()
	defer rc.session.backendLock.Unlock()
	if err := rc.srv.backend.SetFileInputFiles(rc.r.Context(), el.JSRef, []string{path}); err != nil {
		return ErrBackendUnavailable(err)
	}
	return nil
}

func handleElementText(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	return rc.evalEnvelope(scriptGetText(el.JSRef))
}

func handleElementTagName(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	return rc.evalEnvelope(scriptGetTagName(el.JSRef))
}

func handleElementAttribute(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	name := rc.param("name")
	return rc.evalEnvelope(scriptGetAttribute(el.JSRef, name))
}

func handleElementProperty(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	name := rc.param("name")
	return rc.evalEnvelope(scriptGetProperty(el.JSRef, name))
}

func handleElementCSS(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	prop := rc.param("property")
	return rc.evalEnvelope(scriptGetCSSValue(el.JSRef, prop))
}

func handleElementRect(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	return rc.evalEnvelope(scriptGetRect(el.JSRef))
}

func handleElementSelected(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	return rc.evalEnvelope(scriptIsSelected(el.JSRef))
}

func handleElementEnabled(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	return rc.evalEnvelope(scriptIsEnabled(el.JSRef))
}

func handleElementDisplayed(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	return rc.evalEnvelope(scriptIsDisplayed(el.JSRef))
}

func handleElementScreenshot(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	rc.session.backendLock.Lock()
	defer rc.session.backendLock.Unlock()
	png, berr := rc.srv.backend.ElementScreenshot(rc.r.Context(), el.JSRef)
	if berr != nil {
		return nil, ErrBackendUnavailable(berr)
	}
	return base64Encode(png), nil
}

func handleElementComputedRole(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	return rc.evalEnvelope(scriptComputedRole(el.JSRef))
}

func handleElementComputedLabel(rc *reqCtx) (any, *WebDriverError) {
	el, err := rc.resolveElementRef("element")
	if err != nil {
		return nil, err
	}
	return rc.evalEnvelope(scriptComputedLabel(el.JSRef))
}

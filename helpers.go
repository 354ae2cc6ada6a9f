package main

import (
	"strings"
)

// evalEnvelope runs an injected script (already following the
// {success,value|error} contract) in the session's current frame context and
// classifies any reported failure into the right WebDriverError kind.
func (rc *reqCtx) evalEnvelope(script string) (any, *WebDriverError) {
	full := withFrameContext(rc.session.FrameContextExpr(), script)
	rc.session.backendLock.Lock()
	raw, err := rc.srv.backend.EvaluateSync(rc.r.Context(), full, nil)
	rc.session.backendLock.Unlock()
	if err != nil {
		return nil, ErrBackendUnavailable(err)
	}
	value, ok, errMsg := extractEnvelope(raw)
	if !ok {
		return nil, classifyScriptError(errMsg)
	}
	return value, nil
}

// classifyScriptError maps a thrown-message string from an injected script
// to the matching W3C error kind, falling back to a generic javascript error
// for anything it doesn't recognize as one of the named conditions.
func classifyScriptError(msg string) *WebDriverError {
	switch {
	case strings.Contains(msg, "stale element reference"):
		return ErrStale()
	case strings.Contains(msg, "element click intercepted"):
		return ErrClickIntercepted(msg)
	case strings.Contains(msg, "no such element"):
		return ErrNoSuchElement()
	case strings.Contains(msg, "no such shadow root"):
		return ErrNoSuchShadowRoot()
	case strings.Contains(msg, "element not interactable"):
		return ErrNotInteractable(msg)
	default:
		return ErrJavascriptError(msg)
	}
}

// resolveElementRef looks up the {element} path parameter against the
// session's registry, mapping a kind mismatch or epoch mismatch to the
// matching W3C error.
func (rc *reqCtx) resolveElementRef(param string) (*Ref, *WebDriverError) {
	handle := rc.param(param)
	if handle == "" {
		return nil, ErrInvalidArgument("missing element id")
	}
	return rc.session.Registry.ResolveKind(handle, KindElement)
}

func (rc *reqCtx) resolveShadowRef(param string) (*Ref, *WebDriverError) {
	handle := rc.param(param)
	if handle == "" {
		return nil, ErrInvalidArgument("missing shadow id")
	}
	return rc.session.Registry.ResolveKind(handle, KindShadow)
}

// findOne runs a single-result locator script and mints an ElementRef for
// the match, or reports no such element when nothing matched.
func (rc *reqCtx) findOne(strategy LocatorStrategy, value string) (*Ref, *WebDriverError) {
	jsVar := rc.session.Registry.NextJSVarBase()
	script := buildFindScript(strategy, value, false, jsVar)
	v, err := rc.evalEnvelope(script)
	if err != nil {
		return nil, err
	}
	found, _ := v.(bool)
	if !found {
		return nil, ErrNoSuchElement()
	}
	return rc.session.Registry.MintNamed(KindElement, jsVar), nil
}

// findMany runs a multi-result locator script and mints one ElementRef per
// match; an empty result is success, never an error.
func (rc *reqCtx) findMany(strategy LocatorStrategy, value string) ([]*Ref, *WebDriverError) {
	jsVar := rc.session.Registry.NextJSVarBase()
	script := buildFindScript(strategy, value, true, jsVar)
	v, err := rc.evalEnvelope(script)
	if err != nil {
		return nil, err
	}
	names, _ := v.([]any)
	refs := make([]*Ref, 0, len(names))
	for _, n := range names {
		name, _ := n.(string)
		if name == "" {
			continue
		}
		refs = append(refs, rc.session.Registry.MintNamed(KindElement, name))
	}
	return refs, nil
}

func (rc *reqCtx) findOneFromElement(parent *Ref, strategy LocatorStrategy, value string) (*Ref, *WebDriverError) {
	jsVar := rc.session.Registry.NextJSVarBase()
	script := buildFindFromElementScript(strategy, value, false, parent.JSRef, jsVar)
	v, err := rc.evalEnvelope(script)
	if err != nil {
		return nil, err
	}
	found, _ := v.(bool)
	if !found {
		return nil, ErrNoSuchElement()
	}
	return rc.session.Registry.MintNamed(KindElement, jsVar), nil
}

func (rc *reqCtx) findManyFromElement(parent *Ref, strategy LocatorStrategy, value string) ([]*Ref, *WebDriverError) {
	jsVar := rc.session.Registry.NextJSVarBase()
	script := buildFindFromElementScript(strategy, value, true, parent.JSRef, jsVar)
	v, err := rc.evalEnvelope(script)
	if err != nil {
		return nil, err
	}
	names, _ := v.([]any)
	refs := make([]*Ref, 0, len(names))
	for _, n := range names {
		name, _ := n.(string)
		if name != "" {
			refs = append(refs, rc.session.Registry.MintNamed(KindElement, name))
		}
	}
	return refs, nil
}

func (rc *reqCtx) findOneFromShadow(shadow *Ref, strategy LocatorStrategy, value string) (*Ref, *WebDriverError) {
	jsVar := rc.session.Registry.NextJSVarBase()
	script := buildFindFromShadowScript(strategy, value, false, shadow.JSRef, jsVar)
	v, err := rc.evalEnvelope(script)
	if err != nil {
		return nil, err
	}
	found, _ := v.(bool)
	if !found {
		return nil, ErrNoSuchElement()
	}
	return rc.session.Registry.MintNamed(KindElement, jsVar), nil
}

func (rc *reqCtx) findManyFromShadow(shadow *Ref, strategy LocatorStrategy, value string) ([]*Ref, *WebDriverError) {
	jsVar := rc.session.Registry.NextJSVarBase()
	script := buildFindFromShadowScript(strategy, value, true, shadow.JSRef, jsVar)
	v, err := rc.evalEnvelope(script)
	if err != nil {
		return nil, err
	}
	names, _ := v.([]any)
	refs := make([]*Ref, 0, len(names))
	for _, n := range names {
		name, _ := n.(string)
		if name != "" {
			refs = append(refs, rc.session.Registry.MintNamed(KindElement, name))
		}
	}
	return refs, nil
}

// parseUsingValue extracts and validates the {"using":..., "value":...}
// locator body shared by every find-element family endpoint.
func parseUsingValue(body map[string]any) (LocatorStrategy, string, *WebDriverError) {
	using, _ := body["using"].(string)
	value, _ := body["value"].(string)
	strategy, ok := parseLocatorStrategy(using)
	if !ok {
		return "", "", ErrInvalidSelector(using)
	}
	return strategy, value, nil
}

func elementRefValue(ref *Ref) map[string]string {
	return wrapElement(ref.Handle)
}

func refListValue(refs []*Ref) []map[string]string {
	out := make([]map[string]string, len(refs))
	for i, ref := range refs {
		out[i] = wrapElement(ref.Handle)
	}
	return out
}

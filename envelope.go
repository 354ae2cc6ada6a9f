package main

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// base64Encode wraps binary payloads (screenshots, PDFs) for the wire, per
// the W3C spec's base64-string contract for these endpoints.
func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

const (
	elementMagicKey = "element-6066-11e4-a52e-4f735466cecf"
	shadowMagicKey  = "shadow-6066-11e4-a52e-4f735466cecf"
)

// writeValue writes a successful {"value": X} response.
func writeValue(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"value": v})
}

// writeError writes a W3C error envelope and maps the error kind to an HTTP status.
func writeError(w http.ResponseWriter, err *WebDriverError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err.HTTPStatus())
	body := map[string]any{
		"error":      string(err.Kind),
		"message":    err.Message,
		"stacktrace": err.Stacktrace,
	}
	if err.Data != nil {
		body["data"] = err.Data
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"value": body})
}

// wrapElement produces the W3C element reference object for an element handle.
func wrapElement(handle string) map[string]string {
	return map[string]string{elementMagicKey: handle}
}

// wrapShadow produces the W3C shadow root reference object for a shadow handle.
func wrapShadow(handle string) map[string]string {
	return map[string]string{shadowMagicKey: handle}
}

// unwrapRef extracts an element or shadow handle from a wire value, if present.
func unwrapRef(v any) (handle string, isElement bool, ok bool) {
	m, isMap := v.(map[string]any)
	if !isMap {
		return "", false, false
	}
	if h, present := m[elementMagicKey]; present {
		if s, isStr := h.(string); isStr {
			return s, true, true
		}
	}
	if h, present := m[shadowMagicKey]; present {
		if s, isStr := h.(string); isStr {
			return s, false, true
		}
	}
	return "", false, false
}

// unwrapArgsForScript recursively unwraps element/shadow reference objects found in script
// arguments into their js_ref form, since the injected script wrapper expects the
// same global-variable-handle scheme used by find-element.
func unwrapArgsForScript(reg *ElementRegistry, v any) (any, *WebDriverError) {
	switch t := v.(type) {
	case map[string]any:
		if handle, _, ok := unwrapRef(t); ok {
			ref, err := reg.Resolve(handle)
			if err != nil {
				return nil, err
			}
			return scriptHandleSentinel(ref.JSRef), nil
		}
		out := make(map[string]any, len(t))
		for k, vv := range t {
			rv, err := unwrapArgsForScript(reg, vv)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			rv, err := unwrapArgsForScript(reg, vv)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	default:
		return v, nil
	}
}

// scriptHandleSentinel marks a js_ref so the script-building layer can splice it
// in as a bare identifier (window.__wd_el_N) rather than a quoted JSON string.
type scriptHandleSentinel string

// mintAndWrapScriptResult recursively walks a raw script completion value
// looking for the serializer prelude's element/shadow markers
// ({"__wd_jsref__": name, "__wd_kind__": kind}), mints a registry Ref for
// each one found (the marker names a live global variable the injected
// serializer just stashed the node/shadow-root under), and replaces it with
// the outgoing W3C magic-key reference object.
func mintAndWrapScriptResult(reg *ElementRegistry, v any) any {
	switch t := v.(type) {
	case map[string]any:
		if jsRef, hasRef := t["__wd_jsref__"].(string); hasRef {
			kind := KindElement
			if k, _ := t["__wd_kind__"].(string); k == "shadow" {
				kind = KindShadow
			}
			ref := reg.MintNamed(kind, jsRef)
			if kind == KindShadow {
				return wrapShadow(ref.Handle)
			}
			return wrapElement(ref.Handle)
		}
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = mintAndWrapScriptResult(reg, vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = mintAndWrapScriptResult(reg, vv)
		}
		return out
	default:
		return v
	}
}

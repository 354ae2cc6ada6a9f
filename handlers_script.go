package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// scriptRoutes covers the two script-execution endpoints. Both share the
// same argument-unwrapping and result-minting pipeline; they differ only in
// how the backend is told the script has finished (a direct return value vs.
// a callback invoked by the page).
func scriptRoutes() []route {
	return []route{
		{http.MethodPost, "/session/{session}/execute/sync", routeOpts{}, handleExecuteSync},
		{http.MethodPost, "/session/{session}/execute/async", routeOpts{}, handleExecuteAsync},
	}
}

// elementResultSerializerScript is injected ahead of every user script body.
// It gives the page a way to hand DOM nodes back through a JSON-only
// transport: rather than serializing the node, it stashes it on a fresh
// global and returns a marker object naming that global, which the Go side
// (mintAndWrapScriptResult) turns into a real element/shadow handle.
const elementResultSerializerScript = `
window.__wd_anon_counter = window.__wd_anon_counter || 0;
function __wd_serialize(v) {
	if (v === null || v === undefined) return null;
	if (typeof Node !== 'undefined' && v instanceof Node) {
		var name = '__wd_anon_' + (window.__wd_anon_counter++);
		window[name] = v;
		return {__wd_jsref__: name, __wd_kind__: (v.nodeType === 11 ? 'shadow' : 'element')};
	}
	if (typeof ShadowRoot !== 'undefined' && v instanceof ShadowRoot) {
		var sname = '__wd_anon_' + (window.__wd_anon_counter++);
		window[sname] = v;
		return {__wd_jsref__: sname, __wd_kind__: 'shadow'};
	}
	if (Array.isArray(v)) return v.map(__wd_serialize);
	if (typeof v === 'object') {
		var out = {};
		for (var k in v) out[k] = __wd_serialize(v[k]);
		return out;
	}
	return v;
}
`

// buildSyncScriptBody assembles the text EvaluateSync's own args-applying
// wrapper runs as a function body: redirect window/document into the active
// frame, define the element serializer, run the user's script as an inner
// function sharing the same arguments array, then serialize its result.
func buildSyncScriptBody(frameExpr, userScript string) string {
	return fmt.Sprintf(`%s%s
	return __wd_serialize((function() {
		%s
	}).apply(null, arguments));
`, frameContextPrelude(frameExpr), elementResultSerializerScript, userScript)
}

func handleExecuteSync(rc *reqCtx) (any, *WebDriverError) {
	userScript, _ := rc.body["script"].(string)
	rawArgs, _ := rc.body["args"].([]any)

	args, werr := unwrapArgsForScript(rc.session.Registry, rawArgs)
	if werr != nil {
		return nil, werr
	}
	argList, _ := args.([]any)

	body := buildSyncScriptBody(rc.session.FrameContextExpr(), userScript)

	ctx, cancel := context.WithCancel(rc.r.Context())
	if ms := rc.session.Timeouts.ScriptMs; ms != nil && *ms > 0 {
		ctx, cancel = context.WithTimeout(rc.r.Context(), time.Duration(*ms)*time.Millisecond)
	}
	defer cancel()
	go cancelOnClientDone(rc.r.Context(), cancel)

	rc.session.backendLock.Lock()
	raw, err := rc.srv.backend.EvaluateSync(ctx, body, argList)
	rc.session.backendLock.Unlock()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrScriptTimeout()
		}
		return nil, classifyScriptError(err.Error())
	}
	return mintAndWrapScriptResult(rc.session.Registry, raw), nil
}

// handleExecuteAsync runs the user's script with an extra trailing callback
// argument, per the W3C async-script convention, and races the backend's
// completion callback against the session's script timeout.
func handleExecuteAsync(rc *reqCtx) (any, *WebDriverError) {
	userScript, _ := rc.body["script"].(string)
	rawArgs, _ := rc.body["args"].([]any)

	args, werr := unwrapArgsForScript(rc.session.Registry, rawArgs)
	if werr != nil {
		return nil, werr
	}
	argList, _ := args.([]any)

	script := frameContextPrelude(rc.session.FrameContextExpr()) + userScript
	asyncID := uuid.NewString()
	resultCh := rc.session.Async.Register(asyncID)

	ctx, cancel := context.WithCancel(rc.r.Context())
	defer cancel()

	rc.session.backendLock.Lock()
	err := rc.srv.backend.EvaluateAsync(ctx, script, argList, asyncID, func(value any, errMsg string) {
		if errMsg != "" {
			rc.session.Async.Fail(asyncID, errMsg)
			return
		}
		rc.session.Async.Complete(asyncID, value)
	})
	rc.session.backendLock.Unlock()
	if err != nil {
		rc.session.Async.Cancel(asyncID)
		return nil, classifyScriptError(err.Error())
	}

	var timeout <-chan time.Time
	if ms := rc.session.Timeouts.ScriptMs; ms != nil {
		if *ms <= 0 {
			// A zero/negative script timeout means "never time out" for the
			// purposes of this endpoint; the request context's own deadline
			// (if any) is still honored below.
			timeout = nil
		} else {
			timer := time.NewTimer(time.Duration(*ms) * time.Millisecond)
			defer timer.Stop()
			timeout = timer.C
		}
	}

	select {
	case res := <-resultCh:
		if res.err != "" {
			return nil, classifyScriptError(res.err)
		}
		return mintAndWrapScriptResult(rc.session.Registry, res.value), nil
	case <-timeout:
		rc.session.Async.Cancel(asyncID)
		return nil, ErrScriptTimeout()
	case <-rc.r.Context().Done():
		rc.session.Async.Cancel(asyncID)
		return nil, ErrScriptTimeout()
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// asyncBindingName is the Runtime.addBinding name used as the Go/CDP analog
// of the native host's postMessage channel for execute/async completions.
const asyncBindingName = "__pinchtab_async_done"

// ChromeBackend implements Backend over a chromedp-driven Chrome instance.
// It owns exactly one browsing context at a time, matching the "no
// multi-session parallelism against one backend" baseline: window creation
// allocates additional CDP targets, but only one is ever the "current" one
// that script evaluation and element lookups run against.
type ChromeBackend struct {
	allocCtx   context.Context
	allocCancel context.CancelFunc
	browserCtx context.Context

	mu          sync.Mutex
	currentCtx  context.Context
	currentCancel context.CancelFunc

	asyncMu      sync.Mutex
	asyncPending map[string]func(value any, errMsg string)

	alertMu    sync.Mutex
	onAlert    AlertDialogHandler
	profileDir string
}

// newChromeBackend launches (or attaches to) a Chrome instance per the
// resolved Config and opens the single initial browsing context.
func newChromeBackend(ctx context.Context, cfg *Config) (*ChromeBackend, error) {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.UserDataDir(cfg.ProfileDir),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)

	browserCtx, _ := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		allocCancel()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	b := &ChromeBackend{
		allocCtx:     allocCtx,
		allocCancel:  allocCancel,
		browserCtx:   browserCtx,
		asyncPending: map[string]func(value any, errMsg string){},
		profileDir:   cfg.ProfileDir,
	}
	b.currentCtx = browserCtx

	if err := chromedp.Run(b.currentCtx, chromedp.Navigate("about:blank")); err != nil {
		return nil, fmt.Errorf("initial navigate: %w", err)
	}
	if err := b.installBindings(b.currentCtx); err != nil {
		return nil, fmt.Errorf("install bindings: %w", err)
	}
	return b, nil
}

func (b *ChromeBackend) ctx() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentCtx
}

// installBindings wires the async-script completion binding and the
// javascript-dialog-opening listener onto the given browsing context.
func (b *ChromeBackend) installBindings(tabCtx context.Context) error {
	if err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return runtime.AddBinding(asyncBindingName).Do(ctx)
	})); err != nil {
		return err
	}

	chromedp.ListenTarget(tabCtx, func(ev any) {
		switch e := ev.(type) {
		case *runtime.EventBindingCalled:
			if e.Name != asyncBindingName {
				return
			}
			b.handleAsyncCallback(e.Payload)
		case *page.EventJavascriptDialogOpening:
			b.handleDialogOpening(tabCtx, e)
		}
	})
	return nil
}

func (b *ChromeBackend) handleAsyncCallback(payload string) {
	var msg struct {
		AsyncID string `json:"asyncId"`
		Result  any    `json:"r"`
		Err     *string `json:"e"`
	}
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		slog.Warn("async callback payload decode failed", "err", err)
		return
	}
	b.asyncMu.Lock()
	done, ok := b.asyncPending[msg.AsyncID]
	if ok {
		delete(b.asyncPending, msg.AsyncID)
	}
	b.asyncMu.Unlock()
	if !ok || done == nil {
		return
	}
	if msg.Err != nil {
		done(nil, *msg.Err)
		return
	}
	done(msg.Result, "")
}

func (b *ChromeBackend) handleDialogOpening(tabCtx context.Context, e *page.EventJavascriptDialogOpening) {
	b.alertMu.Lock()
	handler := b.onAlert
	b.alertMu.Unlock()
	if handler == nil {
		// No coordinator installed yet: fall back to auto-dismiss so the
		// page doesn't hang the renderer.
		_ = chromedp.Run(tabCtx, page.HandleJavaScriptDialog(false))
		return
	}

	kind := AlertKindAlert
	switch e.Type {
	case page.DialogTypeConfirm:
		kind = AlertKindConfirm
	case page.DialogTypePrompt:
		kind = AlertKindPrompt
	}

	handler(kind, e.Message, e.DefaultPrompt, func(accept bool, text string) {
		action := page.HandleJavaScriptDialog(accept)
		if accept && text != "" {
			action = action.WithPromptText(text)
		}
		if err := chromedp.Run(tabCtx, action); err != nil {
			slog.Warn("handle dialog failed", "err", err)
		}
	})
}

// InstallAlertHandler registers the Alert Coordinator's dialog callback.
func (b *ChromeBackend) InstallAlertHandler(ctx context.Context, onDialog AlertDialogHandler) error {
	b.alertMu.Lock()
	b.onAlert = onDialog
	b.alertMu.Unlock()
	return nil
}

// EvaluateSync runs script in the current browsing context and returns its
// JSON-serialized completion value.
func (b *ChromeBackend) EvaluateSync(ctx context.Context, script string, args []any) (any, error) {
	full := wrapScriptWithArgs(script, args)
	var result any
	err := chromedp.Run(b.ctx(), chromedp.Evaluate(full, &result, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithReturnByValue(true).WithAwaitPromise(true)
	}))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EvaluateAsync wraps the user script in the __done(value)/__done(null,err)
// contract and registers the completion callback keyed by asyncID; the
// actual delivery happens out-of-band via the asyncBindingName binding.
func (b *ChromeBackend) EvaluateAsync(ctx context.Context, script string, args []any, asyncID string, done func(value any, errMsg string)) error {
	b.asyncMu.Lock()
	b.asyncPending[asyncID] = done
	b.asyncMu.Unlock()

	wrapped := fmt.Sprintf(`(function() {
		var __done = function(r, e) {
			window.%s(JSON.stringify({asyncId: %q, r: r === undefined ? null : r, e: e === undefined ? null : e}));
		};
		try {
			(function() {
				%s
			}).apply(null, (%s).concat([function(r){__done(r,null);}]));
		} catch (err) {
			__done(null, String(err && err.message || err));
		}
	})()`, asyncBindingName, asyncID, script, jsonArgsArray(args))

	return chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		_, exceptionDetails, err := runtime.Evaluate(wrapped).WithAwaitPromise(false).Do(ctx)
		if err != nil {
			return err
		}
		if exceptionDetails != nil {
			return fmt.Errorf("evaluate async wrapper: %s", exceptionDetails.Text)
		}
		return nil
	}))
}

// refMarkerPattern matches a JSON-quoted scriptHandleSentinel value: since
// scriptHandleSentinel is a plain string alias (its value is exactly the
// live element's global variable name, e.g. __wd_el_3), json.Marshal emits
// it as an ordinary quoted string. JSON has no way to express a bare
// identifier, so this pattern finds those markers after marshaling and
// splices in an unquoted window.<name> reference instead.
var refMarkerPattern = regexp.MustCompile(`"(__wd_(?:el_\d+(?:_\d+)?|anon_\d+))"`)

func jsonArgsArray(args []any) string {
	b, err := json.Marshal(args)
	if err != nil {
		return "[]"
	}
	return refMarkerPattern.ReplaceAllString(string(b), "window.$1")
}

func wrapScriptWithArgs(script string, args []any) string {
	return fmt.Sprintf(`(function() {
		return (function() {
			%s
		}).apply(null, %s);
	})()`, script, jsonArgsArray(args))
}

func (b *ChromeBackend) Navigate(ctx context.Context, url string) error {
	return chromedp.Run(b.ctx(), chromedp.Navigate(url))
}

func (b *ChromeBackend) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := chromedp.Run(b.ctx(), chromedp.Location(&url))
	return url, err
}

func (b *ChromeBackend) Title(ctx context.Context) (string, error) {
	var title string
	err := chromedp.Run(b.ctx(), chromedp.Title(&title))
	return title, err
}

func (b *ChromeBackend) Back(ctx context.Context) error {
	return chromedp.Run(b.ctx(), chromedp.NavigateBack())
}

func (b *ChromeBackend) Forward(ctx context.Context) error {
	return chromedp.Run(b.ctx(), chromedp.NavigateForward())
}

func (b *ChromeBackend) Refresh(ctx context.Context) error {
	return chromedp.Run(b.ctx(), chromedp.Reload())
}

func (b *ChromeBackend) PageSource(ctx context.Context) (string, error) {
	var html string
	err := chromedp.Run(b.ctx(), chromedp.OuterHTML("html", &html))
	return html, err
}

func (b *ChromeBackend) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := chromedp.Run(b.ctx(), chromedp.CaptureScreenshot(&buf))
	return buf, err
}

func (b *ChromeBackend) ElementScreenshot(ctx context.Context, jsRef string) ([]byte, error) {
	var buf []byte
	// Resolve the element's box via JS, then clip the screenshot to it.
	var rectRaw any
	if err := chromedp.Run(b.ctx(), chromedp.Evaluate(wrapEnvelope(fmt.Sprintf(`
		var el = window.%s;
		if (!el) throw new Error('stale element reference');
		var r = el.getBoundingClientRect();
		return {success:true, value:{x:r.left,y:r.top,width:r.width,height:r.height}};
	`, jsRef)), &rectRaw)); err != nil {
		return nil, err
	}
	val, ok, errMsg := extractEnvelope(rectRaw)
	if !ok {
		return nil, fmt.Errorf("%s", errMsg)
	}
	rm, _ := val.(map[string]any)
	x, _ := rm["x"].(float64)
	y, _ := rm["y"].(float64)
	w, _ := rm["width"].(float64)
	h, _ := rm["height"].(float64)

	runErr := chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		shot, err := page.CaptureScreenshot().WithClip(&page.Viewport{
			X: x, Y: y, Width: w, Height: h, Scale: 1,
		}).Do(ctx)
		if err != nil {
			return err
		}
		buf = shot
		return nil
	}))
	return buf, runErr
}

func (b *ChromeBackend) PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error) {
	var buf []byte
	err := chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		params := page.PrintToPDF().
			WithPrintBackground(opts.Background).
			WithMarginTop(opts.MarginTop).
			WithMarginBottom(opts.MarginBottom).
			WithMarginLeft(opts.MarginLeft).
			WithMarginRight(opts.MarginRight)
		if opts.Scale > 0 {
			params = params.WithScale(opts.Scale)
		}
		if opts.PageWidth > 0 {
			params = params.WithPaperWidth(opts.PageWidth)
		}
		if opts.PageHeight > 0 {
			params = params.WithPaperHeight(opts.PageHeight)
		}
		if len(opts.PageRanges) > 0 {
			params = params.WithPageRanges(joinPageRanges(opts.PageRanges))
		}
		params = params.WithLandscape(opts.Orientation == "landscape")
		data, _, err := params.Do(ctx)
		if err != nil {
			return err
		}
		buf = data
		return nil
	}))
	return buf, err
}

func joinPageRanges(ranges []string) string {
	out := ""
	for i, r := range ranges {
		if i > 0 {
			out += ","
		}
		out += r
	}
	return out
}

func (b *ChromeBackend) DispatchKey(ctx context.Context, key string, down bool) error {
	typ := input.KeyDown
	if !down {
		typ = input.KeyUp
	}
	return chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchKeyEvent(typ).WithKey(key).Do(ctx)
	}))
}

func (b *ChromeBackend) DispatchPointer(ctx context.Context, kind PointerEventType, x, y int, button int) error {
	var typ input.MouseType
	switch kind {
	case PointerDown:
		typ = input.MousePressed
	case PointerUp:
		typ = input.MouseReleased
	default:
		typ = input.MouseMoved
	}
	btn := input.Left
	switch button {
	case 1:
		btn = input.Middle
	case 2:
		btn = input.Right
	}
	return chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(typ, float64(x), float64(y)).WithButton(btn).WithClickCount(1).Do(ctx)
	}))
}

func (b *ChromeBackend) DispatchScroll(ctx context.Context, x, y, dx, dy int) error {
	return chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseWheel, float64(x), float64(y)).
			WithDeltaX(float64(dx)).WithDeltaY(float64(dy)).Do(ctx)
	}))
}

func (b *ChromeBackend) SetFileInputFiles(ctx context.Context, jsRef string, paths []string) error {
	return chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		var result any
		if err := chromedp.Evaluate(fmt.Sprintf(`
			(function(){ return window.%s ? true : false; })()
		`, jsRef), &result).Do(ctx); err != nil {
			return err
		}
		if ok, _ := result.(bool); !ok {
			return fmt.Errorf("stale element reference")
		}
		res, exceptionDetails, err := runtime.CallFunctionOn(fmt.Sprintf("function(){ return window.%s; }", jsRef)).Do(ctx)
		if err != nil {
			return err
		}
		if exceptionDetails != nil {
			return fmt.Errorf("resolve file input element: %s", exceptionDetails.Text)
		}
		if res.ObjectID == "" {
			return fmt.Errorf("no object id for file input")
		}
		node, err := dom.RequestNode(res.ObjectID).Do(ctx)
		if err != nil {
			return err
		}
		return dom.SetFileInputFiles(paths).WithNodeID(node).Do(ctx)
	}))
}

func (b *ChromeBackend) WindowRect(ctx context.Context) (WindowRect, error) {
	var rect WindowRect
	err := chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		_, bounds, err := browserWindowForTarget(ctx)
		if err != nil {
			return err
		}
		rect = WindowRect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: bounds.Height}
		return nil
	}))
	return rect, err
}

func (b *ChromeBackend) SetWindowRect(ctx context.Context, r WindowRect) (WindowRect, error) {
	err := chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		id, _, err := browserWindowForTarget(ctx)
		if err != nil {
			return err
		}
		return chromedp.FromContext(ctx).Browser.Execute(ctx, "Browser.setWindowBounds", map[string]any{
			"windowId": id,
			"bounds":   map[string]any{"left": r.X, "top": r.Y, "width": r.Width, "height": r.Height},
		}, nil)
	}))
	if err != nil {
		return WindowRect{}, err
	}
	return b.WindowRect(ctx)
}

func (b *ChromeBackend) MaximizeWindow(ctx context.Context) (WindowRect, error) {
	err := chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		return setWindowState(ctx, "maximized")
	}))
	if err != nil {
		return WindowRect{}, err
	}
	return b.WindowRect(ctx)
}

func (b *ChromeBackend) MinimizeWindow(ctx context.Context) error {
	return chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		return setWindowState(ctx, "minimized")
	}))
}

func (b *ChromeBackend) FullscreenWindow(ctx context.Context) (WindowRect, error) {
	err := chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		return setWindowState(ctx, "fullscreen")
	}))
	if err != nil {
		return WindowRect{}, err
	}
	return b.WindowRect(ctx)
}

func setWindowState(ctx context.Context, state string) error {
	id, _, err := browserWindowForTarget(ctx)
	if err != nil {
		return err
	}
	return chromedp.FromContext(ctx).Browser.Execute(ctx, "Browser.setWindowBounds", map[string]any{
		"windowId": id,
		"bounds":   map[string]any{"windowState": state},
	}, nil)
}

func browserWindowForTarget(ctx context.Context) (int64, struct{ X, Y, Width, Height int }, error) {
	var result json.RawMessage
	if err := chromedp.FromContext(ctx).Browser.Execute(ctx, "Browser.getWindowForTarget", map[string]any{}, &result); err != nil {
		return 0, struct{ X, Y, Width, Height int }{}, err
	}
	var resp struct {
		WindowID int64 `json:"windowId"`
		Bounds   struct {
			Left, Top, Width, Height int
		} `json:"bounds"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return 0, struct{ X, Y, Width, Height int }{}, err
	}
	return resp.WindowID, struct{ X, Y, Width, Height int }{resp.Bounds.Left, resp.Bounds.Top, resp.Bounds.Width, resp.Bounds.Height}, nil
}

func (b *ChromeBackend) NewWindow(ctx context.Context, typ string) (string, error) {
	newCtx, cancel := chromedp.NewContext(b.browserCtx)
	if err := chromedp.Run(newCtx, chromedp.Navigate("about:blank")); err != nil {
		cancel()
		return "", err
	}
	handle := string(chromedp.FromContext(newCtx).Target.TargetID)

	b.mu.Lock()
	if b.currentCancel != nil {
		// previous extra window, if any, is left running; only the
		// process shutdown tears down every target.
	}
	b.mu.Unlock()

	if err := b.installBindings(newCtx); err != nil {
		cancel()
		return "", err
	}
	windowRegistry.mu.Lock()
	windowRegistry.windows[handle] = windowEntry{ctx: newCtx, cancel: cancel}
	windowRegistry.mu.Unlock()
	return handle, nil
}

func (b *ChromeBackend) CloseWindow(ctx context.Context) error {
	b.mu.Lock()
	cur := b.currentCtx
	b.mu.Unlock()
	id := chromedp.FromContext(cur).Target.TargetID
	return chromedp.Run(b.browserCtx, target.CloseTarget(id))
}

func (b *ChromeBackend) SwitchToWindow(ctx context.Context, handle string) error {
	if handle == string(chromedp.FromContext(b.ctx()).Target.TargetID) {
		return nil
	}
	windowRegistry.mu.Lock()
	entry, ok := windowRegistry.windows[handle]
	windowRegistry.mu.Unlock()
	if !ok {
		return fmt.Errorf("no such window")
	}
	b.mu.Lock()
	b.currentCtx = entry.ctx
	b.mu.Unlock()
	return nil
}

func (b *ChromeBackend) WindowHandles(ctx context.Context) ([]string, error) {
	var infos []*target.Info
	err := chromedp.Run(b.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		infos, err = target.GetTargets().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	handles := make([]string, 0, len(infos))
	for _, t := range infos {
		if t.Type == "page" {
			handles = append(handles, string(t.TargetID))
		}
	}
	return handles, nil
}

func (b *ChromeBackend) CurrentWindowHandle(ctx context.Context) (string, error) {
	return string(chromedp.FromContext(b.ctx()).Target.TargetID), nil
}

func (b *ChromeBackend) AllCookies(ctx context.Context) ([]Cookie, error) {
	var cookies []Cookie
	err := chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		raw, err := network.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range raw {
			cookies = append(cookies, toCookie(c))
		}
		return nil
	}))
	return cookies, err
}

func toCookie(c *network.Cookie) Cookie {
	var expiry *int64
	if c.Expires > 0 {
		e := int64(c.Expires)
		expiry = &e
	}
	var sameSite *string
	if c.SameSite != "" {
		s := string(c.SameSite)
		sameSite = &s
	}
	return Cookie{
		Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain,
		Secure: c.Secure, HTTPOnly: c.HTTPOnly, Expiry: expiry, SameSite: sameSite,
	}
}

func (b *ChromeBackend) AddCookie(ctx context.Context, c Cookie) error {
	return chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		var curURL string
		if err := chromedp.Location(&curURL).Do(ctx); err != nil {
			return err
		}
		p := network.SetCookie(c.Name, c.Value).WithURL(curURL).WithSecure(c.Secure).WithHTTPOnly(c.HTTPOnly)
		if c.Path != "" {
			p = p.WithPath(c.Path)
		}
		if c.Domain != "" {
			p = p.WithDomain(c.Domain)
		}
		if c.Expiry != nil {
			expires := cdp.TimeSinceEpoch(time.Unix(*c.Expiry, 0))
			p = p.WithExpires(&expires)
		}
		if err := p.Do(ctx); err != nil {
			return err
		}
		return nil
	}))
}

func (b *ChromeBackend) DeleteCookie(ctx context.Context, name string) error {
	return chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		var curURL string
		if err := chromedp.Location(&curURL).Do(ctx); err != nil {
			return err
		}
		return network.DeleteCookies(name).WithURL(curURL).Do(ctx)
	}))
}

func (b *ChromeBackend) DeleteAllCookies(ctx context.Context) error {
	return chromedp.Run(b.ctx(), chromedp.ActionFunc(func(ctx context.Context) error {
		return network.ClearBrowserCookies().Do(ctx)
	}))
}

func (b *ChromeBackend) ViewportSize(ctx context.Context) (int, int, error) {
	var result any
	err := chromedp.Run(b.ctx(), chromedp.Evaluate(`({w: window.innerWidth, h: window.innerHeight})`, &result))
	if err != nil {
		return 0, 0, err
	}
	m, _ := result.(map[string]any)
	w, _ := m["w"].(float64)
	h, _ := m["h"].(float64)
	return int(w), int(h), nil
}

// Close tears down the allocator and every CDP target it owns.
func (b *ChromeBackend) Close(ctx context.Context) error {
	markCleanExit(b.profileDir)
	b.allocCancel()
	return nil
}

// markCleanExit patches the profile's Preferences file so relaunching
// against the same profile dir doesn't show "Chrome didn't shut down
// correctly". Called from Close so the patch reflects this run's exit
// rather than a stale crash from before it; a no-op when dir is empty (no
// persistent profile in use).
func markCleanExit(dir string) {
	if dir == "" {
		return
	}
	prefsPath := filepath.Join(dir, "Default", "Preferences")
	data, err := os.ReadFile(prefsPath)
	if err != nil {
		return
	}
	patched := strings.ReplaceAll(string(data), `"exit_type":"Crashed"`, `"exit_type":"Normal"`)
	patched = strings.ReplaceAll(patched, `"exited_cleanly":false`, `"exited_cleanly":true`)
	if patched != string(data) {
		if err := os.WriteFile(prefsPath, []byte(patched), 0644); err != nil {
			slog.Warn("failed to patch chrome preferences", "err", err)
		}
	}
}

type windowEntry struct {
	ctx    context.Context
	cancel context.CancelFunc
}

var windowRegistry = struct {
	mu      sync.Mutex
	windows map[string]windowEntry
}{windows: map[string]windowEntry{}}

package main

import (
	"context"
	"sync"
)

// fakeBackend is a hand-written Backend test double, grounded on the
// teacher's newTestBridge pattern (handler_test.go): a bare-bones stand-in
// that lets handler tests exercise the dispatcher/envelope/registry without
// a real Chrome instance. Script evaluation results are driven by a FIFO
// queue the test pre-loads, one entry per evalEnvelope/EvaluateSync call the
// exercised handler is expected to make.
type fakeBackend struct {
	mu sync.Mutex

	evalQueue []fakeEval
	navigateErr error

	url, title, source string
	handles            []string
	currentHandle      string

	cookies []Cookie

	onAlert AlertDialogHandler

	// asyncHandler, when set, is invoked (in its own goroutine) for every
	// EvaluateAsync call and its return value delivered via done. Leaving it
	// nil simulates a page that never calls back, exercising the script
	// timeout path.
	asyncHandler func() (value any, errMsg string)
}

type fakeEval struct {
	value any
	err   error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		url:           "about:blank",
		title:         "",
		handles:       []string{"win-1"},
		currentHandle: "win-1",
	}
}

// queueEval appends one canned EvaluateSync result.
func (b *fakeBackend) queueEval(value any, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.evalQueue = append(b.evalQueue, fakeEval{value: value, err: err})
}

func (b *fakeBackend) EvaluateSync(ctx context.Context, script string, args []any) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.evalQueue) == 0 {
		return nil, nil
	}
	next := b.evalQueue[0]
	b.evalQueue = b.evalQueue[1:]
	return next.value, next.err
}

func (b *fakeBackend) EvaluateAsync(ctx context.Context, script string, args []any, asyncID string, done func(value any, errMsg string)) error {
	b.mu.Lock()
	fn := b.asyncHandler
	b.mu.Unlock()
	if fn == nil {
		return nil
	}
	go func() {
		v, errMsg := fn()
		done(v, errMsg)
	}()
	return nil
}

func (b *fakeBackend) Navigate(ctx context.Context, url string) error {
	if b.navigateErr != nil {
		return b.navigateErr
	}
	b.url = url
	return nil
}
func (b *fakeBackend) CurrentURL(ctx context.Context) (string, error) { return b.url, nil }
func (b *fakeBackend) Title(ctx context.Context) (string, error)     { return b.title, nil }
func (b *fakeBackend) Back(ctx context.Context) error                { return nil }
func (b *fakeBackend) Forward(ctx context.Context) error             { return nil }
func (b *fakeBackend) Refresh(ctx context.Context) error             { return nil }
func (b *fakeBackend) PageSource(ctx context.Context) (string, error) {
	return b.source, nil
}

func (b *fakeBackend) Screenshot(ctx context.Context) ([]byte, error) { return []byte("png-bytes"), nil }
func (b *fakeBackend) ElementScreenshot(ctx context.Context, jsRef string) ([]byte, error) {
	return []byte("element-png"), nil
}
func (b *fakeBackend) PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error) {
	return []byte("pdf-bytes"), nil
}

func (b *fakeBackend) DispatchKey(ctx context.Context, key string, down bool) error { return nil }
func (b *fakeBackend) DispatchPointer(ctx context.Context, kind PointerEventType, x, y int, button int) error {
	return nil
}
func (b *fakeBackend) DispatchScroll(ctx context.Context, x, y, dx, dy int) error { return nil }
func (b *fakeBackend) SetFileInputFiles(ctx context.Context, jsRef string, paths []string) error {
	return nil
}

func (b *fakeBackend) WindowRect(ctx context.Context) (WindowRect, error) {
	return WindowRect{Width: 800, Height: 600}, nil
}
func (b *fakeBackend) SetWindowRect(ctx context.Context, r WindowRect) (WindowRect, error) {
	return r, nil
}
func (b *fakeBackend) MaximizeWindow(ctx context.Context) (WindowRect, error) {
	return WindowRect{Width: 1280, Height: 1024}, nil
}
func (b *fakeBackend) MinimizeWindow(ctx context.Context) error { return nil }
func (b *fakeBackend) FullscreenWindow(ctx context.Context) (WindowRect, error) {
	return WindowRect{Width: 1920, Height: 1080}, nil
}
func (b *fakeBackend) NewWindow(ctx context.Context, typ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	handle := "win-" + typ
	b.handles = append(b.handles, handle)
	return handle, nil
}
func (b *fakeBackend) CloseWindow(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, h := range b.handles {
		if h == b.currentHandle {
			b.handles = append(b.handles[:i], b.handles[i+1:]...)
			break
		}
	}
	return nil
}
func (b *fakeBackend) SwitchToWindow(ctx context.Context, handle string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.handles {
		if h == handle {
			b.currentHandle = handle
			return nil
		}
	}
	return errNoSuchWindowFake
}
func (b *fakeBackend) WindowHandles(ctx context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.handles...), nil
}
func (b *fakeBackend) CurrentWindowHandle(ctx context.Context) (string, error) {
	return b.currentHandle, nil
}

func (b *fakeBackend) AllCookies(ctx context.Context) ([]Cookie, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Cookie{}, b.cookies...), nil
}
func (b *fakeBackend) AddCookie(ctx context.Context, c Cookie) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cookies = append(b.cookies, c)
	return nil
}
func (b *fakeBackend) DeleteCookie(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.cookies[:0]
	for _, c := range b.cookies {
		if c.Name != name {
			out = append(out, c)
		}
	}
	b.cookies = out
	return nil
}
func (b *fakeBackend) DeleteAllCookies(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cookies = nil
	return nil
}

func (b *fakeBackend) InstallAlertHandler(ctx context.Context, onDialog AlertDialogHandler) error {
	b.onAlert = onDialog
	return nil
}

func (b *fakeBackend) ViewportSize(ctx context.Context) (int, int, error) { return 1280, 800, nil }

func (b *fakeBackend) Close(ctx context.Context) error { return nil }

type fakeBackendError string

func (e fakeBackendError) Error() string { return string(e) }

const errNoSuchWindowFake = fakeBackendError("no such window")

package main

import "context"

// PointerEventType distinguishes the three synthetic pointer/touch events
// the Actions API needs to dispatch.
type PointerEventType string

const (
	PointerDown PointerEventType = "down"
	PointerUp   PointerEventType = "up"
	PointerMove PointerEventType = "move"
)

// Cookie mirrors the W3C cookie shape.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Path     string  `json:"path"`
	Domain   string  `json:"domain"`
	Secure   bool    `json:"secure"`
	HTTPOnly bool    `json:"httpOnly"`
	Expiry   *int64  `json:"expiry,omitempty"`
	SameSite *string `json:"sameSite,omitempty"`
}

// WindowRect is a top-level browsing context's position and size.
type WindowRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ElementRect is an in-viewport element's position and size, in CSS pixels.
type ElementRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PrintOptions mirrors the W3C print-to-PDF parameters.
type PrintOptions struct {
	Orientation   string   `json:"orientation,omitempty"`
	Scale         float64  `json:"scale,omitempty"`
	Background    bool     `json:"background,omitempty"`
	PageWidth     float64  `json:"pageWidth,omitempty"`
	PageHeight    float64  `json:"pageHeight,omitempty"`
	MarginTop     float64  `json:"marginTop,omitempty"`
	MarginBottom  float64  `json:"marginBottom,omitempty"`
	MarginLeft    float64  `json:"marginLeft,omitempty"`
	MarginRight   float64  `json:"marginRight,omitempty"`
	ShrinkToFit   bool     `json:"shrinkToFit,omitempty"`
	PageRanges    []string `json:"pageRanges,omitempty"`
}

// AlertDialogHandler is invoked once per opened dialog; respond must be
// called exactly once, with accept=false meaning dismiss.
type AlertDialogHandler func(kind AlertKind, message, defaultText string, respond func(accept bool, text string))

// Backend is the capability set every host WebView adapter must implement.
// ChromeBackend is the shipped implementation, built on chromedp/CDP; the
// interface exists so a future native-host adapter (WKWebView, WebView2,
// WebKitGTK, Android WebView) could stand in without touching the rest of
// the server. Every method may fail with a transport-level error, which
// callers wrap as ErrBackendUnavailable unless it's already typed.
type Backend interface {
	EvaluateSync(ctx context.Context, script string, args []any) (any, error)
	EvaluateAsync(ctx context.Context, script string, args []any, asyncID string, done func(value any, errMsg string)) error

	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Refresh(ctx context.Context) error
	PageSource(ctx context.Context) (string, error)

	Screenshot(ctx context.Context) ([]byte, error)
	ElementScreenshot(ctx context.Context, jsRef string) ([]byte, error)
	PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error)

	DispatchKey(ctx context.Context, key string, down bool) error
	DispatchPointer(ctx context.Context, kind PointerEventType, x, y int, button int) error
	DispatchScroll(ctx context.Context, x, y, dx, dy int) error
	SetFileInputFiles(ctx context.Context, jsRef string, paths []string) error

	WindowRect(ctx context.Context) (WindowRect, error)
	SetWindowRect(ctx context.Context, r WindowRect) (WindowRect, error)
	MaximizeWindow(ctx context.Context) (WindowRect, error)
	MinimizeWindow(ctx context.Context) error
	FullscreenWindow(ctx context.Context) (WindowRect, error)
	NewWindow(ctx context.Context, typ string) (handle string, err error)
	CloseWindow(ctx context.Context) error
	SwitchToWindow(ctx context.Context, handle string) error
	WindowHandles(ctx context.Context) ([]string, error)
	CurrentWindowHandle(ctx context.Context) (string, error)

	AllCookies(ctx context.Context) ([]Cookie, error)
	AddCookie(ctx context.Context, c Cookie) error
	DeleteCookie(ctx context.Context, name string) error
	DeleteAllCookies(ctx context.Context) error

	InstallAlertHandler(ctx context.Context, onDialog AlertDialogHandler) error

	ViewportSize(ctx context.Context) (w, h int, err error)

	Close(ctx context.Context) error
}

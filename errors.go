package main

import (
	"fmt"
	"net/http"
)

// ErrorKind is the internal WebDriver error taxonomy (spec §7).
type ErrorKind string

const (
	KindInvalidSessionID    ErrorKind = "invalid session id"
	KindNoSuchElement       ErrorKind = "no such element"
	KindNoSuchFrame         ErrorKind = "no such frame"
	KindNoSuchWindow        ErrorKind = "no such window"
	KindNoSuchShadowRoot    ErrorKind = "no such shadow root"
	KindNoSuchAlert         ErrorKind = "no such alert"
	KindStaleElement        ErrorKind = "stale element reference"
	KindNotInteractable     ErrorKind = "element not interactable"
	KindClickIntercepted    ErrorKind = "element click intercepted"
	KindInvalidArgument     ErrorKind = "invalid argument"
	KindInvalidSelector     ErrorKind = "invalid selector"
	KindJavascriptError     ErrorKind = "javascript error"
	KindScriptTimeout       ErrorKind = "script timeout"
	KindTimeout             ErrorKind = "timeout"
	KindUnexpectedAlertOpen ErrorKind = "unexpected alert open"
	KindUnknownError        ErrorKind = "unknown error"
	KindUnknownCommand      ErrorKind = "unknown command"
	KindSessionNotCreated   ErrorKind = "session not created"
	KindUnsupportedOp       ErrorKind = "unsupported operation"
)

var httpStatusByKind = map[ErrorKind]int{
	KindInvalidSessionID:    http.StatusNotFound,
	KindNoSuchElement:       http.StatusNotFound,
	KindNoSuchFrame:         http.StatusNotFound,
	KindNoSuchWindow:        http.StatusNotFound,
	KindNoSuchShadowRoot:    http.StatusNotFound,
	KindNoSuchAlert:         http.StatusNotFound,
	KindStaleElement:        http.StatusNotFound,
	KindNotInteractable:     http.StatusBadRequest,
	KindClickIntercepted:    http.StatusBadRequest,
	KindInvalidArgument:     http.StatusBadRequest,
	KindInvalidSelector:     http.StatusBadRequest,
	KindJavascriptError:     http.StatusInternalServerError,
	KindScriptTimeout:       http.StatusInternalServerError,
	KindTimeout:             http.StatusInternalServerError,
	KindUnexpectedAlertOpen: http.StatusInternalServerError,
	KindUnknownError:        http.StatusInternalServerError,
	KindUnknownCommand:      http.StatusNotFound,
	KindSessionNotCreated:   http.StatusInternalServerError,
	KindUnsupportedOp:       http.StatusInternalServerError,
}

// WebDriverError is the single error type every handler returns.
type WebDriverError struct {
	Kind       ErrorKind
	Message    string
	Stacktrace string
	Data       any
}

func (e *WebDriverError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *WebDriverError) HTTPStatus() int {
	if s, ok := httpStatusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func newErr(kind ErrorKind, format string, args ...any) *WebDriverError {
	return &WebDriverError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ErrInvalidSessionID(id string) *WebDriverError {
	return newErr(KindInvalidSessionID, "session %q not found", id)
}

func ErrNoSuchElement() *WebDriverError {
	return newErr(KindNoSuchElement, "unable to locate element")
}

func ErrNoSuchFrame() *WebDriverError {
	return newErr(KindNoSuchFrame, "no such frame")
}

func ErrNoSuchWindow() *WebDriverError {
	return newErr(KindNoSuchWindow, "no window could be found")
}

func ErrNoSuchShadowRoot() *WebDriverError {
	return newErr(KindNoSuchShadowRoot, "no shadow root attached")
}

func ErrNoSuchAlert() *WebDriverError {
	return newErr(KindNoSuchAlert, "no such alert open")
}

func ErrStale() *WebDriverError {
	return newErr(KindStaleElement, "element is no longer attached to the DOM")
}

func ErrNotInteractable(why string) *WebDriverError {
	return newErr(KindNotInteractable, "%s", why)
}

func ErrClickIntercepted(why string) *WebDriverError {
	return newErr(KindClickIntercepted, "%s", why)
}

func ErrInvalidArgument(format string, args ...any) *WebDriverError {
	return newErr(KindInvalidArgument, format, args...)
}

func ErrInvalidSelector(strategy string) *WebDriverError {
	return newErr(KindInvalidSelector, "unsupported locator strategy %q", strategy)
}

func ErrJavascriptError(message string) *WebDriverError {
	return newErr(KindJavascriptError, "%s", message)
}

func ErrScriptTimeout() *WebDriverError {
	return newErr(KindScriptTimeout, "script timed out")
}

func ErrPageLoadTimeout() *WebDriverError {
	return newErr(KindTimeout, "timed out waiting for page load")
}

func ErrUnexpectedAlertOpen(message string) *WebDriverError {
	return newErr(KindUnexpectedAlertOpen, "unexpected alert open: %s", message)
}

func ErrUnknown(cause error) *WebDriverError {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return newErr(KindUnknownError, "%s", msg)
}

func ErrUnknownCommand(method, path string) *WebDriverError {
	return newErr(KindUnknownCommand, "unknown command: %s %s", method, path)
}

func ErrSessionNotCreated(why string) *WebDriverError {
	return newErr(KindSessionNotCreated, "%s", why)
}

func ErrUnsupportedOperation(why string) *WebDriverError {
	return newErr(KindUnsupportedOp, "%s", why)
}

// ErrBackendUnavailable wraps any failure from the Backend into "unknown error",
// per spec §4.A ("every operation may fail with BackendUnavailable, which E maps
// to unknown error").
func ErrBackendUnavailable(cause error) *WebDriverError {
	return ErrUnknown(cause)
}

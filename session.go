package main

import (
	"sync"

	"github.com/google/uuid"
)

const (
	defaultImplicitMs = int64(0)
	defaultPageLoadMs = int64(300_000)
	defaultScriptMs   = int64(30_000)
)

// Timeouts holds the three WebDriver timeout knobs. ScriptMs is a pointer
// because the W3C spec lets a client disable the script timeout entirely by
// setting it to null.
type Timeouts struct {
	ImplicitMs int64  `json:"implicit"`
	PageLoadMs int64  `json:"pageLoad"`
	ScriptMs   *int64 `json:"script"`
}

func defaultTimeouts() Timeouts {
	script := defaultScriptMs
	return Timeouts{
		ImplicitMs: defaultImplicitMs,
		PageLoadMs: defaultPageLoadMs,
		ScriptMs:   &script,
	}
}

// PointerState tracks the Actions API's synthetic pointer device between calls.
type PointerState struct {
	X, Y    int
	Buttons map[int]bool
}

// KeyState tracks currently held modifier keys for the Actions API.
type KeyState struct {
	Shift, Control, Alt, Meta bool
}

// Session is one WebDriver session: exactly one browsing context, backed by
// the shared Backend, with its own element registry, timeouts, and input state.
type Session struct {
	ID           string
	Timeouts     Timeouts
	Capabilities map[string]any
	Registry     *ElementRegistry
	Pointer      PointerState
	Keys         KeyState

	Alerts *AlertState
	Async  *AsyncScriptCoordinator

	// mu guards CurrentWindow and FrameChain, mutated by window/frame
	// switch commands and read by every script-evaluating handler.
	mu           sync.Mutex
	CurrentWindow string
	// FrameChain holds one JS expression hop per nested switchToFrame call,
	// e.g. "frames[0]" or "__wd_el_3.contentWindow"; empty means top-level.
	FrameChain []string

	// backendLock serializes every Backend call issued on behalf of this
	// session, mirroring the single UI-thread lane a real WebView host
	// enforces: a command is not dispatched until the previous one against
	// this session has returned or timed out.
	backendLock sync.Mutex
}

// FrameContextExpr builds the JS expression that resolves to the current
// browsing context's window object, per the frame chain maintained by
// switchToFrame/switchToParentFrame. Rooted at globalThis rather than
// "window": the expression is spliced into a function that locally shadows
// the "window" identifier with `var window = (<this expression>)`, and due
// to var-hoisting that shadow is in scope for the whole function body,
// including the initializer: referencing "window" there would resolve to
// the not-yet-assigned local, not the real global. globalThis has no such
// collision. Empty chain means the real global (top level).
func (s *Session) FrameContextExpr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.FrameChain) == 0 {
		return ""
	}
	expr := "globalThis"
	for _, hop := range s.FrameChain {
		expr += "." + hop
	}
	return expr
}

// PushFrame appends a frame hop (descending into a child frame) and bumps
// the registry epoch, invalidating every handle minted in the old context.
func (s *Session) PushFrame(hop string) {
	s.mu.Lock()
	s.FrameChain = append(s.FrameChain, hop)
	s.mu.Unlock()
	s.Registry.BumpEpoch()
}

// PopFrame pops one frame hop (switchToParentFrame) and bumps the epoch.
// Popping past the top level is a no-op, matching WebDriver's "switching to
// the parent of the top-level context is a no-op" behavior.
func (s *Session) PopFrame() {
	s.mu.Lock()
	if len(s.FrameChain) > 0 {
		s.FrameChain = s.FrameChain[:len(s.FrameChain)-1]
	}
	s.mu.Unlock()
	s.Registry.BumpEpoch()
}

// ResetFrame returns to the top-level browsing context (switchToFrame null).
func (s *Session) ResetFrame() {
	s.mu.Lock()
	hadFrames := len(s.FrameChain) > 0
	s.FrameChain = nil
	s.mu.Unlock()
	if hadFrames {
		s.Registry.BumpEpoch()
	}
}

// SetCurrentWindow records the active window handle and resets frame/element
// context, since switching windows always lands on that window's top level.
func (s *Session) SetCurrentWindow(handle string) {
	s.mu.Lock()
	s.CurrentWindow = handle
	s.FrameChain = nil
	s.mu.Unlock()
	s.Registry.BumpEpoch()
}

func (s *Session) GetCurrentWindow() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CurrentWindow
}

func newSession(caps map[string]any, timeouts Timeouts) *Session {
	if caps == nil {
		caps = map[string]any{}
	}
	return &Session{
		ID:           uuid.NewString(),
		Timeouts:     timeouts,
		Capabilities: caps,
		Registry:     newElementRegistry(),
		Pointer:      PointerState{Buttons: map[int]bool{}},
		Alerts:       newAlertState(),
		Async:        newAsyncScriptCoordinator(),
	}
}

// SessionManager holds at most one active session, per the single-WebView
// baseline: a second concurrent create is rejected rather than multiplexed.
type SessionManager struct {
	mu              sync.Mutex
	session         *Session
	defaultTimeouts Timeouts
}

func newSessionManager(defaultTimeouts Timeouts) *SessionManager {
	return &SessionManager{defaultTimeouts: defaultTimeouts}
}

func (m *SessionManager) Create(caps map[string]any) (*Session, *WebDriverError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		return nil, ErrSessionNotCreated("a session is already active; this backend does not support multiplexed sessions")
	}
	s := newSession(caps, m.defaultTimeouts)
	m.session = s
	return s, nil
}

func (m *SessionManager) Get(id string) (*Session, *WebDriverError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.ID != id {
		return nil, ErrInvalidSessionID(id)
	}
	return m.session, nil
}

// Delete removes the session, draining its pending async scripts and
// dismissing any open alert first. Cookies are intentionally left alone;
// clearing them is the client's job, not session teardown's.
func (m *SessionManager) Delete(id string) *WebDriverError {
	m.mu.Lock()
	s := m.session
	if s == nil || s.ID != id {
		m.mu.Unlock()
		return ErrInvalidSessionID(id)
	}
	m.session = nil
	m.mu.Unlock()

	s.Async.CancelAll("session deleted")
	s.Alerts.DismissForTeardown()
	return nil
}

// Active returns the current session without requiring its id, used by the
// shutdown path in main.go to drain whatever session exists.
func (m *SessionManager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

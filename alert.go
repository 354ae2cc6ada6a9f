package main

import "sync"

// AlertKind identifies which JS dialog type is pending.
type AlertKind string

const (
	AlertKindAlert   AlertKind = "alert"
	AlertKindConfirm AlertKind = "confirm"
	AlertKindPrompt  AlertKind = "prompt"
)

// pendingAlert is the single in-flight dialog: a rendezvous between the
// host's dialog callback and whichever client command (accept/dismiss)
// eventually resolves it.
type pendingAlert struct {
	kind        AlertKind
	message     string
	defaultText string
	promptInput *string
	respond     func(accept bool, text string)
}

// AlertState is a single-slot rendezvous channel for the page's modal
// dialogs: at most one alert exists at a time, and the host's completion
// callback must not be invoked while holding the state's mutex.
type AlertState struct {
	mu      sync.Mutex
	pending *pendingAlert
}

func newAlertState() *AlertState {
	return &AlertState{}
}

// SetPending records a freshly-opened dialog, replacing any stale
// prompt-text entry. Called from the Backend's dialog callback.
func (a *AlertState) SetPending(kind AlertKind, message, defaultText string, respond func(accept bool, text string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = &pendingAlert{kind: kind, message: message, defaultText: defaultText, respond: respond}
}

func (a *AlertState) hasPending() (*pendingAlert, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending, a.pending != nil
}

// Message returns the pending dialog's message, or "no such alert".
func (a *AlertState) Message() (string, *WebDriverError) {
	p, ok := a.hasPending()
	if !ok {
		return "", ErrNoSuchAlert()
	}
	return p.message, nil
}

// SetPromptInput stores client-supplied text to use in place of the
// dialog's default when it is accepted. Only valid while a prompt (not an
// alert/confirm) is pending.
func (a *AlertState) SetPromptInput(text string) *WebDriverError {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return ErrNoSuchAlert()
	}
	if a.pending.kind != AlertKindPrompt {
		return ErrNotInteractable("send alert text is only valid on a prompt dialog")
	}
	a.pending.promptInput = &text
	return nil
}

// Resolve accepts or dismisses the pending dialog. The continuation is
// invoked after the lock is released, per the "don't hold the mutex across
// the dialog continuation" design note.
func (a *AlertState) Resolve(accept bool) *WebDriverError {
	a.mu.Lock()
	p := a.pending
	if p == nil {
		a.mu.Unlock()
		return ErrNoSuchAlert()
	}
	a.pending = nil
	a.mu.Unlock()

	text := p.defaultText
	if p.promptInput != nil {
		text = *p.promptInput
	}
	if p.respond != nil {
		p.respond(accept, text)
	}
	return nil
}

// DismissForTeardown silently dismisses any pending alert when its session
// is deleted, without requiring a client round-trip.
func (a *AlertState) DismissForTeardown() {
	a.mu.Lock()
	p := a.pending
	a.pending = nil
	a.mu.Unlock()
	if p != nil && p.respond != nil {
		p.respond(false, "")
	}
}

// IsOpen reports whether a dialog is currently pending, used by the
// dispatcher's unhandledPromptBehavior precondition check.
func (a *AlertState) IsOpen() bool {
	_, ok := a.hasPending()
	return ok
}

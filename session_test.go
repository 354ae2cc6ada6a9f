package main

import "testing"

func TestSessionManagerCreateAndGet(t *testing.T) {
	m := newSessionManager(defaultTimeouts())
	s, err := m.Create(map[string]any{"browserName": "pinchtab"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected a non-empty session id")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != s {
		t.Error("expected Get to return the same session")
	}
}

func TestSessionManagerRejectsSecondConcurrentSession(t *testing.T) {
	m := newSessionManager(defaultTimeouts())
	if _, err := m.Create(map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := m.Create(map[string]any{})
	if err == nil || err.Kind != KindSessionNotCreated {
		t.Fatalf("expected session not created, got %v", err)
	}
}

func TestSessionManagerGetUnknownID(t *testing.T) {
	m := newSessionManager(defaultTimeouts())
	_, err := m.Get("nope")
	if err == nil || err.Kind != KindInvalidSessionID {
		t.Fatalf("expected invalid session id, got %v", err)
	}
}

func TestSessionManagerDeleteIsIdempotent(t *testing.T) {
	m := newSessionManager(defaultTimeouts())
	s, _ := m.Create(map[string]any{})

	if err := m.Delete(s.ID); err != nil {
		t.Fatalf("unexpected error on first delete: %v", err)
	}
	err := m.Delete(s.ID)
	if err == nil || err.Kind != KindInvalidSessionID {
		t.Fatalf("expected invalid session id on second delete, got %v", err)
	}
}

func TestSessionManagerDeleteDrainsAsyncAndAlert(t *testing.T) {
	m := newSessionManager(defaultTimeouts())
	s, _ := m.Create(map[string]any{})

	ch := s.Async.Register("pending-1")
	var dialogDismissed bool
	s.Alerts.SetPending(AlertKindAlert, "leak check", "", func(accept bool, text string) {
		dialogDismissed = !accept
	})

	if err := m.Delete(s.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := <-ch
	if res.err != "session deleted" {
		t.Errorf("expected session deleted, got %q", res.err)
	}
	if !dialogDismissed {
		t.Error("expected the pending alert to be dismissed on session delete")
	}
}

func TestSessionFrameSwitchBumpsEpoch(t *testing.T) {
	s := newSession(nil, defaultTimeouts())
	ref := s.Registry.Mint(KindElement)

	s.PushFrame("frames[0]")
	if _, err := s.Registry.Resolve(ref.Handle); err == nil || err.Kind != KindStaleElement {
		t.Fatalf("expected handle minted before the frame switch to go stale, got %v", err)
	}
	if got := s.FrameContextExpr(); got != "globalThis.frames[0]" {
		t.Errorf("unexpected frame context expr: %q", got)
	}
}

func TestSessionPopFrameAtTopLevelIsNoop(t *testing.T) {
	s := newSession(nil, defaultTimeouts())
	s.PopFrame()
	if got := s.FrameContextExpr(); got != "" {
		t.Errorf("expected top-level frame context, got %q", got)
	}
}

func TestSessionSetCurrentWindowResetsFrameContext(t *testing.T) {
	s := newSession(nil, defaultTimeouts())
	s.PushFrame("frames[0]")
	s.SetCurrentWindow("win-2")
	if got := s.FrameContextExpr(); got != "" {
		t.Errorf("expected switching windows to reset frame context, got %q", got)
	}
	if s.GetCurrentWindow() != "win-2" {
		t.Errorf("expected current window win-2, got %q", s.GetCurrentWindow())
	}
}

func TestDefaultTimeoutsMatchSpec(t *testing.T) {
	tt := defaultTimeouts()
	if tt.ImplicitMs != 0 {
		t.Errorf("expected implicit=0, got %d", tt.ImplicitMs)
	}
	if tt.PageLoadMs != 300_000 {
		t.Errorf("expected pageLoad=300000, got %d", tt.PageLoadMs)
	}
	if tt.ScriptMs == nil || *tt.ScriptMs != 30_000 {
		t.Errorf("expected script=30000, got %v", tt.ScriptMs)
	}
}

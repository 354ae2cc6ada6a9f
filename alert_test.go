package main

import "testing"

func TestAlertStateNoPendingIsNoSuchAlert(t *testing.T) {
	a := newAlertState()
	if _, err := a.Message(); err == nil || err.Kind != KindNoSuchAlert {
		t.Fatalf("expected no such alert, got %v", err)
	}
	if err := a.Resolve(true); err == nil || err.Kind != KindNoSuchAlert {
		t.Fatalf("expected no such alert on accept, got %v", err)
	}
}

func TestAlertStateAcceptResolvesWithDefaultText(t *testing.T) {
	a := newAlertState()
	var gotAccept bool
	var gotText string
	a.SetPending(AlertKindPrompt, "Please enter your name:", "Default Value", func(accept bool, text string) {
		gotAccept, gotText = accept, text
	})

	msg, err := a.Message()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Please enter your name:" {
		t.Errorf("unexpected message: %q", msg)
	}

	if err := a.Resolve(true); err != nil {
		t.Fatalf("unexpected error resolving: %v", err)
	}
	if !gotAccept {
		t.Error("expected accept=true")
	}
	if gotText != "Default Value" {
		t.Errorf("expected default text, got %q", gotText)
	}
	if a.IsOpen() {
		t.Error("expected alert state to be idle after resolve")
	}
}

func TestAlertStateSendTextOverridesDefault(t *testing.T) {
	a := newAlertState()
	var gotText string
	a.SetPending(AlertKindPrompt, "Please enter your name:", "Default Value", func(accept bool, text string) {
		gotText = text
	})

	if err := a.SetPromptInput("Custom Input"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Resolve(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotText != "Custom Input" {
		t.Errorf("expected Custom Input, got %q", gotText)
	}
}

func TestAlertStateSendTextOnNonPromptFails(t *testing.T) {
	a := newAlertState()
	a.SetPending(AlertKindAlert, "hi", "", func(bool, string) {})
	if err := a.SetPromptInput("whatever"); err == nil || err.Kind != KindNotInteractable {
		t.Fatalf("expected element not interactable, got %v", err)
	}
}

func TestAlertStateDismiss(t *testing.T) {
	a := newAlertState()
	var gotAccept bool
	a.SetPending(AlertKindConfirm, "sure?", "", func(accept bool, text string) { gotAccept = accept })
	if err := a.Resolve(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAccept {
		t.Error("expected accept=false on dismiss")
	}
}

func TestAlertStateAtMostOnePending(t *testing.T) {
	a := newAlertState()
	a.SetPending(AlertKindAlert, "first", "", func(bool, string) {})
	a.SetPending(AlertKindAlert, "second", "", func(bool, string) {})

	msg, err := a.Message()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "second" {
		t.Errorf("expected the newest dialog to win, got %q", msg)
	}
}

func TestAlertStateDismissForTeardown(t *testing.T) {
	a := newAlertState()
	var called bool
	a.SetPending(AlertKindAlert, "leak check", "", func(accept bool, text string) { called = true })
	a.DismissForTeardown()
	if !called {
		t.Error("expected the dialog continuation to be invoked on teardown")
	}
	if a.IsOpen() {
		t.Error("expected alert state to be idle after teardown")
	}
}

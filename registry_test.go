package main

import "testing"

func TestRegistryMintAndResolve(t *testing.T) {
	r := newElementRegistry()
	ref := r.Mint(KindElement)
	if ref.Handle == "" {
		t.Fatal("expected non-empty handle")
	}

	got, err := r.Resolve(ref.Handle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.JSRef != ref.JSRef {
		t.Errorf("expected jsref %q, got %q", ref.JSRef, got.JSRef)
	}
}

func TestRegistryResolveUnknownHandle(t *testing.T) {
	r := newElementRegistry()
	_, err := r.Resolve("does-not-exist")
	if err == nil || err.Kind != KindNoSuchElement {
		t.Fatalf("expected no such element, got %v", err)
	}
}

func TestRegistryStaleAfterEpochBump(t *testing.T) {
	r := newElementRegistry()
	ref := r.Mint(KindElement)
	r.BumpEpoch()

	_, err := r.Resolve(ref.Handle)
	if err == nil || err.Kind != KindStaleElement {
		t.Fatalf("expected stale element reference, got %v", err)
	}
}

func TestRegistryResolveKindMismatch(t *testing.T) {
	r := newElementRegistry()
	ref := r.Mint(KindShadow)

	_, err := r.ResolveKind(ref.Handle, KindElement)
	if err == nil || err.Kind != KindNoSuchElement {
		t.Fatalf("expected no such element for a shadow handle resolved as element, got %v", err)
	}

	_, err = r.ResolveKind(ref.Handle, KindShadow)
	if err != nil {
		t.Fatalf("unexpected error resolving shadow handle as shadow: %v", err)
	}
}

func TestRegistryMintNamedAndJSVarBase(t *testing.T) {
	r := newElementRegistry()
	base := r.NextJSVarBase()
	ref := r.MintNamed(KindElement, base+"_0")

	got, err := r.Resolve(ref.Handle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.JSRef != base+"_0" {
		t.Errorf("expected jsref %s_0, got %s", base, got.JSRef)
	}
}

func TestRegistryEpochIsolatesMintsAcrossBumps(t *testing.T) {
	r := newElementRegistry()
	before := r.Mint(KindElement)
	r.BumpEpoch()
	after := r.Mint(KindElement)

	if _, err := r.Resolve(before.Handle); err == nil {
		t.Error("expected pre-bump handle to be stale")
	}
	if _, err := r.Resolve(after.Handle); err != nil {
		t.Errorf("expected post-bump handle to resolve, got %v", err)
	}
}

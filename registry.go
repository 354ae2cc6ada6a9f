package main

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// RefKind distinguishes the reference namespaces so the protocol envelope
// can tag outgoing values with the right W3C magic key.
type RefKind int

const (
	KindElement RefKind = iota
	KindShadow
	KindFrame
	KindWindow
)

// Ref is a minted, opaque handle plus enough metadata to detect staleness:
// a handle is only valid while its epoch matches the registry's current one.
type Ref struct {
	Handle string
	JSRef  string
	Kind   RefKind
	Epoch  int
}

// ElementRegistry mirrors the injected script library's WeakMap-backed handle
// table well enough to reject handles that were minted in a browsing context
// that no longer exists, without needing to enumerate live handles itself.
type ElementRegistry struct {
	mu      sync.Mutex
	refs    map[string]*Ref
	counter uint64
	epoch   int
}

func newElementRegistry() *ElementRegistry {
	return &ElementRegistry{refs: map[string]*Ref{}}
}

// Mint records a new handle for the given kind at the registry's current
// epoch and returns it. jsRef is the global variable name the injected
// script used to stash the live node/shadow-root/frame reference.
func (r *ElementRegistry) Mint(kind RefKind) *Ref {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref := &Ref{
		Handle: uuid.NewString(),
		JSRef:  fmt.Sprintf("__wd_el_%d", r.counter),
		Kind:   kind,
		Epoch:  r.epoch,
	}
	r.counter++
	r.refs[ref.Handle] = ref
	return ref
}

// NextJSVarBase reserves a fresh global-variable base name without minting a
// handle for it, used by a find-many call that needs the base name *before*
// it knows how many elements the injected script will store under
// <base>_0, <base>_1, ... .
func (r *ElementRegistry) NextJSVarBase() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := fmt.Sprintf("__wd_el_%d", r.counter)
	r.counter++
	return name
}

// MintNamed is like Mint but records a caller-supplied jsRef instead of
// generating one, used once a find-many script has already stashed results
// at <base>_<i> and the caller needs one Ref per stashed slot.
func (r *ElementRegistry) MintNamed(kind RefKind, jsRef string) *Ref {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref := &Ref{
		Handle: uuid.NewString(),
		JSRef:  jsRef,
		Kind:   kind,
		Epoch:  r.epoch,
	}
	r.refs[ref.Handle] = ref
	return ref
}

// Resolve looks up a handle and checks it against the current epoch.
func (r *ElementRegistry) Resolve(handle string) (*Ref, *WebDriverError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.refs[handle]
	if !ok {
		return nil, ErrNoSuchElement()
	}
	if ref.Epoch != r.epoch {
		return nil, ErrStale()
	}
	return ref, nil
}

// ResolveKind is like Resolve but also checks the reference namespace,
// returning the kind-appropriate not-found error.
func (r *ElementRegistry) ResolveKind(handle string, kind RefKind) (*Ref, *WebDriverError) {
	r.mu.Lock()
	ref, ok := r.refs[handle]
	r.mu.Unlock()
	if !ok || ref.Kind != kind {
		switch kind {
		case KindShadow:
			return nil, ErrNoSuchShadowRoot()
		case KindFrame:
			return nil, ErrNoSuchFrame()
		case KindWindow:
			return nil, ErrNoSuchWindow()
		default:
			return nil, ErrNoSuchElement()
		}
	}
	if ref.Epoch != r.epoch {
		return nil, ErrStale()
	}
	return ref, nil
}

// BumpEpoch invalidates every handle minted so far: called on navigation
// (URL change, back/forward/refresh) and on frame switch.
func (r *ElementRegistry) BumpEpoch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
}

// CurrentEpoch reports the active epoch.
func (r *ElementRegistry) CurrentEpoch() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

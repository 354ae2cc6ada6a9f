package main

import "sync"

// asyncResult carries either a value or an error message back from the
// backend's callback boundary to the blocked HTTP handler.
type asyncResult struct {
	value any
	err   string
}

// AsyncScriptCoordinator correlates the host's script-completion callback
// back to the HTTP request that started it, keyed by a generated async id.
// Grounded on the pending-op registry pattern: a timeout races the
// callback and whichever fires first wins; the loser is a no-op.
type AsyncScriptCoordinator struct {
	mu      sync.Mutex
	pending map[string]chan asyncResult
}

func newAsyncScriptCoordinator() *AsyncScriptCoordinator {
	return &AsyncScriptCoordinator{pending: map[string]chan asyncResult{}}
}

// Register allocates a completion channel for asyncID. The returned channel
// receives at most one value, from Complete/Fail or from CancelAll; after a
// Cancel it receives nothing.
func (c *AsyncScriptCoordinator) Register(asyncID string) <-chan asyncResult {
	ch := make(chan asyncResult, 1)
	c.mu.Lock()
	c.pending[asyncID] = ch
	c.mu.Unlock()
	return ch
}

// Complete delivers a successful result. A late callback for an id that's
// already been removed (timed out, or session torn down) is dropped.
func (c *AsyncScriptCoordinator) Complete(asyncID string, value any) {
	c.deliver(asyncID, asyncResult{value: value})
}

// Fail delivers a script exception.
func (c *AsyncScriptCoordinator) Fail(asyncID string, errMsg string) {
	c.deliver(asyncID, asyncResult{err: errMsg})
}

func (c *AsyncScriptCoordinator) deliver(asyncID string, res asyncResult) {
	c.mu.Lock()
	ch, ok := c.pending[asyncID]
	if ok {
		delete(c.pending, asyncID)
	}
	c.mu.Unlock()
	if ok {
		ch <- res
	}
}

// Cancel removes a pending entry without delivering a result, used when a
// timeout fires before the callback does.
func (c *AsyncScriptCoordinator) Cancel(asyncID string) {
	c.mu.Lock()
	delete(c.pending, asyncID)
	c.mu.Unlock()
}

// CancelAll drains every pending entry with the given error message,
// called on session teardown so in-flight handlers don't hang forever.
func (c *AsyncScriptCoordinator) CancelAll(reason string) {
	c.mu.Lock()
	pending := c.pending
	c.pending = map[string]chan asyncResult{}
	c.mu.Unlock()
	for _, ch := range pending {
		ch <- asyncResult{err: reason}
	}
}

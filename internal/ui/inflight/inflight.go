// Package inflight tracks the running request for each panel action so that
// starting a new one cancels the one before it.
package inflight

import (
	"context"
	"sync"
)

// Key identifies a panel action of one page load, e.g.
// {sid, pageID, "browse/query"}. Tabs of one browser share Session but
// never Page.
type Key struct {
	Session string
	Page    string
	Action  string
}

type entry struct {
	gen    uint64
	cancel context.CancelFunc
}

// Tracker holds at most one in-flight request per Key.
type Tracker struct {
	mu      sync.Mutex
	gen     uint64
	entries map[Key]entry
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		entries: make(map[Key]entry),
	}
}

// Begin registers a new request for key and cancels the previous one, if any.
// The returned context is cancelled when parent ends, when a later Begin for
// the same key happens, or when done is called. done must always be called.
func (t *Tracker) Begin(parent context.Context, key Key) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	t.gen++
	gen := t.gen
	if prev, ok := t.entries[key]; ok {
		prev.cancel()
	}
	t.entries[key] = entry{gen: gen, cancel: cancel}
	t.mu.Unlock()

	done := func() {
		t.mu.Lock()
		if cur, ok := t.entries[key]; ok && cur.gen == gen {
			delete(t.entries, key)
		}
		t.mu.Unlock()
		cancel()
	}
	return ctx, done
}

// Len returns the number of tracked requests.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

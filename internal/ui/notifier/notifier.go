// Package notifier fans configuration changes out to open SSE streams.
package notifier

import (
	"sync"
	"time"
)

// Change describes a configuration change pushed to listeners.
type Change struct {
	BaseURL string
	At      time.Time
}

// Notifier broadcasts the latest Change to all subscribed listeners.
// A slow listener never blocks a broadcast; it receives only the newest
// change it has not consumed yet.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Change]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Change]struct{}),
	}
}

// Subscribe returns a channel that receives changes.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() chan Change {
	ch := make(chan Change, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Change) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast sends c to all listeners, replacing any unread older change.
func (n *Notifier) Broadcast(c Change) {
	if c.At.IsZero() {
		c.At = time.Now()
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		for {
			select {
			case ch <- c:
			default:
				// Full: drop the stale change and retry.
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())

	_, open := <-ch
	assert.False(t, open, "unsubscribed channel should be closed")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()

	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	n.Broadcast(Change{BaseURL: "http://reports:7080"})

	for i, ch := range []chan Change{ch1, ch2} {
		select {
		case c := <-ch:
			assert.Equal(t, "http://reports:7080", c.BaseURL)
			assert.False(t, c.At.IsZero())
		case <-time.After(100 * time.Millisecond):
			t.Errorf("listener %d did not receive broadcast", i)
		}
	}
}

func TestNotifier_Broadcast_KeepsLatest(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Broadcast(Change{BaseURL: "http://old"})
	n.Broadcast(Change{BaseURL: "http://new"})

	select {
	case c := <-ch:
		assert.Equal(t, "http://new", c.BaseURL)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no change received")
	}

	select {
	case c := <-ch:
		t.Fatalf("unexpected extra change %q", c.BaseURL)
	default:
	}
}

func TestNotifier_Broadcast_NonBlocking(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			n.Broadcast(Change{BaseURL: "http://x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Broadcast blocked on unread listener")
	}
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Broadcast(Change{BaseURL: "http://x"})
			n.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, n.Len())
}

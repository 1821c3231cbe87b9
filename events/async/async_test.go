package async

import (
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/swrcache"
)

func TestWrapDelivers(t *testing.T) {
	d := New(1, 16)
	defer d.Close()

	var mu sync.Mutex
	var got []string
	fn := d.Wrap(func(ev swrcache.Event) {
		mu.Lock()
		got = append(got, ev.Key)
		mu.Unlock()
	})

	fn(swrcache.Event{Type: swrcache.EventHit, Key: "a", Time: time.Now()})
	fn(swrcache.Event{Type: swrcache.EventHit, Key: "b", Time: time.Now()})

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("events not delivered: %v", got)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestFullQueueDrops(t *testing.T) {
	block := make(chan struct{})
	d := New(1, 1)
	defer d.Close()

	fn := d.Wrap(func(swrcache.Event) { <-block })

	// first event occupies the worker, second fills the queue; everything
	// after is dropped without blocking
	fn(swrcache.Event{Key: "busy"})
	fn(swrcache.Event{Key: "queued"})

	deadline := time.Now().Add(2 * time.Second)
	for d.Dropped() == 0 {
		fn(swrcache.Event{Key: "overflow"})
		if time.Now().After(deadline) {
			t.Fatalf("full queue should drop events")
		}
	}
	close(block)
}

func TestCloseStopsWorkersAndDropsLater(t *testing.T) {
	d := New(2, 8)

	var mu sync.Mutex
	n := 0
	fn := d.Wrap(func(swrcache.Event) {
		mu.Lock()
		n++
		mu.Unlock()
	})

	fn(swrcache.Event{Key: "a"})
	d.Close()

	mu.Lock()
	delivered := n
	mu.Unlock()
	if delivered != 1 {
		t.Fatalf("Close must drain the queue first, delivered=%d", delivered)
	}

	before := d.Dropped()
	fn(swrcache.Event{Key: "late"})
	if d.Dropped() != before+1 {
		t.Fatalf("events after Close must be dropped, not delivered")
	}

	d.Close() // idempotent
}

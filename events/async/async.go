// Package async decouples event listeners from the cache's hot path.
// Listeners registered through a Dispatcher run on worker goroutines fed by a
// bounded queue; when the queue is full, events are dropped rather than
// blocking the cache operation that emitted them.
//
// usage:
//
//	d := async.New(1, 1000) // 1 worker; queue 1000 events
//	defer d.Close()
//	cache.On(swrcache.EventHit, d.Wrap(func(ev swrcache.Event) { ... }))
package async

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/swrcache"
)

type Dispatcher struct {
	q  chan func()
	wg sync.WaitGroup

	mu     sync.RWMutex // serializes sends against close
	closed bool
	once   sync.Once

	dropped atomic.Int64
}

func New(workers, qlen int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	d := &Dispatcher{q: make(chan func(), qlen)}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer d.wg.Done()
			for f := range d.q {
				f()
			}
		}()
	}
	return d
}

// Wrap returns a listener that enqueues ev for inner instead of running it
// inline. Events arriving while the queue is full are counted and dropped.
func (d *Dispatcher) Wrap(inner swrcache.Listener) swrcache.Listener {
	return func(ev swrcache.Event) {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if d.closed {
			d.dropped.Add(1)
			return
		}
		select {
		case d.q <- func() { inner(ev) }:
		default:
			d.dropped.Add(1)
		}
	}
}

// Dropped reports how many events were discarded due to a full queue.
func (d *Dispatcher) Dropped() int64 { return d.dropped.Load() }

// Close drains the queue and stops the workers. Listeners wrapped by this
// dispatcher silently drop events after Close.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.q)
		d.mu.Unlock()
		d.wg.Wait()
	})
}

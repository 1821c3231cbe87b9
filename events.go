package swrcache

import (
	"sync"
	"time"
)

// EventType classifies a cache occurrence.
type EventType uint8

const (
	EventHit EventType = iota + 1
	EventMiss
	EventWrite
	EventDelete
	EventInvalidate
)

func (t EventType) String() string {
	switch t {
	case EventHit:
		return "hit"
	case EventMiss:
		return "miss"
	case EventWrite:
		return "write"
	case EventDelete:
		return "delete"
	case EventInvalidate:
		return "invalidate"
	default:
		return "unknown"
	}
}

// Event is the ephemeral value passed to listeners; it is never persisted.
// Metadata is set where the operation has it at hand (hits and writes).
type Event struct {
	Type     EventType
	Key      string
	Time     time.Time
	Metadata *Metadata
}

// Listener receives events synchronously on the calling operation's
// goroutine. Slow listeners slow the cache; wrap with events/async if that
// matters. A panicking listener is recovered and logged and never interrupts
// the operation or the remaining listeners.
type Listener func(Event)

// ListenerID identifies a registration for Off.
type ListenerID uint64

type registration struct {
	id ListenerID
	fn Listener
}

// listeners is the per-instance registry. Dispatch iterates a snapshot of the
// registration list so listeners added or removed mid-dispatch cannot corrupt
// iteration.
type listeners struct {
	mu     sync.Mutex
	nextID ListenerID
	byType map[EventType][]registration
}

func (l *listeners) on(t EventType, fn Listener) ListenerID {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.byType == nil {
		l.byType = make(map[EventType][]registration)
	}
	l.nextID++
	l.byType[t] = append(l.byType[t], registration{id: l.nextID, fn: fn})
	return l.nextID
}

func (l *listeners) off(t EventType, id ListenerID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	regs := l.byType[t]
	for i, r := range regs {
		if r.id == id {
			l.byType[t] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

func (l *listeners) snapshot(t EventType) []Listener {
	l.mu.Lock()
	defer l.mu.Unlock()
	regs := l.byType[t]
	if len(regs) == 0 {
		return nil
	}
	out := make([]Listener, len(regs))
	for i, r := range regs {
		out[i] = r.fn
	}
	return out
}

func (c *cache[V]) emit(t EventType, key string, md *Metadata) {
	fns := c.listeners.snapshot(t)
	if len(fns) == 0 {
		return
	}
	ev := Event{Type: t, Key: key, Time: time.Now(), Metadata: md}
	for _, fn := range fns {
		c.dispatch(fn, ev)
	}
}

func (c *cache[V]) dispatch(fn Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("event listener panicked", Fields{
				"event": ev.Type.String(),
				"key":   ev.Key,
				"panic": r,
			})
		}
	}()
	fn(ev)
}

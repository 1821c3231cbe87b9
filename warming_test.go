package swrcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/swrcache/backend/memory"
)

func TestWarmingRunsOnInitialize(t *testing.T) {
	var mu sync.Mutex
	warmed := make(map[string]int)

	c, err := New[payload](Options[payload]{
		Backend: memory.New(),
		Warming: Warming{
			Enabled:  true,
			URLs:     []string{"https://a.example", "https://b.example"},
			Interval: time.Hour, // only the initial pass should run
		},
		WarmFunc: func(_ context.Context, url string) error {
			mu.Lock()
			warmed[url]++
			mu.Unlock()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer c.Shutdown(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		done := warmed["https://a.example"] == 1 && warmed["https://b.example"] == 1
		mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("initial warming pass did not run: %v", warmed)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWarmingRepeatsOnInterval(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	c, err := New[payload](Options[payload]{
		Backend: memory.New(),
		Warming: Warming{
			Enabled:  true,
			URLs:     []string{"https://a.example"},
			Interval: 20 * time.Millisecond,
		},
		WarmFunc: func(context.Context, string) error {
			mu.Lock()
			calls++
			mu.Unlock()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer c.Shutdown(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := calls
		mu.Unlock()
		if n >= 3 { // initial pass + at least two ticks
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("warming did not repeat, calls=%d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestShutdownStopsWarming(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	c, err := New[payload](Options[payload]{
		Backend: memory.New(),
		Warming: Warming{
			Enabled:  true,
			URLs:     []string{"https://a.example"},
			Interval: 10 * time.Millisecond,
		},
		WarmFunc: func(context.Context, string) error {
			mu.Lock()
			calls++
			mu.Unlock()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	mu.Lock()
	after := calls
	mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	later := calls
	mu.Unlock()
	if later != after {
		t.Fatalf("warming kept running after shutdown: %d -> %d", after, later)
	}
}

func TestWarmingRequiresFunc(t *testing.T) {
	_, err := New[payload](Options[payload]{
		Backend: memory.New(),
		Warming: Warming{Enabled: true, URLs: []string{"https://a.example"}},
	})
	if err == nil {
		t.Fatalf("warming without WarmFunc must be a config error")
	}
}

package swrcache

import (
	"context"
	"sync"
	"time"
)

// Warming configures the optional cache-warming scheduler: a population pass
// over a fixed URL list at Initialize and then on every Interval tick. The
// engine owns only the scheduling; fetching and populating is the caller's
// WarmFunc.
type Warming struct {
	Enabled  bool
	URLs     []string
	Interval time.Duration // 0 => 15m
}

// WarmFunc fetches one URL and populates the cache with the result. Errors
// are logged per URL and do not stop the pass.
type WarmFunc func(ctx context.Context, url string) error

// warmer is the engine's only background task. stop cancels the pass context
// so in-flight warming work is dropped, then waits for the loop to exit.
type warmer struct {
	urls     []string
	interval time.Duration
	fn       WarmFunc
	log      Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newWarmer(cfg Warming, fn WarmFunc, log Logger) *warmer {
	return &warmer{
		urls:     cfg.URLs,
		interval: coalesce(cfg.Interval, 15*time.Minute),
		fn:       fn,
		log:      log,
	}
}

func (w *warmer) start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pass(ctx)
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.pass(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (w *warmer) pass(ctx context.Context) {
	for _, u := range w.urls {
		if ctx.Err() != nil {
			return
		}
		if err := w.fn(ctx, u); err != nil {
			w.log.Warn("cache warming failed", Fields{"url": u, "err": err})
		}
	}
}

func (w *warmer) stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	w.wg.Wait()
	w.cancel = nil
}

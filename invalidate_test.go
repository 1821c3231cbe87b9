package swrcache

import (
	"context"
	"testing"

	"github.com/unkn0wn-root/swrcache/backend/memory"
)

func seedInvalidation(t *testing.T, cc Cache[payload]) {
	t.Helper()
	ctx := context.Background()
	for _, k := range []string{"user:123", "user:456", "post:789"} {
		if err := cc.Set(ctx, k, payload{A: 1}, nil); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
}

func remaining(t *testing.T, cc Cache[payload]) map[string]bool {
	t.Helper()
	ctx := context.Background()
	out := make(map[string]bool)
	for _, k := range []string{"user:123", "user:456", "post:789"} {
		ok, err := cc.Has(ctx, k)
		if err != nil {
			t.Fatalf("Has %s: %v", k, err)
		}
		out[k] = ok
	}
	return out
}

func TestInvalidatePrefix(t *testing.T) {
	cc := newTestCache(t, memory.New(), nil)
	seedInvalidation(t, cc)

	n, err := cc.Invalidate(context.Background(), Pattern{Kind: MatchPrefix, Expr: "user:"})
	if err != nil || n != 2 {
		t.Fatalf("prefix invalidate: n=%d err=%v", n, err)
	}
	left := remaining(t, cc)
	if left["user:123"] || left["user:456"] || !left["post:789"] {
		t.Fatalf("wrong keys deleted: %v", left)
	}
}

func TestInvalidateExact(t *testing.T) {
	cc := newTestCache(t, memory.New(), nil)
	seedInvalidation(t, cc)

	n, err := cc.Invalidate(context.Background(), Pattern{Kind: MatchExact, Expr: "user:123"})
	if err != nil || n != 1 {
		t.Fatalf("exact invalidate: n=%d err=%v", n, err)
	}
	left := remaining(t, cc)
	if left["user:123"] || !left["user:456"] || !left["post:789"] {
		t.Fatalf("wrong keys deleted: %v", left)
	}
}

func TestInvalidateSuffix(t *testing.T) {
	cc := newTestCache(t, memory.New(), nil)
	seedInvalidation(t, cc)

	n, err := cc.Invalidate(context.Background(), Pattern{Kind: MatchSuffix, Expr: ":789"})
	if err != nil || n != 1 {
		t.Fatalf("suffix invalidate: n=%d err=%v", n, err)
	}
	if left := remaining(t, cc); left["post:789"] {
		t.Fatalf("post:789 should be gone: %v", left)
	}
}

func TestInvalidateRegex(t *testing.T) {
	cc := newTestCache(t, memory.New(), nil)
	seedInvalidation(t, cc)

	n, err := cc.Invalidate(context.Background(), Pattern{Kind: MatchRegex, Expr: `user:\d+`})
	if err != nil || n != 2 {
		t.Fatalf("regex invalidate: n=%d err=%v", n, err)
	}
	left := remaining(t, cc)
	if left["user:123"] || left["user:456"] || !left["post:789"] {
		t.Fatalf("wrong keys deleted: %v", left)
	}
}

func TestInvalidateRegexInvalid(t *testing.T) {
	cc := newTestCache(t, memory.New(), nil)
	if _, err := cc.Invalidate(context.Background(), Pattern{Kind: MatchRegex, Expr: `us(er`}); err == nil {
		t.Fatalf("invalid regex should error")
	}
}

func TestInvalidateTagAlwaysZero(t *testing.T) {
	cc := newTestCache(t, memory.New(), nil)
	seedInvalidation(t, cc)

	n, err := cc.Invalidate(context.Background(), Pattern{Kind: MatchTag, Expr: "anything"})
	if err != nil || n != 0 {
		t.Fatalf("tag invalidate must match nothing: n=%d err=%v", n, err)
	}
	for k, ok := range remaining(t, cc) {
		if !ok {
			t.Fatalf("tag invalidate deleted %s", k)
		}
	}
}

func TestInvalidatePagesSequentially(t *testing.T) {
	cb := &countingBackend{inner: memory.New()}
	cc := newTestCache(t, cb, func(o *Options[payload]) {
		o.ListPageSize = 1 // one key per round-trip
	})
	seedInvalidation(t, cc)

	n, err := cc.Invalidate(context.Background(), Pattern{Kind: MatchPrefix, Expr: "user:"})
	if err != nil || n != 2 {
		t.Fatalf("paged invalidate: n=%d err=%v", n, err)
	}
	if cb.lists.Load() < 3 {
		t.Fatalf("expected one listing round-trip per page, got %d", cb.lists.Load())
	}
}

func TestInvalidateEmitsPerKey(t *testing.T) {
	cc := newTestCache(t, memory.New(), nil)
	seedInvalidation(t, cc)

	var seen []string
	cc.On(EventInvalidate, func(ev Event) { seen = append(seen, ev.Key) })

	if _, err := cc.Invalidate(context.Background(), Pattern{Kind: MatchPrefix, Expr: "user:"}); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected one event per deleted key, got %v", seen)
	}
	for _, k := range seen {
		if k != "user:123" && k != "user:456" {
			t.Fatalf("unexpected event key %q", k)
		}
	}
}

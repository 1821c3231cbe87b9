package swrcache

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// PatternKind selects the match rule for bulk invalidation.
type PatternKind uint8

const (
	MatchExact PatternKind = iota + 1
	MatchPrefix
	MatchSuffix
	MatchRegex
	// MatchTag is declared but not implemented: entry tags are not indexed,
	// so tag patterns always report zero matches. The zero count is how
	// callers detect that nothing happened.
	MatchTag
)

// Pattern selects a batch of keys for deletion. Expr is matched against the
// de-prefixed key names.
type Pattern struct {
	Kind PatternKind
	Expr string
}

func (c *cache[V]) Invalidate(ctx context.Context, p Pattern) (int, error) {
	if !c.initialized.Load() {
		return 0, ErrNotInitialized
	}
	match, err := compileMatcher(p)
	if err != nil {
		return 0, err
	}
	if match == nil {
		c.log.Debug("tag invalidation not implemented; no keys matched", Fields{"pattern": p.Expr})
		return 0, nil
	}

	n := 0
	cursor := ""
	for {
		page, lerr := c.be.List(ctx, c.keyPrefix, c.pageSize, cursor)
		if lerr != nil {
			return n, &InvalidateError{Pattern: p.Expr, ListErr: lerr}
		}
		for _, storageKey := range page.Keys {
			name := strings.TrimPrefix(storageKey, c.keyPrefix)
			if !match(name) {
				continue
			}
			if derr := c.be.Delete(ctx, storageKey); derr != nil {
				return n, &InvalidateError{Pattern: p.Expr, DelErr: derr}
			}
			n++
			c.stats.del()
			c.emit(EventInvalidate, name, nil)
		}
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}
	return n, nil
}

func compileMatcher(p Pattern) (func(string) bool, error) {
	switch p.Kind {
	case MatchExact:
		return func(s string) bool { return s == p.Expr }, nil
	case MatchPrefix:
		return func(s string) bool { return strings.HasPrefix(s, p.Expr) }, nil
	case MatchSuffix:
		return func(s string) bool { return strings.HasSuffix(s, p.Expr) }, nil
	case MatchRegex:
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			return nil, fmt.Errorf("swrcache: invalid regex pattern %q: %w", p.Expr, err)
		}
		return re.MatchString, nil
	case MatchTag:
		return nil, nil
	default:
		return nil, fmt.Errorf("swrcache: unknown pattern kind %d", p.Kind)
	}
}

package util

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// Digest returns a short deterministic digest of s: the first 16 hex chars of
// its sha256 sum. 64 bits is plenty for cache-key collision resistance.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", sum)[:16]
}

// CanonicalParams serializes a param map to a canonical "k=v&k=v" form with
// keys sorted lexicographically, so insertion order never affects the digest.
func CanonicalParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	return sb.String()
}

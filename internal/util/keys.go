// Package util holds small key-building helpers shared by resource bindings.
package util

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// maxRawPart keeps human-entered parts (search queries) from producing
// unbounded keys; longer parts are replaced by a short hash.
const maxRawPart = 64

// ResourceKey joins a resource family and its parts into a stable cache key,
// e.g. ResourceKey("clients", "list", "page=2") -> "clients:list:page=2".
func ResourceKey(family string, parts ...string) string {
	if len(parts) == 0 {
		return family
	}
	b := strings.Builder{}
	b.WriteString(family)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(compact(p))
	}
	return b.String()
}

func compact(p string) string {
	if len(p) <= maxRawPart {
		return p
	}
	sum := sha256.Sum256([]byte(p))
	return fmt.Sprintf("%x", sum)[:16]
}

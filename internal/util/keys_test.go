package util

import (
	"strings"
	"testing"
)

func TestResourceKey(t *testing.T) {
	if got := ResourceKey("clients"); got != "clients" {
		t.Fatalf("bare family = %q", got)
	}
	if got := ResourceKey("clients", "list", "page=2"); got != "clients:list:page=2" {
		t.Fatalf("composed key = %q", got)
	}
}

func TestResourceKeyHashesLongParts(t *testing.T) {
	long := strings.Repeat("q", 500)
	got := ResourceKey("search", long)
	if len(got) > len("search")+1+16 {
		t.Fatalf("long part not compacted: %d chars", len(got))
	}
	// deterministic
	if got != ResourceKey("search", long) {
		t.Fatalf("compacted key not stable")
	}
}

package codec

import (
	"strings"
	"testing"
)

func TestLimitRejectsOversizedPayloads(t *testing.T) {
	lc := Limit[string]{Inner: String{}, MaxDecode: 8}

	if _, err := lc.Decode([]byte("short")); err != nil {
		t.Fatalf("within limit: %v", err)
	}
	if _, err := lc.Decode([]byte(strings.Repeat("x", 9))); err == nil {
		t.Fatalf("oversized payload not rejected")
	}

	// Encode is never limited.
	b, err := lc.Encode(strings.Repeat("x", 100))
	if err != nil || len(b) != 100 {
		t.Fatalf("encode forwarded: len=%d err=%v", len(b), err)
	}
}

func TestLimitDisabledWhenNonPositive(t *testing.T) {
	lc := Limit[string]{Inner: String{}}
	if _, err := lc.Decode([]byte(strings.Repeat("x", 1<<16))); err != nil {
		t.Fatalf("limit disabled but payload rejected: %v", err)
	}
}

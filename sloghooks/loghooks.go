// Package sloghooks reports store diagnostics through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/syncache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all. Discards can be very frequent
	// on keys that are mutated while polled.
	DiscardEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	discardCtr atomic.Uint64
}

var _ syncache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) FetchDiscarded(key string, start, cur uint64) {
	if h.l == nil || !sample(h.opts.DiscardEvery, &h.discardCtr) {
		return
	}
	h.l.Debug("syncache.fetch_discarded",
		"key", h.redact(key),
		"start_version", start,
		"version", cur)
}

func (h *Hooks) FetchFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("syncache.fetch_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) WriteRolledBack(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("syncache.write_rolled_back",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) SubscriberPanic(key string, recovered any) {
	if h.l == nil {
		return
	}
	h.l.Error("syncache.subscriber_panic",
		"key", h.redact(key),
		"panic", recovered)
}

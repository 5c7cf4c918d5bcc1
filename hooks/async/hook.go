// Package asynchook decouples hook sinks from the store's hot paths.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{DiscardEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	store := syncache.New[Client](syncache.Options[Client]{
//	    Hooks: hooks, // or `raw` if the sink is already cheap
//	})
//
// Events are dropped, not queued unboundedly, when the sink falls behind.
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/syncache"
)

type Hooks struct {
	inner syncache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ syncache.Hooks = (*Hooks)(nil)

func New(inner syncache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) FetchDiscarded(k string, start, cur uint64) {
	h.try(func() { h.inner.FetchDiscarded(k, start, cur) })
}
func (h *Hooks) FetchFailed(k string, err error) {
	h.try(func() { h.inner.FetchFailed(k, err) })
}
func (h *Hooks) WriteRolledBack(k string, err error) {
	h.try(func() { h.inner.WriteRolledBack(k, err) })
}
func (h *Hooks) SubscriberPanic(k string, r any) {
	h.try(func() { h.inner.SubscriberPanic(k, r) })
}

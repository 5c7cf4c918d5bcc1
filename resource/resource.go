// Package resource binds a cache key, a fetch function, and a TTL into a
// single handle a view layer can consume, plus the presentation-side helpers
// (status indicator, pagination, search debounce) those views typically need.
// The helpers consume store output; the store never calls back into them.
package resource

import (
	"context"
	"time"

	"github.com/unkn0wn-root/syncache"
	"github.com/unkn0wn-root/syncache/internal/util"
)

// Options configure one binding.
type Options struct {
	// TTL for the bound entry. 0 uses the store default. Fixed on first use.
	TTL time.Duration
}

// Resource is the per-key binding surface: data, loading/error/stale state,
// refresh, and local or optimistic mutation for exactly one cache key.
type Resource[V any] struct {
	store syncache.Store[V]
	key   string
	fetch syncache.FetchFunc[V]
	ttl   time.Duration
}

// Bind ties key to fetch on st. Multiple bindings for the same key share the
// underlying entry, so every binding observes every change.
func Bind[V any](st syncache.Store[V], key string, fetch syncache.FetchFunc[V], opts Options) *Resource[V] {
	return &Resource[V]{store: st, key: key, fetch: fetch, ttl: opts.TTL}
}

// Key builds a binding key from a resource family and its parameters, e.g.
// Key("clients", "list", "page=2").
func Key(family string, parts ...string) string {
	return util.ResourceKey(family, parts...)
}

// Get returns the current snapshot, starting a background fetch when the
// entry is missing or stale.
func (r *Resource[V]) Get(ctx context.Context) syncache.Snapshot[V] {
	return r.store.EnsureFresh(ctx, r.key, r.fetch, r.ttl)
}

// Data is a convenience accessor: the current value and whether one exists.
// Triggers freshness like Get.
func (r *Resource[V]) Data(ctx context.Context) (V, bool) {
	snap := r.Get(ctx)
	return snap.Value, snap.HasValue
}

// Refresh forces a fetch regardless of TTL.
func (r *Resource[V]) Refresh(ctx context.Context) syncache.Snapshot[V] {
	return r.store.Refresh(ctx, r.key, r.fetch)
}

// Mutate applies a synchronous local write to the bound entry.
func (r *Resource[V]) Mutate(fn func(V) V) syncache.Snapshot[V] {
	return r.store.Mutate(r.key, fn)
}

// Update runs the optimistic-mutation protocol against the bound entry.
func (r *Resource[V]) Update(ctx context.Context, optimistic V, write syncache.WriteFunc[V], opts ...syncache.UpdateOption[V]) (V, error) {
	return r.store.Update(ctx, r.key, optimistic, write, opts...)
}

// IsStale reports whether the bound entry outlived its TTL.
func (r *Resource[V]) IsStale() bool {
	return r.store.IsStale(r.key)
}

// Subscribe registers a change callback for the bound entry.
func (r *Resource[V]) Subscribe(fn func(syncache.Snapshot[V])) (unsubscribe func()) {
	return r.store.Subscribe(r.key, fn)
}

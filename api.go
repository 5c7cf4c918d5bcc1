package syncache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/syncache/codec"
)

// FetchFunc populates a key from the remote source. It must be safe to call
// repeatedly (TTL expiry, explicit refresh). The context is forwarded from
// the triggering EnsureFresh/Refresh call; an in-flight fetch is never
// cancelled by this layer.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// WriteFunc performs the remote side of an optimistic update and returns the
// authoritative, server-normalized value.
type WriteFunc[V any] func(ctx context.Context, input V) (V, error)

// Store is the high-level synchronization API for one resource family.
// V is the caller's value type; one entry per key, created lazily and kept
// for the life of the store.
type Store[V any] interface {
	// GetOrCreate returns the entry snapshot, creating an Idle entry with the
	// store's default TTL if the key is unseen.
	GetOrCreate(key string) Snapshot[V]

	// EnsureFresh returns the current snapshot synchronously and, when the
	// entry is unpopulated or older than its TTL and no fetch is in flight,
	// starts one in the background. Concurrent callers attach to the single
	// in-flight fetch. Updates arrive via Subscribe.
	EnsureFresh(ctx context.Context, key string, fetch FetchFunc[V], ttl time.Duration) Snapshot[V]

	// Refresh starts a fetch regardless of TTL (still deduplicated against an
	// in-flight one) and returns the current snapshot synchronously.
	Refresh(ctx context.Context, key string, fetch FetchFunc[V]) Snapshot[V]

	// Mutate applies a local, synchronous write: value = fn(value), version+1,
	// notify. Used for optimistic writes and for merging authoritative server
	// responses. fn receives the zero V when the entry holds no value yet; it
	// runs outside the store lock, so it may read back into the store, and
	// concurrent local writes to the same key are last-write-wins.
	Mutate(key string, fn func(V) V) Snapshot[V]

	// Update runs the optimistic-mutation protocol: apply optimistic locally,
	// perform exactly one remote write, then merge the authoritative result or
	// roll back. On failure the returned error is a *WriteError and rollback
	// has already completed. Concurrent Updates on one key are not serialized;
	// the last write observed wins.
	Update(ctx context.Context, key string, optimistic V, write WriteFunc[V], opts ...UpdateOption[V]) (V, error)

	// IsStale reports whether the entry's last fetch is older than its TTL.
	// Unseen or never-populated keys are stale.
	IsStale(key string) bool

	// Subscribe registers a change callback for key, creating the entry if
	// absent. Callbacks run synchronously on the mutating goroutine, in
	// registration order. The returned function removes the subscription.
	Subscribe(key string, fn func(Snapshot[V])) (unsubscribe func())

	// Len reports the number of live entries.
	Len() int

	// Clear drops every entry and its subscribers (session teardown).
	// Results of fetches still in flight are discarded.
	Clear()

	// Close clears the store and waits for in-flight fetches to drain, or
	// returns ctx.Err() if the context expires first.
	Close(ctx context.Context) error
}

// Options tune a Store. All fields are optional.
type Options[V any] struct {
	Logger     Logger           // nil => NopLogger
	Hooks      Hooks            // nil => NopHooks
	DefaultTTL time.Duration    // used when EnsureFresh gets ttl=0; 0 => 1m
	Now        func() time.Time // clock override for tests; nil => time.Now
	Isolate    c.Codec[V]       // when set, snapshots carry a deep copy of the value
}

// New constructs an empty Store. The store starts with no entries and grows
// lazily as keys are first subscribed to or fetched.
func New[V any](opts Options[V]) Store[V] {
	return newStore[V](opts)
}

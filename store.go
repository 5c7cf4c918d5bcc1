package syncache

import (
	"context"
	"sync"
	"time"

	c "github.com/unkn0wn-root/syncache/codec"
)

const defaultEntryTTL = time.Minute

// store is the single implementation of Store. One mutex guards the entry
// table and every entry transition; fetchers and remote writes always run
// outside the lock so the synchronous read path never blocks on them.
type store[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]

	log        Logger
	hooks      Hooks
	now        func() time.Time
	defaultTTL time.Duration
	isolate    c.Codec[V]

	closed  bool
	fetches sync.WaitGroup
}

func newStore[V any](opts Options[V]) *store[V] {
	s := &store[V]{
		entries: make(map[string]*entry[V]),
		isolate: opts.Isolate,
	}
	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	s.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, defaultEntryTTL)
	if opts.Now != nil {
		s.now = opts.Now
	} else {
		s.now = time.Now
	}
	return s
}

func (s *store[V]) GetOrCreate(key string) Snapshot[V] {
	s.mu.Lock()
	e := s.getOrCreateLocked(key, 0)
	snap := s.snapshotLocked(e)
	s.mu.Unlock()
	return snap
}

func (s *store[V]) EnsureFresh(ctx context.Context, key string, fetch FetchFunc[V], ttl time.Duration) Snapshot[V] {
	s.mu.Lock()
	e := s.getOrCreateLocked(key, ttl)
	var fns []func(Snapshot[V])
	if !s.closed && !e.inFlight && s.needsFetchLocked(e) {
		fns = s.beginFetchLocked(ctx, e, fetch)
	}
	snap := s.snapshotLocked(e)
	s.mu.Unlock()

	s.deliver(key, fns, snap)
	return snap
}

func (s *store[V]) Refresh(ctx context.Context, key string, fetch FetchFunc[V]) Snapshot[V] {
	s.mu.Lock()
	e := s.getOrCreateLocked(key, 0)
	var fns []func(Snapshot[V])
	if !s.closed && !e.inFlight {
		fns = s.beginFetchLocked(ctx, e, fetch)
	}
	snap := s.snapshotLocked(e)
	s.mu.Unlock()

	s.deliver(key, fns, snap)
	return snap
}

// Mutate evaluates fn outside the lock so an updater may read back into the
// store (another key's snapshot, say) without deadlocking. Between the read
// and the apply another local write can land; local writes are
// last-write-wins, consistent with Update.
func (s *store[V]) Mutate(key string, fn func(V) V) Snapshot[V] {
	s.mu.Lock()
	e := s.getOrCreateLocked(key, 0)
	cur := e.value
	s.mu.Unlock()

	next := fn(cur)

	s.mu.Lock()
	e = s.getOrCreateLocked(key, 0)
	s.applyLocalLocked(e, next)
	fns := e.copySubs()
	snap := s.snapshotLocked(e)
	s.mu.Unlock()

	s.deliver(key, fns, snap)
	return snap
}

func (s *store[V]) IsStale(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !e.hasValue {
		return true
	}
	return s.now().Sub(e.fetchedAt) > e.ttl
}

func (s *store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *store[V]) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*entry[V])
	s.mu.Unlock()
}

func (s *store[V]) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.entries = make(map[string]*entry[V])
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.fetches.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// getOrCreateLocked returns the entry for key, creating it Idle if absent.
// ttl participates only at creation; later values are ignored because an
// entry's TTL is fixed for its lifetime.
func (s *store[V]) getOrCreateLocked(key string, ttl time.Duration) *entry[V] {
	if e, ok := s.entries[key]; ok {
		if ttl != 0 && ttl != e.ttl {
			s.log.Debug("ttl ignored for existing entry", Fields{"key": key, "ttl": ttl, "entry_ttl": e.ttl})
		}
		return e
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	e := &entry[V]{key: key, ttl: ttl, status: StatusIdle}
	if s.closed {
		// callers still get an idle entry to snapshot, but a closed store
		// never repopulates the table Close emptied
		return e
	}
	s.entries[key] = e
	return e
}

// needsFetchLocked implements the freshness rule: fetch when the entry was
// never populated, or when a populated (Ready/Error) entry outlived its TTL.
// fetchedAt is only advanced by successful fetches and local mutations, so a
// failed first fetch stays immediately refetchable.
func (s *store[V]) needsFetchLocked(e *entry[V]) bool {
	return !e.hasValue || s.now().Sub(e.fetchedAt) > e.ttl
}

// beginFetchLocked marks the entry for a fetch and launches it. The entry
// version is captured now: the result will only be applied if no local write
// lands in between. Returns subscriber callbacks for the visible transition
// (Loading, or stale-while-revalidate).
func (s *store[V]) beginFetchLocked(ctx context.Context, e *entry[V], fetch FetchFunc[V]) []func(Snapshot[V]) {
	e.inFlight = true
	if e.hasValue {
		e.stale = true // keep serving the old value while revalidating
	} else {
		e.status = StatusLoading
	}
	start := e.version
	s.fetches.Add(1)
	go s.runFetch(ctx, e, start, fetch)
	s.log.Debug("fetch started", Fields{"key": e.key, "start_version": start})
	return e.copySubs()
}

// runFetch awaits the fetcher off-lock, then applies the result under the
// version rule. Failure is recorded unconditionally; success only lands when
// the captured start version still matches. The result binds to the entry the
// fetch was started for: if Clear replaced it under the key, nothing is
// applied, and the replacement entry's own in-flight state is left alone.
func (s *store[V]) runFetch(ctx context.Context, e *entry[V], start uint64, fetch FetchFunc[V]) {
	defer s.fetches.Done()
	v, err := fetch(ctx)
	key := e.key

	s.mu.Lock()
	if s.entries[key] != e {
		// cleared while in flight; nothing to apply
		s.mu.Unlock()
		return
	}
	e.inFlight = false
	e.stale = false

	var discarded bool
	var current uint64
	switch {
	case err != nil:
		e.lastErr = &FetchError{Key: key, Err: err}
		e.status = StatusError
		e.version++
	case e.version != start:
		// a local mutation superseded this fetch; drop the result
		discarded, current = true, e.version
	default:
		e.value = v
		e.hasValue = true
		e.version++
		e.status = StatusReady
		e.fetchedAt = s.now()
		e.lastErr = nil
	}
	fns := e.copySubs()
	snap := s.snapshotLocked(e)
	s.mu.Unlock()

	switch {
	case err != nil:
		s.hooks.FetchFailed(key, err)
		s.log.Debug("fetch failed", Fields{"key": key, "err": err})
	case discarded:
		s.hooks.FetchDiscarded(key, start, current)
		s.log.Debug("fetch result discarded (superseded)", Fields{"key": key, "start_version": start, "version": current})
	}
	s.deliver(key, fns, snap)
}

// applyLocalLocked commits a local write: new value, version bump, fresh
// timestamp. Versions never decrease, which is what invalidates any fetch
// started before this write.
func (s *store[V]) applyLocalLocked(e *entry[V], v V) {
	e.value = v
	e.hasValue = true
	e.version++
	e.fetchedAt = s.now()
	e.status = StatusReady
}

func (s *store[V]) snapshotLocked(e *entry[V]) Snapshot[V] {
	snap := Snapshot[V]{
		Key:       e.key,
		Value:     e.value,
		HasValue:  e.hasValue,
		Version:   e.version,
		FetchedAt: e.fetchedAt,
		TTL:       e.ttl,
		Status:    e.status,
		Err:       e.lastErr,
		Updating:  e.updating,
		InFlight:  e.inFlight,
	}
	if e.hasValue {
		snap.Stale = e.stale || s.now().Sub(e.fetchedAt) > e.ttl
	}
	if e.hasValue && s.isolate != nil {
		if cp, err := cloneVia(s.isolate, e.value); err == nil {
			snap.Value = cp
		} else {
			s.log.Warn("isolate clone failed; snapshot shares the live value", Fields{"key": e.key, "err": err})
		}
	}
	return snap
}

func cloneVia[V any](cd c.Codec[V], v V) (V, error) {
	b, err := cd.Encode(v)
	if err != nil {
		var zero V
		return zero, err
	}
	return cd.Decode(b)
}

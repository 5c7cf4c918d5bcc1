package syncache

import (
	"context"
	"time"
)

// RollbackFunc restores the cached state after a failed remote write.
// The default rollback reinstates the exact pre-update snapshot.
type RollbackFunc func()

type updateConfig[V any] struct {
	rollback  RollbackFunc
	onSuccess func(V)
	onError   func(error)
}

// UpdateOption customizes one Update call.
type UpdateOption[V any] func(*updateConfig[V])

// WithRollback replaces the default snapshot-restoring rollback. The given
// function typically mutates the key back to a caller-held copy.
func WithRollback[V any](fn RollbackFunc) UpdateOption[V] {
	return func(cfg *updateConfig[V]) { cfg.rollback = fn }
}

// WithOnSuccess is invoked with the authoritative value after it has been
// merged into the cache.
func WithOnSuccess[V any](fn func(V)) UpdateOption[V] {
	return func(cfg *updateConfig[V]) { cfg.onSuccess = fn }
}

// WithOnError is invoked with the write failure after rollback has completed.
func WithOnError[V any](fn func(error)) UpdateOption[V] {
	return func(cfg *updateConfig[V]) { cfg.onError = fn }
}

// Update implements the optimistic-mutation protocol:
//
//  1. apply optimistic locally (subscribers see it before any network round
//     trip) and mark the entry updating,
//  2. perform exactly one remote write, no implicit retry,
//  3. on success merge the authoritative result (the server-normalized value
//     wins over the local guess, e.g. a temporary id is replaced),
//  4. on failure roll back, then return a *WriteError so the call site can
//     surface it. The cache is consistent before the error is visible.
func (s *store[V]) Update(ctx context.Context, key string, optimistic V, write WriteFunc[V], opts ...UpdateOption[V]) (V, error) {
	var cfg updateConfig[V]
	for _, opt := range opts {
		opt(&cfg)
	}

	s.mu.Lock()
	e := s.getOrCreateLocked(key, 0)
	prev := priorState[V]{
		value:     e.value,
		hasValue:  e.hasValue,
		fetchedAt: e.fetchedAt,
		status:    e.status,
		lastErr:   e.lastErr,
	}
	s.applyLocalLocked(e, optimistic)
	e.updating = true
	fns := e.copySubs()
	snap := s.snapshotLocked(e)
	s.mu.Unlock()
	s.deliver(key, fns, snap)

	result, err := write(ctx, optimistic)
	if err != nil {
		if cfg.rollback != nil {
			cfg.rollback()
			s.settleUpdate(e, nil)
		} else {
			s.settleUpdate(e, &prev)
		}
		s.hooks.WriteRolledBack(key, err)
		s.log.Debug("update rolled back", Fields{"key": key, "err": err})
		if cfg.onError != nil {
			cfg.onError(err)
		}
		var zero V
		return zero, &WriteError{Key: key, Err: err}
	}

	s.mu.Lock()
	if s.entries[key] != e {
		// cleared while the write was out; the pre-Clear state stays dropped
		s.mu.Unlock()
		if cfg.onSuccess != nil {
			cfg.onSuccess(result)
		}
		return result, nil
	}
	s.applyLocalLocked(e, result)
	e.updating = false
	fns = e.copySubs()
	snap = s.snapshotLocked(e)
	s.mu.Unlock()
	s.deliver(key, fns, snap)

	s.log.Debug("update committed", Fields{"key": key, "version": snap.Version})
	if cfg.onSuccess != nil {
		cfg.onSuccess(result)
	}
	return result, nil
}

type priorState[V any] struct {
	value     V
	hasValue  bool
	fetchedAt time.Time
	status    Status
	lastErr   error
}

// settleUpdate clears the updating flag and, when prev is given, restores the
// pre-update snapshot. The version still advances: versions never decrease,
// and the bump is what discards any fetch started mid-update. Settling binds
// to the entry the update captured; if Clear replaced it under the key, the
// pre-Clear snapshot is not resurrected into the new entry.
func (s *store[V]) settleUpdate(e *entry[V], prev *priorState[V]) {
	key := e.key
	s.mu.Lock()
	if s.entries[key] != e {
		s.mu.Unlock()
		return
	}
	if prev != nil {
		e.value = prev.value
		e.hasValue = prev.hasValue
		e.fetchedAt = prev.fetchedAt
		e.status = prev.status
		e.lastErr = prev.lastErr
		e.version++
	}
	e.updating = false
	fns := e.copySubs()
	snap := s.snapshotLocked(e)
	s.mu.Unlock()
	s.deliver(key, fns, snap)
}

package syncache

// Subscribe registers fn against key, creating the entry lazily so readers
// and the first fetch can race safely. Callbacks for a transition run on the
// goroutine that produced it, in registration order, before the mutating
// call returns.
func (s *store[V]) Subscribe(key string, fn func(Snapshot[V])) func() {
	s.mu.Lock()
	e := s.getOrCreateLocked(key, 0)
	id := e.nextSub
	e.nextSub++
	e.subs = append(e.subs, subscriber[V]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		cur, ok := s.entries[key]
		if !ok || cur != e {
			return // entry replaced by Clear; nothing to remove
		}
		for i, sub := range cur.subs {
			if sub.id == id {
				cur.subs = append(cur.subs[:i], cur.subs[i+1:]...)
				return
			}
		}
	}
}

// copySubs snapshots the callback list so delivery can run off-lock while a
// concurrent unsubscribe edits the slice.
func (e *entry[V]) copySubs() []func(Snapshot[V]) {
	if len(e.subs) == 0 {
		return nil
	}
	fns := make([]func(Snapshot[V]), len(e.subs))
	for i, sub := range e.subs {
		fns[i] = sub.fn
	}
	return fns
}

// deliver invokes each callback with the snapshot. A panicking callback is
// isolated so it cannot starve the remaining subscribers.
func (s *store[V]) deliver(key string, fns []func(Snapshot[V]), snap Snapshot[V]) {
	for _, fn := range fns {
		s.safeNotify(key, fn, snap)
	}
}

func (s *store[V]) safeNotify(key string, fn func(Snapshot[V]), snap Snapshot[V]) {
	defer func() {
		if r := recover(); r != nil {
			s.hooks.SubscriberPanic(key, r)
			s.log.Error("subscriber panicked", Fields{"key": key, "panic": r})
		}
	}()
	fn(snap)
}

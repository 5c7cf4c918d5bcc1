package syncache

import "time"

// Status is the lifecycle state of an entry.
type Status uint8

const (
	// StatusIdle: entry exists but no fetch has run yet.
	StatusIdle Status = iota
	// StatusLoading: first fetch in flight, no value to serve.
	StatusLoading
	// StatusReady: a value is present and the last operation succeeded.
	StatusReady
	// StatusError: the last fetch failed. Any previous value is retained.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time read view of one entry. Value is only
// meaningful when HasValue is true.
type Snapshot[V any] struct {
	Key       string
	Value     V
	HasValue  bool
	Version   uint64
	FetchedAt time.Time
	TTL       time.Duration
	Status    Status
	Err       error // last fetch error; persists alongside a retained value

	// Stale is true while a revalidation is pending for a served value, or
	// once the value has outlived its TTL.
	Stale bool
	// Updating is true between an optimistic write and its commit/rollback.
	Updating bool
	// InFlight is true while a fetch is running for this key.
	InFlight bool
}

type subscriber[V any] struct {
	id uint64
	fn func(Snapshot[V])
}

// entry is the single shared record per key. All fields are guarded by the
// owning store's mutex.
type entry[V any] struct {
	key       string
	value     V
	hasValue  bool
	version   uint64
	fetchedAt time.Time
	ttl       time.Duration // fixed at creation
	status    Status
	lastErr   error
	inFlight  bool
	stale     bool
	updating  bool

	subs    []subscriber[V]
	nextSub uint64
}

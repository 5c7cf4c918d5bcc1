package syncache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; the store calls them on
// hot paths. Wrap with hooks/async when the sink can stall.
type Hooks interface {
	// A fetch result was discarded because a local write superseded it.
	// Not an error: this is the version rule doing its job. Exposed so
	// interleavings can be observed when debugging races.
	FetchDiscarded(key string, startVersion, currentVersion uint64)

	// A fetch failed. The entry keeps its last good value with Error status.
	FetchFailed(key string, err error)

	// A remote write failed and rollback has completed.
	WriteRolledBack(key string, err error)

	// A subscriber callback panicked and was isolated from the others.
	SubscriberPanic(key string, recovered any)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) FetchDiscarded(string, uint64, uint64) {}
func (NopHooks) FetchFailed(string, error)             {}
func (NopHooks) WriteRolledBack(string, error)         {}
func (NopHooks) SubscriberPanic(string, any)           {}

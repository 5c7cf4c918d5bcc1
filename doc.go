// Package syncache implements a keyed, TTL-driven data-synchronization layer
// for view-style consumers: a per-key entry cache with fetch deduplication,
// stale-while-revalidate, synchronous change notification, and an
// optimistic-mutation coordinator guarded by a per-entry version discipline.
//
// Components:
//   - Store[V]: explicit, process-lifetime table of entries for one resource
//     family. One store per value type; never ambient global state.
//   - Subscription: many readers share one entry per key and are notified
//     synchronously, in registration order, on every transition.
//   - Update: applies a local value immediately, performs exactly one remote
//     write, then merges the authoritative result or rolls back.
//
// Version rule:
//
//	A fetch captures the entry version when it starts. Its result is applied
//	only if the version is unchanged when it lands; otherwise the result is
//	discarded (a newer local mutation won) and reported via Hooks. Versions
//	only ever increase.
//
// Remote access is supplied by the caller as plain functions; retries,
// timeouts and auth belong there, not here. Entries are never evicted: they
// live until Clear or Close.
package syncache

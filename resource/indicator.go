package resource

import "github.com/unkn0wn-root/syncache"

// State is the single visual state a status indicator should render for a
// snapshot. The four states are mutually exclusive.
type State uint8

const (
	// StateLoading: no data yet, first fetch pending.
	StateLoading State = iota
	// StateError: last fetch failed; render retry affordance. Any retained
	// value can still be shown next to it.
	StateError
	// StateStale: data present but older than its TTL or being revalidated;
	// render a refresh affordance.
	StateStale
	// StateFresh: data present and within TTL.
	StateFresh
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateStale:
		return "stale"
	case StateFresh:
		return "fresh"
	default:
		return "unknown"
	}
}

// Indicate maps a snapshot to exactly one indicator state. Pure function of
// its input: loading wins while there is nothing to show, then error, then
// staleness.
func Indicate[V any](snap syncache.Snapshot[V]) State {
	switch {
	case !snap.HasValue && (snap.Status == syncache.StatusLoading || snap.Status == syncache.StatusIdle):
		return StateLoading
	case snap.Status == syncache.StatusError:
		return StateError
	case snap.Stale:
		return StateStale
	default:
		return StateFresh
	}
}

// Package promhooks exports store diagnostics as Prometheus counters.
//
// Counters are labeled by the logical store name, not by key: keys are
// user-shaped and would blow up cardinality.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/syncache"
)

type Hooks struct {
	fetchDiscarded   prometheus.Counter
	fetchFailed      prometheus.Counter
	writeRolledBack  prometheus.Counter
	subscriberPanics prometheus.Counter
}

var _ syncache.Hooks = (*Hooks)(nil)

// New registers the counters with reg and returns the hook set. store names
// the Store instance (e.g. "clients", "revenue_trend").
func New(reg prometheus.Registerer, namespace, store string) (*Hooks, error) {
	labels := prometheus.Labels{"store": store}
	h := &Hooks{
		fetchDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "fetch_discarded_total",
			Help:        "Fetch results discarded because a local write superseded them",
			ConstLabels: labels,
		}),
		fetchFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "fetch_failed_total",
			Help:        "Failed fetches (last good value retained)",
			ConstLabels: labels,
		}),
		writeRolledBack: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "write_rolled_back_total",
			Help:        "Optimistic updates rolled back after a failed remote write",
			ConstLabels: labels,
		}),
		subscriberPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "subscriber_panics_total",
			Help:        "Subscriber callbacks recovered from panic",
			ConstLabels: labels,
		}),
	}
	for _, c := range []prometheus.Collector{
		h.fetchDiscarded, h.fetchFailed, h.writeRolledBack, h.subscriberPanics,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// MustNew is like New but panics on registration errors. Handy at startup.
func MustNew(reg prometheus.Registerer, namespace, store string) *Hooks {
	h, err := New(reg, namespace, store)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *Hooks) FetchDiscarded(string, uint64, uint64) { h.fetchDiscarded.Inc() }
func (h *Hooks) FetchFailed(string, error)             { h.fetchFailed.Inc() }
func (h *Hooks) WriteRolledBack(string, error)         { h.writeRolledBack.Inc() }
func (h *Hooks) SubscriberPanic(string, any)           { h.subscriberPanics.Inc() }

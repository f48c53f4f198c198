// Package stats aggregates generation counts reported by search
// workers. Counts arrive as batched messages; a single goroutine owns
// the running totals, so no cross-worker locking is needed.
package stats

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Delta is one batched count report from a worker.
type Delta struct {
	Generated uint64
	Found     uint64
}

// Aggregator maintains the two monotonic search counters. Deltas are
// folded in by a single run goroutine; readers get a published snapshot
// that may trail the queue by whatever is still in flight, which is
// merely stale, never corrupt.
type Aggregator struct {
	deltas chan Delta
	flush  chan chan struct{}

	generated atomic.Uint64 // published totals
	found     atomic.Uint64

	generatedTotal prometheus.Counter
	foundTotal     prometheus.Counter
}

// New creates an aggregator and registers its counters with reg. A nil
// registerer skips metrics registration (used in tests).
func New(reg prometheus.Registerer) *Aggregator {
	a := &Aggregator{
		deltas: make(chan Delta, 256),
		flush:  make(chan chan struct{}),
		generatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "onionhunter_addresses_generated_total",
			Help: "Total candidate onion addresses generated.",
		}),
		foundTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "onionhunter_addresses_found_total",
			Help: "Total matching onion addresses found.",
		}),
	}
	if reg != nil {
		reg.MustRegister(a.generatedTotal, a.foundTotal)
	}
	go a.run()
	return a
}

// Report queues one count delta. Workers report in large batches, so
// this blocks only under a severe backlog.
func (a *Aggregator) Report(generated, found uint64) {
	a.deltas <- Delta{Generated: generated, Found: found}
}

// Snapshot returns the current totals. Monotonic; a concurrent read may
// be slightly behind the latest reports.
func (a *Aggregator) Snapshot() (generated, found uint64) {
	return a.generated.Load(), a.found.Load()
}

// Flush blocks until every delta queued before the call has been folded
// into the totals.
func (a *Aggregator) Flush() {
	ack := make(chan struct{})
	a.flush <- ack
	<-ack
}

func (a *Aggregator) run() {
	for {
		select {
		case d := <-a.deltas:
			a.apply(d)
		case ack := <-a.flush:
			// Drain everything already queued before acknowledging.
			for {
				select {
				case d := <-a.deltas:
					a.apply(d)
					continue
				default:
				}
				break
			}
			close(ack)
		}
	}
}

func (a *Aggregator) apply(d Delta) {
	if d.Generated > 0 {
		a.generated.Add(d.Generated)
		a.generatedTotal.Add(float64(d.Generated))
	}
	if d.Found > 0 {
		a.found.Add(d.Found)
		a.foundTotal.Add(float64(d.Found))
	}
}

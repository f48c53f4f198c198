// Package cpu implements the Generator interface with a pool of
// CPU-bound worker goroutines. Workers share no mutable state: each one
// buffers its own generation count locally and flushes it to the stats
// aggregator as a batched message, on every match, and on shutdown.
package cpu

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/onionvanity/onionhunter/pkg/generator"
	"github.com/onionvanity/onionhunter/pkg/generator/stats"
	"github.com/onionvanity/onionhunter/pkg/generator/tor"
	"github.com/onionvanity/onionhunter/pkg/onion"
)

const (
	defaultReportEvery = 1000
	defaultGracePeriod = 2 * time.Second
)

// Coordinator implements generator.Generator using one goroutine per
// worker. A found match does not stop the search; every match is
// delivered and workers keep running until the context is cancelled.
type Coordinator struct {
	source onion.KeyPairSource
	agg    *stats.Aggregator
	log    *zap.Logger

	state     atomic.Int32
	startTime time.Time
}

// New creates a coordinator. A nil source uses crypto/rand; a nil
// logger discards log output. The aggregator is required.
func New(source onion.KeyPairSource, agg *stats.Aggregator, log *zap.Logger) *Coordinator {
	if source == nil {
		source = onion.RandSource{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{source: source, agg: agg, log: log}
	c.state.Store(int32(generator.StateIdle))
	return c
}

// Name returns the implementation name.
func (c *Coordinator) Name() string {
	return "CPU"
}

// State returns the current lifecycle state.
func (c *Coordinator) State() generator.State {
	return generator.State(c.state.Load())
}

// Stats returns the current throughput statistics.
func (c *Coordinator) Stats() generator.Stats {
	gen, found := c.agg.Snapshot()
	elapsed := time.Since(c.startTime).Seconds()

	var rate float64
	if elapsed > 0 {
		rate = float64(gen) / elapsed
	}
	return generator.Stats{
		Generated:   gen,
		Found:       found,
		Rate:        rate,
		ElapsedSecs: elapsed,
	}
}

// Start begins the search. The returned channel receives every match
// and is closed once all workers have drained (or the grace period
// elapsed) after the context is cancelled.
func (c *Coordinator) Start(ctx context.Context, cfg *generator.Config) (<-chan generator.Result, error) {
	matcher, err := tor.NewMatcher(cfg.Prefixes)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	reportEvery := cfg.ReportEvery
	if reportEvery <= 0 {
		reportEvery = defaultReportEvery
	}
	grace := cfg.GracePeriod
	if grace <= 0 {
		grace = defaultGracePeriod
	}

	c.startTime = time.Now()
	c.state.Store(int32(generator.StateRunning))

	found := make(chan generator.Result)
	out := make(chan generator.Result)
	stopPump := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go c.worker(ctx, i, matcher, reportEvery, found, &wg)
	}
	go pump(found, out, stopPump)
	go c.supervise(ctx, &wg, workers, grace, stopPump)

	c.log.Info("search started",
		zap.Int("workers", workers),
		zap.Strings("prefixes", matcher.Prefixes()),
		zap.Int("report_every", reportEvery))

	return out, nil
}

// supervise watches for cancellation, drives the Draining transition,
// and bounds shutdown latency with the grace period.
func (c *Coordinator) supervise(ctx context.Context, wg *sync.WaitGroup, workers int, grace time.Duration, stopPump chan<- struct{}) {
	workersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(workersDone)
	}()

	select {
	case <-ctx.Done():
		c.state.Store(int32(generator.StateDraining))
		c.log.Info("stop requested, draining workers", zap.Int("workers", workers))
		select {
		case <-workersDone:
			c.log.Info("all workers drained")
		case <-time.After(grace):
			// Unflushed counts from stragglers are lost; accepted
			// imprecision rather than an error.
			c.log.Warn("grace period elapsed before all workers drained",
				zap.Duration("grace_period", grace))
		}
	case <-workersDone:
		// Every worker died before cancellation: keypair source failure.
		c.state.Store(int32(generator.StateDraining))
		c.log.Error("all workers exited before cancellation")
	}

	c.state.Store(int32(generator.StateStopped))
	close(stopPump)
}

// worker runs the tight generate-and-test loop. It owns a local
// unreported count so the hot path sends no message per candidate, and
// flushes that count on match, every reportEvery generations, and on
// exit so a graceful drain loses nothing.
func (c *Coordinator) worker(ctx context.Context, id int, matcher *tor.Matcher, reportEvery int, found chan<- generator.Result, wg *sync.WaitGroup) {
	defer wg.Done()

	cand := tor.NewCandidate(c.source)
	c.log.Debug("worker started", zap.Int("worker", id))

	var unreported uint64
	defer func() {
		if unreported > 0 {
			c.agg.Report(unreported, 0)
		}
		c.log.Debug("worker stopped", zap.Int("worker", id))
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := cand.Next()
		if err != nil {
			// Randomness source failure; nothing a retry can fix.
			c.log.Error("worker halted by keypair source failure",
				zap.Int("worker", id), zap.Error(err))
			return
		}
		unreported++

		if matcher.Matches(res.Hostname) {
			c.agg.Report(unreported, 1)
			unreported = 0
			select {
			case found <- res:
			case <-ctx.Done():
				// Shutting down; the match is dropped with the search.
				return
			}
			continue
		}

		if unreported >= uint64(reportEvery) {
			c.agg.Report(unreported, 0)
			unreported = 0
		}
	}
}

// pump moves matches from the workers onto an unbounded queue so a slow
// or absent consumer never stalls the search, preserving arrival order.
func pump(found <-chan generator.Result, out chan<- generator.Result, stop <-chan struct{}) {
	var queue []generator.Result
	for {
		var send chan<- generator.Result
		var head generator.Result
		if len(queue) > 0 {
			send = out
			head = queue[0]
		}
		select {
		case r := <-found:
			queue = append(queue, r)
		case send <- head:
			queue = queue[1:]
		case <-stop:
			close(out)
			return
		}
	}
}

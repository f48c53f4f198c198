package cpu

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/onionvanity/onionhunter/pkg/generator"
	"github.com/onionvanity/onionhunter/pkg/generator/stats"
	"github.com/onionvanity/onionhunter/pkg/onion"
)

// countingSource counts every generated keypair so tests can compare
// the aggregator totals against ground truth.
type countingSource struct {
	calls atomic.Uint64
	inner onion.RandSource
}

func (s *countingSource) Generate() (onion.KeyPair, error) {
	s.calls.Add(1)
	return s.inner.Generate()
}

type failingSource struct{}

func (failingSource) Generate() (onion.KeyPair, error) {
	return onion.KeyPair{}, errors.New("entropy exhausted")
}

// allPrefixes matches every possible hostname: one prefix per base32
// alphabet character.
func allPrefixes() []string {
	return strings.Split("abcdefghijklmnopqrstuvwxyz234567", "")
}

func waitForState(t *testing.T, c *Coordinator, want generator.State) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if c.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %v, want %v", c.State(), want)
}

func TestStartRejectsEmptyPrefixSet(t *testing.T) {
	c := New(nil, stats.New(nil), nil)
	if _, err := c.Start(context.Background(), &generator.Config{}); err == nil {
		t.Fatal("empty prefix set was accepted")
	}
	if c.State() != generator.StateIdle {
		t.Fatalf("state = %v after rejected start, want Idle", c.State())
	}
}

func TestSearchDeliversEveryMatchUntilCancelled(t *testing.T) {
	agg := stats.New(nil)
	c := New(nil, agg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	results, err := c.Start(ctx, &generator.Config{
		Prefixes: allPrefixes(),
		Workers:  2,
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if c.State() != generator.StateRunning {
		t.Fatalf("state = %v after start, want Running", c.State())
	}

	// Every hostname matches, so matches keep arriving after the first.
	for i := 0; i < 3; i++ {
		select {
		case res := <-results:
			if len(res.Hostname) != onion.HostnameLen {
				t.Fatalf("hostname %q has length %d, want %d", res.Hostname, len(res.Hostname), onion.HostnameLen)
			}
			if _, err := onion.ParseSecretBlob(res.PrivateKey); err != nil {
				t.Fatalf("match %d has invalid secret blob: %v", i, err)
			}
		case <-time.After(10 * time.Second):
			t.Fatalf("no match %d within deadline", i)
		}
	}

	cancel()
	for range results {
		// Drain until the coordinator closes the channel.
	}
	waitForState(t, c, generator.StateStopped)

	agg.Flush()
	_, found := agg.Snapshot()
	if found < 3 {
		t.Fatalf("found = %d, want at least 3", found)
	}
}

func TestGracefulDrainLosesNoCounts(t *testing.T) {
	src := &countingSource{}
	agg := stats.New(nil)
	c := New(src, agg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	results, err := c.Start(ctx, &generator.Config{
		Prefixes:    []string{"zzzzzzzzzz"}, // effectively never matches
		Workers:     4,
		ReportEvery: 100,
		GracePeriod: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	cancel()
	for range results {
	}
	waitForState(t, c, generator.StateStopped)

	agg.Flush()
	gen, _ := agg.Snapshot()
	if want := src.calls.Load(); gen != want {
		t.Fatalf("aggregated generated = %d, workers generated %d; graceful drain must lose nothing", gen, want)
	}
	if gen == 0 {
		t.Fatal("no candidates generated during the run")
	}
}

func TestAllWorkersFatalClosesResultChannel(t *testing.T) {
	agg := stats.New(nil)
	c := New(failingSource{}, agg, nil)

	results, err := c.Start(context.Background(), &generator.Config{
		Prefixes: []string{"test"},
		Workers:  3,
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	select {
	case _, ok := <-results:
		if ok {
			t.Fatal("received a result from a failing source")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("result channel not closed after fatal source failure")
	}
	waitForState(t, c, generator.StateStopped)
}

func TestStatsReflectAggregatedCounts(t *testing.T) {
	src := &countingSource{}
	agg := stats.New(nil)
	c := New(src, agg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	results, err := c.Start(ctx, &generator.Config{
		Prefixes:    []string{"zzzzzzzzzz"},
		Workers:     2,
		ReportEvery: 10,
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if s := c.Stats(); s.Generated > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if s := c.Stats(); s.Generated == 0 {
		t.Fatal("stats never advanced")
	}

	cancel()
	for range results {
	}
	waitForState(t, c, generator.StateStopped)
}

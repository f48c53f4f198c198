package stats

import (
	"sync"
	"testing"
)

func TestAggregatorSumsConcurrentReports(t *testing.T) {
	a := New(nil)

	const reporters = 8
	const reportsEach = 100

	var wg sync.WaitGroup
	wg.Add(reporters)
	for i := 0; i < reporters; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < reportsEach; j++ {
				a.Report(10, 1)
			}
		}()
	}
	wg.Wait()
	a.Flush()

	gen, found := a.Snapshot()
	if want := uint64(reporters * reportsEach * 10); gen != want {
		t.Fatalf("generated = %d, want %d", gen, want)
	}
	if want := uint64(reporters * reportsEach); found != want {
		t.Fatalf("found = %d, want %d", found, want)
	}
}

func TestAggregatorSnapshotMonotonic(t *testing.T) {
	a := New(nil)
	var last uint64
	for i := 0; i < 50; i++ {
		a.Report(uint64(i), 0)
		a.Flush()
		gen, _ := a.Snapshot()
		if gen < last {
			t.Fatalf("snapshot went backwards: %d after %d", gen, last)
		}
		last = gen
	}
}

func TestAggregatorZeroDeltaIsNoop(t *testing.T) {
	a := New(nil)
	a.Report(0, 0)
	a.Flush()
	gen, found := a.Snapshot()
	if gen != 0 || found != 0 {
		t.Fatalf("totals = (%d, %d), want (0, 0)", gen, found)
	}
}

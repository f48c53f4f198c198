// Package generator defines the interface for vanity onion address
// generation. This design keeps the search backend swappable and the
// caller decoupled from the worker pool implementation.
package generator

import (
	"context"
	"time"
)

// Config holds the configuration for a vanity address search.
type Config struct {
	Prefixes    []string      // Desired hostname prefixes, tested in order
	Workers     int           // Number of concurrent workers (0 = CPU cores)
	ReportEvery int           // Generations per batched count report (0 = default)
	GracePeriod time.Duration // Max wait for workers to drain on shutdown (0 = default)
}

// Result contains a successfully found vanity address and its
// serialized key material. Immutable once constructed.
type Result struct {
	Hostname   string // Full hostname including the .onion suffix
	PublicKey  string // Base64 public key blob (hs_ed25519_public_key layout)
	PrivateKey string // Base64 expanded secret key blob (hs_ed25519_secret_key layout)
	Seed       []byte // Raw 32-byte seed of the winning key
}

// Stats holds a point-in-time view of search throughput.
type Stats struct {
	Generated   uint64  // Total candidate addresses generated
	Found       uint64  // Total matching addresses found
	Rate        float64 // Candidates per second
	ElapsedSecs float64 // Time elapsed since the search started
}

// State is the lifecycle state of a search.
type State int32

const (
	StateIdle     State = iota // Not started
	StateRunning               // Workers generating candidates
	StateDraining              // Stop requested, workers flushing final counts
	StateStopped               // All workers exited (or grace period elapsed)
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateDraining:
		return "Draining"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Generator defines the contract for search backends.
type Generator interface {
	// Start begins the search with the given configuration. It returns
	// a channel delivering every match found; the search runs until the
	// context is cancelled, after which the channel is closed. The
	// returned error covers configuration problems only.
	Start(ctx context.Context, config *Config) (<-chan Result, error)

	// Stats returns the current throughput statistics.
	// Safe to call concurrently from any goroutine.
	Stats() Stats

	// Name returns the implementation name (e.g., "CPU").
	Name() string
}

// Package tor implements candidate generation and prefix matching for
// Tor v3 onion addresses.
package tor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/onionvanity/onionhunter/pkg/onion"
)

// Matcher tests hostnames against an ordered set of prefixes.
// Prefixes are normalized once at construction so the hot loop does no
// per-call lowering or trimming.
type Matcher struct {
	prefixes []string
}

// ErrNoPrefixes is returned when the prefix set is empty after
// normalization. An empty set is a configuration error the caller must
// reject before starting a search.
var ErrNoPrefixes = errors.New("tor: at least one non-empty prefix is required")

// NewMatcher creates a Matcher from operator-supplied prefixes. Each
// prefix is trimmed and lower-cased; blank entries are dropped. A
// prefix longer than a hostname body or outside the base32 alphabet
// can never match and is rejected.
func NewMatcher(prefixes []string) (*Matcher, error) {
	normalized := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if len(p) > onion.EncodedLen {
			return nil, fmt.Errorf("tor: prefix %q exceeds %d characters", p, onion.EncodedLen)
		}
		for i, c := range p {
			if (c < 'a' || c > 'z') && (c < '2' || c > '7') {
				return nil, fmt.Errorf("tor: prefix %q has invalid character %q at position %d (allowed: a-z, 2-7)", p, c, i)
			}
		}
		normalized = append(normalized, p)
	}
	if len(normalized) == 0 {
		return nil, ErrNoPrefixes
	}
	return &Matcher{prefixes: normalized}, nil
}

// Matches reports whether the hostname starts with any prefix in the
// set, tested in set order, short-circuiting on the first hit. The
// hostname is already lower-case by construction.
func (m *Matcher) Matches(hostname string) bool {
	for _, p := range m.prefixes {
		if strings.HasPrefix(hostname, p) {
			return true
		}
	}
	return false
}

// Prefixes returns the normalized prefix set.
func (m *Matcher) Prefixes() []string {
	return m.prefixes
}

// EstimateAttempts returns the expected number of candidates needed to
// match a single prefix of the given length: half of 32^n, since base32
// hostnames are uniform over the alphabet.
func EstimateAttempts(prefixLen int) float64 {
	if prefixLen <= 0 {
		return 1
	}
	attempts := 1.0
	for i := 0; i < prefixLen; i++ {
		attempts *= 32
	}
	return attempts / 2
}

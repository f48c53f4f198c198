// Package onion implements the Tor v3 hidden service address codec:
// hostname encoding, secret key expansion, and the on-disk key blob
// formats consumed by onion-service software.
package onion

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// KeySize is the length of a raw Ed25519 public key or secret seed.
const KeySize = 32

// KeyPair holds the two raw 32-byte halves of a freshly generated
// Ed25519 key. It is owned by the worker that generated it and is
// discarded after encoding unless it turns out to be a match.
type KeyPair struct {
	Public [KeySize]byte
	Seed   [KeySize]byte
}

// KeyPairSource produces one fresh random Ed25519 keypair per call.
// Implementations must be safe for use from a single goroutine; each
// worker owns its own source or a stateless shared one.
type KeyPairSource interface {
	Generate() (KeyPair, error)
}

// RandSource is the default KeyPairSource, backed by crypto/rand. It is
// stateless and safe to share across workers.
type RandSource struct{}

// Generate returns a fresh keypair. A failure here means the system
// randomness source is broken and is fatal to the calling worker.
func (RandSource) Generate() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("onion: generating keypair: %w", err)
	}
	var kp KeyPair
	copy(kp.Public[:], pub)
	copy(kp.Seed[:], priv.Seed())
	return kp, nil
}

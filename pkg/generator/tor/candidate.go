package tor

import (
	"github.com/onionvanity/onionhunter/pkg/generator"
	"github.com/onionvanity/onionhunter/pkg/onion"
)

// Candidate composes a KeyPairSource with the address codec into a
// single generate-a-candidate operation. Not safe for concurrent use;
// each worker owns its own Candidate.
type Candidate struct {
	src onion.KeyPairSource
}

// NewCandidate creates a candidate generator over src. A nil src uses
// the crypto/rand backed default.
func NewCandidate(src onion.KeyPairSource) *Candidate {
	if src == nil {
		src = onion.RandSource{}
	}
	return &Candidate{src: src}
}

// Next generates one fresh candidate: a keypair, its hostname, and both
// serialized key blobs. There are no retries; an error means the
// randomness source failed and is fatal to the calling worker.
func (c *Candidate) Next() (generator.Result, error) {
	kp, err := c.src.Generate()
	if err != nil {
		return generator.Result{}, err
	}

	expanded, err := onion.ExpandSecretKey(kp.Seed[:])
	if err != nil {
		return generator.Result{}, err
	}
	hostname, err := onion.EncodeHostname(kp.Public[:])
	if err != nil {
		return generator.Result{}, err
	}

	seed := make([]byte, onion.KeySize)
	copy(seed, kp.Seed[:])

	return generator.Result{
		Hostname:   hostname,
		PublicKey:  onion.SerializePublicBlob(kp.Public[:]),
		PrivateKey: onion.SerializeSecretBlob(expanded),
		Seed:       seed,
	}, nil
}

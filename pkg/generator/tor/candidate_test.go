package tor

import (
	"bytes"
	"errors"
	"testing"

	"github.com/onionvanity/onionhunter/pkg/onion"
)

// fixedSource returns the same keypair on every call.
type fixedSource struct {
	kp onion.KeyPair
}

func (s fixedSource) Generate() (onion.KeyPair, error) {
	return s.kp, nil
}

type failingSource struct{}

func (failingSource) Generate() (onion.KeyPair, error) {
	return onion.KeyPair{}, errors.New("entropy exhausted")
}

func TestCandidateNextBuildsCompleteResult(t *testing.T) {
	kp, err := onion.RandSource{}.Generate()
	if err != nil {
		t.Fatalf("keypair generation failed: %v", err)
	}

	res, err := NewCandidate(fixedSource{kp}).Next()
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}

	wantHost, err := onion.EncodeHostname(kp.Public[:])
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if res.Hostname != wantHost {
		t.Fatalf("hostname = %q, want %q", res.Hostname, wantHost)
	}

	pub, err := onion.ParsePublicBlob(res.PublicKey)
	if err != nil {
		t.Fatalf("parsing public blob: %v", err)
	}
	if !bytes.Equal(pub, kp.Public[:]) {
		t.Fatal("public blob does not contain the raw public key")
	}

	wantExpanded, err := onion.ExpandSecretKey(kp.Seed[:])
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	sec, err := onion.ParseSecretBlob(res.PrivateKey)
	if err != nil {
		t.Fatalf("parsing secret blob: %v", err)
	}
	if !bytes.Equal(sec, wantExpanded) {
		t.Fatal("secret blob does not contain the expanded secret key")
	}

	if !bytes.Equal(res.Seed, kp.Seed[:]) {
		t.Fatal("result seed does not match the keypair seed")
	}
}

func TestCandidateNextPropagatesSourceFailure(t *testing.T) {
	if _, err := NewCandidate(failingSource{}).Next(); err == nil {
		t.Fatal("source failure was swallowed")
	}
}

func TestCandidateNilSourceDefaults(t *testing.T) {
	res, err := NewCandidate(nil).Next()
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if len(res.Hostname) != onion.HostnameLen {
		t.Fatalf("hostname length = %d, want %d", len(res.Hostname), onion.HostnameLen)
	}
}

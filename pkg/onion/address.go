package onion

import (
	"encoding/base32"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// EncodedLen is the number of base32 characters in a v3 onion
	// hostname before the ".onion" suffix.
	EncodedLen = 56

	// HostnameLen is the full hostname length including the suffix.
	HostnameLen = EncodedLen + len(Suffix)

	// Suffix is appended to every encoded hostname.
	Suffix = ".onion"

	versionByte  = 0x03
	checksumSalt = ".onion checksum"
)

var hostEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// ErrInvalidKeyLength reports a key that is not exactly 32 bytes. The
// codec only ever receives keys produced by a KeyPairSource, so hitting
// this is a contract violation, not a runtime condition to recover from.
var ErrInvalidKeyLength = errors.New("onion: key must be exactly 32 bytes")

// Checksum computes the 2-byte address checksum:
// SHA3-256(".onion checksum" || pubkey || version)[:2].
func Checksum(pub []byte) [2]byte {
	h := sha3.New256()
	h.Write([]byte(checksumSalt))
	h.Write(pub)
	h.Write([]byte{versionByte})
	sum := h.Sum(nil)
	return [2]byte{sum[0], sum[1]}
}

// EncodeHostname maps a raw Ed25519 public key to its v3 onion
// hostname: base32(pubkey || checksum || version) lower-cased with the
// ".onion" suffix appended. The result is always 62 characters.
func EncodeHostname(pub []byte) (string, error) {
	if len(pub) != KeySize {
		return "", ErrInvalidKeyLength
	}

	var payload [KeySize + 3]byte
	copy(payload[:KeySize], pub)
	sum := Checksum(pub)
	payload[KeySize] = sum[0]
	payload[KeySize+1] = sum[1]
	payload[KeySize+2] = versionByte

	return strings.ToLower(hostEncoding.EncodeToString(payload[:])) + Suffix, nil
}

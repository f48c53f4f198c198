package onion

import "crypto/sha512"

// ExpandedKeySize is the length of an expanded Ed25519 secret key as
// stored in a hidden service secret key file.
const ExpandedKeySize = 64

// ExpandSecretKey derives the 64-byte expanded secret key from a raw
// 32-byte seed: SHA-512 over exactly the seed bytes, then clamped for
// curve arithmetic. The low 3 bits of byte 0 are cleared, the top bit
// of byte 31 is cleared and bit 6 of byte 31 is set. Deterministic.
func ExpandSecretKey(seed []byte) ([]byte, error) {
	if len(seed) != KeySize {
		return nil, ErrInvalidKeyLength
	}

	sum := sha512.Sum512(seed)
	sum[0] &= 248
	sum[31] &= 127
	sum[31] |= 64
	return sum[:], nil
}

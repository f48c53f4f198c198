package onion

import (
	"fmt"

	bip39 "github.com/tyler-smith/go-bip39"
)

// SeedMnemonic renders a 32-byte seed as a 24-word BIP-39 mnemonic for
// offline backup. The mnemonic encodes the seed exactly; feeding its
// entropy back through ExpandSecretKey reproduces the key.
func SeedMnemonic(seed []byte) (string, error) {
	if len(seed) != KeySize {
		return "", ErrInvalidKeyLength
	}
	words, err := bip39.NewMnemonic(seed)
	if err != nil {
		return "", fmt.Errorf("onion: encoding seed mnemonic: %w", err)
	}
	return words, nil
}

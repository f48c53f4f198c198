package onion

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

// Key blob headers are always exactly 32 bytes: the ASCII tag padded
// with three trailing NULs.
const (
	publicBlobHeader = "== ed25519v1-public: type0 ==\x00\x00\x00"
	secretBlobHeader = "== ed25519v1-secret: type0 ==\x00\x00\x00"

	// BlobHeaderSize is the fixed header length of a serialized key blob.
	BlobHeaderSize = 32
)

// SerializePublicBlob renders a raw public key in the base64 form of a
// hs_ed25519_public_key file: 32-byte header followed by the key bytes.
func SerializePublicBlob(pub []byte) string {
	return serializeBlob(publicBlobHeader, pub)
}

// SerializeSecretBlob renders an expanded secret key in the base64 form
// of a hs_ed25519_secret_key file.
func SerializeSecretBlob(expanded []byte) string {
	return serializeBlob(secretBlobHeader, expanded)
}

func serializeBlob(header string, key []byte) string {
	buf := make([]byte, 0, len(header)+len(key))
	buf = append(buf, header...)
	buf = append(buf, key...)
	return base64.StdEncoding.EncodeToString(buf)
}

// ParsePublicBlob decodes a serialized public blob back to the raw
// 32-byte public key, validating header and length.
func ParsePublicBlob(blob string) ([]byte, error) {
	return parseBlob(blob, publicBlobHeader, KeySize)
}

// ParseSecretBlob decodes a serialized secret blob back to the 64-byte
// expanded secret key, validating header and length.
func ParseSecretBlob(blob string) ([]byte, error) {
	return parseBlob(blob, secretBlobHeader, ExpandedKeySize)
}

func parseBlob(blob, header string, keyLen int) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("onion: decoding key blob: %w", err)
	}
	if len(raw) != BlobHeaderSize+keyLen {
		return nil, fmt.Errorf("onion: key blob is %d bytes, want %d", len(raw), BlobHeaderSize+keyLen)
	}
	if !bytes.Equal(raw[:BlobHeaderSize], []byte(header)) {
		return nil, fmt.Errorf("onion: unexpected key blob header %q", raw[:BlobHeaderSize])
	}
	return raw[BlobHeaderSize:], nil
}

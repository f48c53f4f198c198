package onion

import (
	"fmt"
	"os"
	"path/filepath"
)

// Hidden service directory file names expected by tor.
const (
	PublicKeyFile = "hs_ed25519_public_key"
	SecretKeyFile = "hs_ed25519_secret_key"
	HostnameFile  = "hostname"
)

// SaveKeyFiles writes the decoded key blobs and hostname into dir using
// the layout of a tor hidden service directory. Decoded bytes are
// written verbatim, no text transformation.
func SaveKeyFiles(dir, hostname, publicBlob, secretBlob string) error {
	pub, err := ParsePublicBlob(publicBlob)
	if err != nil {
		return err
	}
	sec, err := ParseSecretBlob(secretBlob)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("onion: creating key directory: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{PublicKeyFile, append([]byte(publicBlobHeader), pub...)},
		{SecretKeyFile, append([]byte(secretBlobHeader), sec...)},
		{HostnameFile, []byte(hostname + "\n")},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, 0o600); err != nil {
			return fmt.Errorf("onion: writing %s: %w", f.name, err)
		}
	}
	return nil
}

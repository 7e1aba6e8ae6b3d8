package network

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"

	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

// LoadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key when the file does not exist
// An empty path returns an ephemeral key
func LoadOrCreateHostKey(path string) (gossh.Signer, bool, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			signer, err := xssh.ParsePrivateKey(data)
			if err != nil {
				return nil, false, fmt.Errorf("parse host key %s: %w", path, err)
			}
			return signer, false, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, false, fmt.Errorf("read host key %s: %w", path, err)
		}
	}

	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, false, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, false, fmt.Errorf("create signer: %w", err)
	}
	if path == "" {
		return signer, true, nil
	}

	block, err := xssh.MarshalPrivateKey(key, "vi-piano host key")
	if err != nil {
		return nil, false, fmt.Errorf("marshal host key: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return nil, false, fmt.Errorf("write host key %s: %w", path, err)
	}
	return signer, true, nil
}

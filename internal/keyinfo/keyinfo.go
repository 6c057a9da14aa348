// Package keyinfo writes AES-128 keys and the key info files the HLS muxer
// reads through -hls_key_info_file.
package keyinfo

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// KeyLength is the AES-128 key and IV length in bytes.
const KeyLength = 16

// Generator creates key material on a filesystem.
type Generator struct {
	fs     afero.Fs
	random io.Reader
}

// New creates a Generator backed by crypto/rand.
func New(fs afero.Fs) *Generator {
	return &Generator{fs: fs, random: rand.Reader}
}

// Generate writes a random key to keyPath and a key info file to infoPath
// (keyPath + ".keyinfo" when empty). The info file holds the key URI
// players fetch, the local key path and a random IV in hex.
// It returns the info file path.
func (g *Generator) Generate(keyPath, keyURL, infoPath string) (string, error) {
	if keyPath == "" || keyURL == "" {
		return "", fmt.Errorf("key path and key url are required")
	}

	if infoPath == "" {
		infoPath = keyPath + ".keyinfo"
	}

	key := make([]byte, KeyLength)
	if _, err := io.ReadFull(g.random, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}

	iv := make([]byte, KeyLength)
	if _, err := io.ReadFull(g.random, iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	for _, p := range []string{keyPath, infoPath} {
		if err := g.fs.MkdirAll(path.Dir(strings.ReplaceAll(p, `\`, "/")), 0o755); err != nil {
			return "", fmt.Errorf("failed to create key directory: %w", err)
		}
	}

	if err := afero.WriteFile(g.fs, keyPath, key, 0o600); err != nil {
		return "", fmt.Errorf("failed to write key: %w", err)
	}

	info := strings.Join([]string{keyURL, keyPath, hex.EncodeToString(iv)}, "\n") + "\n"
	if err := afero.WriteFile(g.fs, infoPath, []byte(info), 0o600); err != nil {
		return "", fmt.Errorf("failed to write key info: %w", err)
	}

	return infoPath, nil
}

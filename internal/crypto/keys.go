package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const derivedKeyLength = 32

var ErrEmptySecret = errors.New("secret must not be empty")

// Keys holds the purpose-bound keys derived from the master secret.
type Keys struct {
	// Suggestion keys the fingerprints of issued passwords.
	Suggestion []byte
	// Origin keys the fingerprints of request origins in the metadata log.
	Origin []byte
}

// DeriveKeys expands the master secret into independent sub-keys with
// HKDF-SHA256, one per purpose, so an origin fingerprint can never be
// compared with a suggestion fingerprint.
func DeriveKeys(secret []byte) (Keys, error) {
	if len(secret) == 0 {
		return Keys{}, ErrEmptySecret
	}

	suggestion, err := deriveKey(secret, "passcheck suggestion fingerprint v1")
	if err != nil {
		return Keys{}, err
	}
	origin, err := deriveKey(secret, "passcheck origin fingerprint v1")
	if err != nil {
		return Keys{}, err
	}

	return Keys{Suggestion: suggestion, Origin: origin}, nil
}

func deriveKey(secret []byte, info string) ([]byte, error) {
	key := make([]byte, derivedKeyLength)
	r := hkdf.New(sha256.New, secret, nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving %q key: %w", info, err)
	}
	return key, nil
}

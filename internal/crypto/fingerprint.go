package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// FingerprintSize is the length in bytes of a Fingerprint.
const FingerprintSize = sha256.Size

// Fingerprint is the one-way HMAC-SHA256 digest of a password under a secret
// key. It can only be built by NewFingerprint, so anything that accepts a
// Fingerprint can never be handed a plaintext password.
type Fingerprint struct {
	sum [FingerprintSize]byte
}

// NewFingerprint computes HMAC-SHA256(key, password).
func NewFingerprint(key []byte, password string) Fingerprint {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(password))

	var fp Fingerprint
	copy(fp.sum[:], mac.Sum(nil))
	return fp
}

// Hex returns the lowercase hex encoding used as the storage key.
func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f.sum[:])
}

// String implements fmt.Stringer.
func (f Fingerprint) String() string {
	return f.Hex()
}

// Equal compares two fingerprints in constant time.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return hmac.Equal(f.sum[:], other.sum[:])
}

package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// Wire-form and bare encodings of the same point yield the same value. The
// point is hashed with SHA-256 and truncated to 10 bytes (20 hex chars).
// Keys that are not 32 or 33 bytes are hashed as given.
func Fingerprint(pub []byte) string {
	if raw, err := ToRawForm(pub); err == nil {
		pub = raw
	}
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:10])
}

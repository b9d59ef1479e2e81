// Package cryptox holds the cryptographic primitives used by filevault:
// the credential digest used for password and security-answer verification,
// and the AEAD envelope protecting vault payloads at rest.
package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSecret returns the SHA-256 digest of the secret encoded as lowercase
// hex (64 characters). The digest is deterministic and unsalted: equal
// secrets always produce identical output, which is what the stored-hash
// comparison scheme relies on.
//
// Note: a fast unsalted digest is a weak way to store credentials. The
// verification protocol depends on it being deterministic, so any move to a
// salted KDF has to migrate stored hashes at the same time.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

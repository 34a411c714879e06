// Package auth provides the password hashing boundary. The digest is the
// only credential form that ever reaches an entity or the database.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher is the pluggable one-way transform from plaintext credential to
// fixed-length digest. Implementations must be deterministic: login looks
// rows up by (email, digest) equality.
type Hasher interface {
	Hash(plaintext string) string
}

// SHA256Hasher hashes with SHA-256 and renders the digest as a 64-char
// lowercase hex string, matching the stored password_hash column.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

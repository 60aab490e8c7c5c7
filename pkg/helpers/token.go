package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// ResetTokenBytes is the entropy of a password reset token.
const ResetTokenBytes = 32

// GenResetToken returns a random hex token for out-of-band delivery.
func GenResetToken() (string, error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken is the one-way digest stored in place of a raw token.
func HashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}

// VerifyToken compares raw against a stored digest in constant time.
func VerifyToken(raw, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(HashToken(raw)), []byte(digest)) == 1
}

package security

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// VerifyAdminPassword checks a presented password against the configured
// admin credential. The credential may be a bcrypt hash or a plaintext
// value; plaintext comparison is constant-time.
func VerifyAdminPassword(presented, configured string) bool {
	if configured == "" || presented == "" {
		return false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(configured), []byte(presented)); err == nil {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}

// HashPassword produces a bcrypt hash suitable for ADMIN_PASSWORD.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

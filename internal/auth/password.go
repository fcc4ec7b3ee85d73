package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PasswordDigest computes hex(HMAC-SHA256(password, secret)). The digest, not
// the password, is what gets stored in the environment (ADMIN_PASSWORD_DIGEST).
func PasswordDigest(password, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPassword compares a candidate password against a stored digest in
// constant time.
func VerifyPassword(password, digest, secret string) bool {
	if digest == "" {
		return false
	}
	expected := PasswordDigest(password, secret)
	return hmac.Equal([]byte(expected), []byte(digest))
}

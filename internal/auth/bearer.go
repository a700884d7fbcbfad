package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strings"
)

const bearerPrefix = "Bearer "

var (
	// ErrMissing - Authorization header absent or not a Bearer credential.
	ErrMissing = errors.New("authorization header required")

	// ErrInvalid - Bearer credential present but does not match the secret.
	ErrInvalid = errors.New("invalid token")
)

// VerifyBearer checks the raw Authorization header value against the
// configured shared secret.
//
// Both the provided and the expected token are passed through an HMAC keyed
// by the secret before comparison. That normalizes lengths (so a plain
// constant-time compare cannot early-exit on length) and keeps the rejection
// time independent of where the first mismatched byte sits.
func VerifyBearer(header, secret string) error {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ErrMissing
	}
	provided := header[len(bearerPrefix):]

	providedSum := keyedHash(secret, provided)
	expectedSum := keyedHash(secret, secret)

	if subtle.ConstantTimeCompare(providedSum, expectedSum) != 1 {
		return ErrInvalid
	}
	return nil
}

func keyedHash(key, value string) []byte {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(value))
	return mac.Sum(nil)
}

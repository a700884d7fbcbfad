package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyBearer_Accepts(t *testing.T) {
	assert.NoError(t, VerifyBearer("Bearer s3cret", "s3cret"))
}

func TestVerifyBearer_MissingHeader(t *testing.T) {
	assert.ErrorIs(t, VerifyBearer("", "s3cret"), ErrMissing)
	assert.ErrorIs(t, VerifyBearer("Basic dXNlcjpwYXNz", "s3cret"), ErrMissing)
	assert.ErrorIs(t, VerifyBearer("bearer s3cret", "s3cret"), ErrMissing)
}

func TestVerifyBearer_WrongToken(t *testing.T) {
	assert.ErrorIs(t, VerifyBearer("Bearer nope", "s3cret"), ErrInvalid)
	assert.ErrorIs(t, VerifyBearer("Bearer s3cret ", "s3cret"), ErrInvalid)
	assert.ErrorIs(t, VerifyBearer("Bearer ", "s3cret"), ErrInvalid)
	// Prefix of the secret must not pass.
	assert.ErrorIs(t, VerifyBearer("Bearer s3cre", "s3cret"), ErrInvalid)
	// Secret with trailing data must not pass.
	assert.ErrorIs(t, VerifyBearer("Bearer s3cretX", "s3cret"), ErrInvalid)
}

// Statistical smoke check: rejection time for an early-byte mismatch should
// be in the same ballpark as for a late-byte mismatch. Generous tolerance,
// this only guards against an accidental reintroduction of a byte-wise
// early-exit compare.
func TestVerifyBearer_RejectionTimingIsFlat(t *testing.T) {
	const secret = "0123456789abcdef0123456789abcdef"
	early := "X123456789abcdef0123456789abcdef"
	late := "0123456789abcdef0123456789abcdeX"

	measure := func(token string) time.Duration {
		const rounds = 2000
		start := time.Now()
		for i := 0; i < rounds; i++ {
			require.ErrorIs(t, VerifyBearer("Bearer "+token, secret), ErrInvalid)
		}
		return time.Since(start)
	}

	// Warm up both paths before measuring.
	measure(early)
	measure(late)

	earlyDur := measure(early)
	lateDur := measure(late)

	ratio := float64(earlyDur) / float64(lateDur)
	assert.Greater(t, ratio, 0.5, "early-mismatch rejection suspiciously fast")
	assert.Less(t, ratio, 2.0, "late-mismatch rejection suspiciously slow")
}

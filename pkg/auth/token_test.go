package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789abcdef"

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	token, err := codec.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.True(t, codec.Validate(token))
}

func TestTokenCodec_ZeroAndNegativeTTLExpireImmediately(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Minute} {
		codec := NewTokenCodec(testSecret, ttl)

		token, err := codec.Issue(1)
		require.NoError(t, err)

		_, err = codec.Parse(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.False(t, codec.Validate(token))
	}
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	token, err := codec.Issue(42)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip one byte of the signature segment
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Parse(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer := NewTokenCodec(testSecret, time.Hour)
	verifier := NewTokenCodec("a-completely-different-secret", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_MalformedToken(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d", "not.a.jwt"} {
		_, err := codec.Parse(token)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", token)
	}
}

func TestTokenCodec_RejectsUnsignedAlgorithm(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_NonNumericSubject(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "not-a-user-id",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_MissingExpiry(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	claims := jwt.RegisteredClaims{Subject: "42"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

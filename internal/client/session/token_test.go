package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestIsValidToken(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "three segments", in: "a.b.c", want: true},
		{name: "padded", in: "  a.b.c  ", want: true},
		{name: "empty", in: "", want: false},
		{name: "whitespace only", in: "   ", want: false},
		{name: "literal null", in: "null", want: false},
		{name: "literal undefined", in: "undefined", want: false},
		{name: "stringified object", in: "[object Object]", want: false},
		{name: "literal true", in: "true", want: false},
		{name: "two segments", in: "a.b", want: false},
		{name: "four segments", in: "a.b.c.d", want: false},
		{name: "no dots", in: "abc", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidToken(tc.in))
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, err := TokenExpiry(signedToken(t, exp))
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))

	got, err = TokenExpiry(signedToken(t, time.Time{}))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = TokenExpiry("not.a.jwt")
	require.Error(t, err)
}

func TestExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, Expired(signedToken(t, now.Add(time.Hour)), now))
	assert.True(t, Expired(signedToken(t, now.Add(-time.Hour)), now))
	// no exp claim never expires
	assert.False(t, Expired(signedToken(t, time.Time{}), now))
	// garbage payload counts as expired
	assert.True(t, Expired("a.b.c", now))
}

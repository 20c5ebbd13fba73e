// Package session persists the client session (bearer token, role, cached
// profile) in the local sqlite database and validates token shape and expiry.
package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// invalidLiterals are string values that earlier client versions wrote into
// storage instead of a real token. They are rejected outright.
var invalidLiterals = map[string]struct{}{
	"null":            {},
	"undefined":       {},
	"[object Object]": {},
	"true":            {},
}

// IsValidToken reports whether s has the shape of a usable session token:
// non-empty after trimming, not a known garbage literal, and exactly three
// dot-separated segments. It does not verify the signature; the backend owns
// the signing key.
func IsValidToken(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if _, ok := invalidLiterals[s]; ok {
		return false
	}
	return len(strings.Split(s, ".")) == 3
}

// TokenExpiry decodes the payload segment without verifying the signature and
// returns the expiry claim. A token without an exp claim yields the zero time
// and no error. A token whose payload cannot be decoded yields an error and
// must be treated as invalid.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// Expired reports whether the token carries an expiry claim in the past.
// Malformed tokens count as expired; tokens without an exp claim never do.
func Expired(token string, now time.Time) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	if exp.IsZero() {
		return false
	}
	return now.After(exp)
}

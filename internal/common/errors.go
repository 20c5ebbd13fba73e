// Package common defines shared constants and sentinel errors used across
// the SecuroVault client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level errors (no usable response was received).
	ErrUnavailable = errors.New("network error, check connection")

	// Server-rejected errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Flow-control errors.
	ErrNoToken           = errors.New("no session token")
	ErrCheckoutCancelled = errors.New("checkout cancelled")
)

// Package validate holds the client-side credential validators: identifier
// shape checks for login and the weighted master-password scorer for signup.
// Everything here runs before any network call.
package validate

import (
	"regexp"
	"strings"
)

const maxEmailLen = 254

var emailRe = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// usernameRe: 3–20 chars, starts with a letter, then letters/digits/._-
var usernameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]{2,19}$`)

// IsEmail reports whether s is an RFC-shaped email address.
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) <= maxEmailLen && emailRe.MatchString(s)
}

// IsUsername reports whether s is an acceptable account name.
func IsUsername(s string) bool {
	return usernameRe.MatchString(strings.TrimSpace(s))
}

// IsIdentifier reports whether s can be used to log in, as either an email
// or a username.
func IsIdentifier(s string) bool {
	return IsEmail(s) || IsUsername(s)
}

// ValidLoginPassword applies the login form's length rule. The signup flow
// uses the stricter ScorePassword instead.
func ValidLoginPassword(s string) bool {
	n := len(strings.TrimSpace(s))
	return n >= 6 && n <= 128
}

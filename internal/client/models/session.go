// Package models defines the client-side data model: the session held after
// authentication, vault entries and the derived storage quota.
package models

// Role is the account tier reported by the backend.
type Role string

const (
	RoleUser    Role = "USER"
	RolePremium Role = "PREMIUM"
)

// User is the cached profile of the authenticated account.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the client-held proof of authentication: an opaque bearer token
// shaped as three dot-separated segments, plus the cached role and profile.
//
// A Session is created on successful login or signup verification, mutated on
// role refresh, and destroyed on logout, expiry detection or malformed-token
// detection. Callers must treat the token as opaque except for the shape and
// expiry checks in the session package.
type Session struct {
	Token string
	Role  Role
	User  *User
}

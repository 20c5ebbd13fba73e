package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"  padded@example.com  ", true},
		{"", false},
		{"no-at-sign", false},
		{"user@", false},
		{"@example.com", false},
		{"user@-bad.com", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, IsEmail(tc.in), "IsEmail(%q)", tc.in)
	}
}

func TestIsUsername(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"alice", true},
		{"a1._-x", true},
		{"Xy9", true},
		{"ab", false},     // too short
		{"1alice", false}, // must start with a letter
		{"alice with sp", false},
		{"thisusernameiswaytoolong", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, IsUsername(tc.in), "IsUsername(%q)", tc.in)
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("user@example.com"))
	assert.True(t, IsIdentifier("alice"))
	assert.False(t, IsIdentifier("!!"))
}

func TestValidLoginPassword(t *testing.T) {
	assert.True(t, ValidLoginPassword("Secret1"))
	assert.True(t, ValidLoginPassword("123456"))
	assert.False(t, ValidLoginPassword("12345"))
	assert.False(t, ValidLoginPassword("  12345  "), "surrounding space does not count")
}

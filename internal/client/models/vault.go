package models

import (
	"strings"
	"time"
)

// ItemKind distinguishes stored files from folders.
type ItemKind string

const (
	KindFile   ItemKind = "FILE"
	KindFolder ItemKind = "FOLDER"
)

// encSuffix is appended by the backend to stored names after encryption.
// It is stripped for display only; the stored name is never rewritten.
const encSuffix = ".enc"

// VaultItem is one confirmed entry of the user's vault. Items are created
// when the backend confirms an upload, never mutated, and removed only by an
// explicit delete.
type VaultItem struct {
	ID        string
	Name      string
	Size      int64
	CreatedAt time.Time
	Kind      ItemKind
}

// DisplayName returns the item name with the server-side encryption suffix
// removed.
func (v VaultItem) DisplayName() string {
	return StripEncSuffix(v.Name)
}

// StripEncSuffix removes a trailing ".enc" (any case) from a stored name.
func StripEncSuffix(name string) string {
	if len(name) > len(encSuffix) && strings.EqualFold(name[len(name)-len(encSuffix):], encSuffix) {
		return name[:len(name)-len(encSuffix)]
	}
	return name
}

// StorageQuota is the usage snapshot shown on the dashboard. TotalMB is
// derived from the account role on every fetch; nothing here is persisted.
type StorageQuota struct {
	UsedMB  float64
	TotalMB float64
}

// Percent returns used storage as a 0–100 value, capped at 100.
func (q StorageQuota) Percent() float64 {
	if q.TotalMB <= 0 {
		return 0
	}
	p := q.UsedMB / q.TotalMB * 100
	if p > 100 {
		return 100
	}
	return p
}

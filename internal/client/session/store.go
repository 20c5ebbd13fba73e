package session

import (
	"context"

	"github.com/securoserv/securovault/internal/client/models"
)

// Store persists and retrieves the client session.
//
// Contract:
//   - Set: persists a session only when the token passes IsValidToken;
//     otherwise every session key is cleared and ErrInvalidToken returned.
//     A partially-valid session is never written.
//   - Token: scans the prioritized key list (canonical first, then legacy
//     spellings kept for backward read-compatibility) and returns the first
//     value passing the validity check, or "".
//   - Clear: removes every known key unconditionally; idempotent.
//   - Sanitize: runs once at startup and clears storage when the currently
//     stored token fails validity, guarding against corrupted state left by
//     prior client versions.
//
// All operations are synchronous; the single-threaded REPL is the only
// writer, so no locking is layered on top of sqlite's own.
type Store interface {
	Set(ctx context.Context, token string, role models.Role, user *models.User) error
	SetRole(ctx context.Context, role models.Role) error
	Token(ctx context.Context) (string, error)
	Role(ctx context.Context) (models.Role, error)
	Session(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
	Sanitize(ctx context.Context) error
}

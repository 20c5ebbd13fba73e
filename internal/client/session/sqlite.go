package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/securoserv/securovault/internal/client/models"
	"github.com/securoserv/securovault/internal/common"
	"github.com/securoserv/securovault/internal/dbx"
	"github.com/securoserv/securovault/internal/logging"
)

const (
	tokenKey = "sv_token"
	roleKey  = "sv_role"
	userKey  = "sv_user"
)

// tokenReadKeys is the prioritized scan order for Token. The canonical key
// comes first; the rest are legacy spellings older clients wrote.
var tokenReadKeys = []string{tokenKey, "token", "authToken", "sv_auth"}

// allKeys is everything Clear removes.
var allKeys = []string{tokenKey, "token", "authToken", "sv_auth", roleKey, userKey}

// OpenDatabase opens (creating if needed) the local sqlite database and
// ensures the session schema exists.
func OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session schema: %w", err)
	}
	return db, nil
}

// SQLiteStore is the Store implementation backed by the local sqlite
// database's session key/value table.
type SQLiteStore struct {
	db  *sql.DB
	log logging.Logger
}

func NewSQLiteStore(db *sql.DB, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log}
}

func (s *SQLiteStore) get(ctx context.Context, q dbx.DBTX, key string) (string, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return string(value), nil
}

func (s *SQLiteStore) set(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

// Set persists token, role and profile in a single transaction, or clears
// everything when the token fails the validity check.
func (s *SQLiteStore) Set(ctx context.Context, token string, role models.Role, user *models.User) error {
	if !IsValidToken(token) {
		s.log.Warn(ctx, "invalid token detected, clearing session storage")
		if err := s.Clear(ctx); err != nil {
			return err
		}
		return common.ErrInvalidToken
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.set(ctx, tx, tokenKey, []byte(strings.TrimSpace(token))); err != nil {
			return err
		}
		if role != "" {
			if err := s.set(ctx, tx, roleKey, []byte(strings.ToUpper(string(role)))); err != nil {
				return err
			}
		}
		if user != nil {
			data, err := json.Marshal(user)
			if err != nil {
				return fmt.Errorf("marshal user: %w", err)
			}
			if err := s.set(ctx, tx, userKey, data); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetRole updates only the cached role, uppercased on write.
func (s *SQLiteStore) SetRole(ctx context.Context, role models.Role) error {
	if role == "" {
		return nil
	}
	return s.set(ctx, s.db, roleKey, []byte(strings.ToUpper(string(role))))
}

// Token scans the prioritized key list and returns the first valid token,
// or "" when none of the stored values passes the check.
func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	for _, key := range tokenReadKeys {
		val, err := s.get(ctx, s.db, key)
		if err != nil {
			return "", err
		}
		if IsValidToken(val) {
			return strings.TrimSpace(val), nil
		}
	}
	return "", nil
}

// Role returns the cached role, defaulting to USER when none is stored.
func (s *SQLiteStore) Role(ctx context.Context) (models.Role, error) {
	val, err := s.get(ctx, s.db, roleKey)
	if err != nil {
		return "", err
	}
	if val == "" {
		return models.RoleUser, nil
	}
	return models.Role(strings.ToUpper(val)), nil
}

// Session assembles the full session, or returns nil when no valid token is
// stored. A stored profile that fails to decode is dropped silently; the
// token and role still form a usable session.
func (s *SQLiteStore) Session(ctx context.Context) (*models.Session, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	role, err := s.Role(ctx)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{Token: token, Role: role}

	raw, err := s.get(ctx, s.db, userKey)
	if err != nil {
		return nil, err
	}
	if raw != "" {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			sess.User = &u
		}
	}
	return sess, nil
}

// Clear removes every known session key unconditionally.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range allKeys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, key); err != nil {
				return fmt.Errorf("failed to delete session[%s]: %w", key, err)
			}
		}
		return nil
	})
}

// Sanitize clears storage when the stored token fails validity. It runs once
// at process start.
func (s *SQLiteStore) Sanitize(ctx context.Context) error {
	token, err := s.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		s.log.Warn(ctx, "no valid token in storage, clearing session keys")
		return s.Clear(ctx)
	}
	return nil
}

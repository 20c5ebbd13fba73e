package guard

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securoserv/securovault/internal/client/models"
	"github.com/securoserv/securovault/internal/logging"
)

// fakeStore implements session.Store for guard tests.
type fakeStore struct {
	token   string
	cleared int
}

func (f *fakeStore) Set(ctx context.Context, token string, role models.Role, user *models.User) error {
	f.token = token
	return nil
}
func (f *fakeStore) SetRole(ctx context.Context, role models.Role) error { return nil }
func (f *fakeStore) Token(ctx context.Context) (string, error)           { return f.token, nil }
func (f *fakeStore) Role(ctx context.Context) (models.Role, error)       { return models.RoleUser, nil }
func (f *fakeStore) Session(ctx context.Context) (*models.Session, error) {
	if f.token == "" {
		return nil, nil
	}
	return &models.Session{Token: f.token, Role: models.RoleUser}, nil
}
func (f *fakeStore) Clear(ctx context.Context) error {
	f.cleared++
	f.token = ""
	return nil
}
func (f *fakeStore) Sanitize(ctx context.Context) error { return nil }

func newGuard(store *fakeStore, now time.Time) *Guard {
	g := New(store, logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	g.now = func() time.Time { return now }
	return g
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestCheck_ProtectedWithValidToken(t *testing.T) {
	now := time.Now()
	store := &fakeStore{token: tokenExpiringAt(t, now.Add(time.Hour))}

	d, err := newGuard(store, now).Check(context.Background(), RouteProtected)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
	assert.Zero(t, store.cleared)
}

func TestCheck_ProtectedWithExpiredTokenClearsSession(t *testing.T) {
	now := time.Now()
	store := &fakeStore{token: tokenExpiringAt(t, now.Add(-time.Minute))}

	d, err := newGuard(store, now).Check(context.Background(), RouteProtected)
	require.NoError(t, err)
	assert.Equal(t, RedirectToLogin, d)
	assert.Equal(t, 1, store.cleared)
}

func TestCheck_ProtectedWithNoToken(t *testing.T) {
	store := &fakeStore{}

	d, err := newGuard(store, time.Now()).Check(context.Background(), RouteProtected)
	require.NoError(t, err)
	assert.Equal(t, RedirectToLogin, d)
	assert.Equal(t, 1, store.cleared)
}

func TestCheck_AuthOnlyWithValidToken(t *testing.T) {
	now := time.Now()
	store := &fakeStore{token: tokenExpiringAt(t, now.Add(time.Hour))}

	d, err := newGuard(store, now).Check(context.Background(), RouteAuthOnly)
	require.NoError(t, err)
	assert.Equal(t, RedirectToDashboard, d)
}

func TestCheck_AuthOnlyWithoutToken(t *testing.T) {
	store := &fakeStore{}

	d, err := newGuard(store, time.Now()).Check(context.Background(), RouteAuthOnly)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
}

func TestCheck_DecisionIsRecomputedEachCall(t *testing.T) {
	now := time.Now()
	store := &fakeStore{token: tokenExpiringAt(t, now.Add(30*time.Second))}
	g := newGuard(store, now)
	ctx := context.Background()

	d, err := g.Check(ctx, RouteProtected)
	require.NoError(t, err)
	require.Equal(t, Allow, d)

	// same guard, time moved past the expiry claim
	g.now = func() time.Time { return now.Add(time.Minute) }
	d, err = g.Check(ctx, RouteProtected)
	require.NoError(t, err)
	assert.Equal(t, RedirectToLogin, d)
}

func TestCheck_PublicAlwaysAllowed(t *testing.T) {
	store := &fakeStore{}
	d, err := newGuard(store, time.Now()).Check(context.Background(), RoutePublic)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
}

package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securoserv/securovault/internal/client/api"
	"github.com/securoserv/securovault/internal/client/config"
	"github.com/securoserv/securovault/internal/client/guard"
	"github.com/securoserv/securovault/internal/client/models"
	"github.com/securoserv/securovault/internal/client/notify"
	"github.com/securoserv/securovault/internal/client/services"
	"github.com/securoserv/securovault/internal/client/session"
	"github.com/securoserv/securovault/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// memStore is an in-memory session.Store for command tests.
type memStore struct {
	token string
	role  models.Role
	user  *models.User
}

func (m *memStore) Set(ctx context.Context, token string, role models.Role, user *models.User) error {
	m.token, m.role, m.user = token, role, user
	return nil
}
func (m *memStore) SetRole(ctx context.Context, role models.Role) error { m.role = role; return nil }
func (m *memStore) Token(ctx context.Context) (string, error)           { return m.token, nil }
func (m *memStore) Role(ctx context.Context) (models.Role, error)       { return m.role, nil }
func (m *memStore) Session(ctx context.Context) (*models.Session, error) {
	if m.token == "" {
		return nil, nil
	}
	return &models.Session{Token: m.token, Role: m.role, User: m.user}, nil
}
func (m *memStore) Clear(ctx context.Context) error {
	m.token, m.role, m.user = "", "", nil
	return nil
}
func (m *memStore) Sanitize(ctx context.Context) error { return nil }

var _ session.Store = (*memStore)(nil)

// fakeVault records calls against the VaultService interface.
type fakeVault struct {
	cached      *api.AllData
	deleted     []string
	downloadRet string
}

func (f *fakeVault) Refresh(ctx context.Context) (*api.AllData, error) { return f.cached, nil }
func (f *fakeVault) Cached() *api.AllData                              { return f.cached }
func (f *fakeVault) Download(ctx context.Context, item models.VaultItem) (string, error) {
	return f.downloadRet, nil
}
func (f *fakeVault) Delete(ctx context.Context, fileID string) error {
	f.deleted = append(f.deleted, fileID)
	return nil
}

// sessionToken carries no exp claim, so it never expires in tests.
const sessionToken = "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ0In0.c2ln"

func testApp(t *testing.T, store *memStore, input string) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	log := testLogger()

	return &App{
		config:   cfg,
		log:      log,
		store:    store,
		guard:    guard.New(store, log),
		notifier: notify.NewPrinter(io.Discard, time.Millisecond),
		reader:   bufio.NewReader(strings.NewReader(input)),
	}
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	store := &memStore{token: sessionToken, role: models.RoleUser}
	vault := &fakeVault{cached: &api.AllData{
		Files: []models.VaultItem{{ID: "f1", Name: "doc.pdf.enc"}},
	}}

	// declined
	a := testApp(t, store, "n\n")
	a.vault = vault
	require.NoError(t, a.Delete(context.Background(), []string{"1"}))
	assert.Empty(t, vault.deleted, "a declined confirmation must not delete")

	// confirmed
	a = testApp(t, store, "y\n")
	a.vault = vault
	require.NoError(t, a.Delete(context.Background(), []string{"1"}))
	assert.Equal(t, []string{"f1"}, vault.deleted)
}

func TestDelete_RejectsBadNumbers(t *testing.T) {
	store := &memStore{token: sessionToken, role: models.RoleUser}
	vault := &fakeVault{cached: &api.AllData{
		Files: []models.VaultItem{{ID: "f1", Name: "doc.pdf.enc"}},
	}}

	for _, args := range [][]string{nil, {"0"}, {"2"}, {"x"}} {
		a := testApp(t, store, "y\n")
		a.vault = vault
		require.NoError(t, a.Delete(context.Background(), args))
	}
	assert.Empty(t, vault.deleted)
}

func TestDownload_ResolvesNumberedFile(t *testing.T) {
	store := &memStore{token: sessionToken, role: models.RoleUser}
	vault := &fakeVault{
		cached: &api.AllData{Files: []models.VaultItem{
			{ID: "f1", Name: "a.enc"},
			{ID: "f2", Name: "b.enc"},
		}},
		downloadRet: "downloads/b",
	}

	a := testApp(t, store, "")
	a.vault = vault
	require.NoError(t, a.Download(context.Background(), []string{"2"}))
}

func TestProtectedCommands_RefuseWithoutSession(t *testing.T) {
	store := &memStore{}
	vault := &fakeVault{cached: &api.AllData{
		Files: []models.VaultItem{{ID: "f1", Name: "doc.pdf.enc"}},
	}}

	a := testApp(t, store, "y\n")
	a.vault = vault

	require.NoError(t, a.Delete(context.Background(), []string{"1"}))
	require.NoError(t, a.Download(context.Background(), []string{"1"}))
	require.NoError(t, a.Upload(context.Background(), []string{"a.txt"}))
	assert.Empty(t, vault.deleted)
}

func TestLogin_SkipsPromptWhenAlreadyLoggedIn(t *testing.T) {
	origText := getSimpleText
	prompted := false
	getSimpleText = func(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
		prompted = true
		return "", io.EOF
	}
	t.Cleanup(func() { getSimpleText = origText })

	store := &memStore{token: sessionToken, role: models.RoleUser}
	a := testApp(t, store, "")

	require.NoError(t, a.Login(context.Background()))
	assert.False(t, prompted, "a logged-in user is sent to the dashboard, not prompted")
}

var _ services.VaultService = (*fakeVault)(nil)

package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/securoserv/securovault/internal/client/api"
	"github.com/securoserv/securovault/internal/client/config"
	"github.com/securoserv/securovault/internal/client/guard"
	"github.com/securoserv/securovault/internal/client/notify"
	"github.com/securoserv/securovault/internal/client/services"
	"github.com/securoserv/securovault/internal/client/session"
	"github.com/securoserv/securovault/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the services behind the interactive REPL.
type App struct {
	config   *config.Config
	log      logging.Logger
	store    session.Store
	guard    *guard.Guard
	notifier notify.Notifier

	auth    services.AuthService
	signup  services.SignupService
	uploads services.UploadService
	vault   services.VaultService
	payment services.PaymentService
	quota   services.QuotaService

	db     *sql.DB
	reader *bufio.Reader

	// the email waiting for OTP verification, empty outside signup
	pendingEmail string
}

// NewApp opens the local session database, sanitizes leftover state and wires
// every service to one HTTP client.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := session.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	store := session.NewSQLiteStore(db, log)
	if err := store.Sanitize(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sanitize session: %w", err)
	}

	tokens := api.TokenSourceFunc(store.Token)
	client := api.NewHTTPClient(cfg.BaseURL, cfg.RequestTimeout, tokens, log)
	notifier := notify.NewPrinter(os.Stdout, cfg.ToastTTL)

	a := &App{
		config:   cfg,
		log:      log,
		store:    store,
		guard:    guard.New(store, log),
		notifier: notifier,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
	}

	a.auth = services.NewAuthService(client, store, cfg, log)
	a.signup = services.NewSignupService(client, store, cfg, log)
	a.uploads = services.NewUploadService(client, notifier, cfg, log)
	a.vault = services.NewVaultService(client, notifier, cfg, log)
	a.payment = services.NewPaymentService(client, newPromptGateway(a.reader, os.Stdout), store, notifier, cfg, log)
	a.quota = services.NewQuotaService(client, store, cfg, log)

	return a, nil
}

// Run starts the quota poller and enters the REPL until EOF or exit.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	go a.quota.StartPoller(ctx)

	fmt.Println("Welcome to SecuroVault CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// Close releases the notifier and the session database.
func (a *App) Close() {
	a.notifier.Close()
	_ = a.db.Close()
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	d, err := a.guard.Check(ctx, guard.RouteProtected)
	return err == nil && d == guard.Allow
}

// status renders the prompt suffix: the username when logged in, plus the
// latest quota snapshot when one exists.
func (a *App) status() string {
	ctx := context.Background()
	sess, err := a.store.Session(ctx)
	if err != nil || sess == nil {
		return ""
	}

	s := string(sess.Role)
	if sess.User != nil && sess.User.Username != "" {
		s = sess.User.Username + " " + s
	}
	if q := a.quota.Latest(); q != nil {
		s = fmt.Sprintf("%s %.0f%%", s, q.Percent())
	}
	return "(" + s + ")"
}

// requireLogin runs the route guard for a protected command and tells the
// user to log in when the session is missing or expired.
func (a *App) requireLogin(ctx context.Context) bool {
	d, err := a.guard.Check(ctx, guard.RouteProtected)
	if err != nil {
		a.log.Error(ctx, "guard check failed", "error", err)
		return false
	}
	if d != guard.Allow {
		fmt.Println("Please login first")
		return false
	}
	return true
}

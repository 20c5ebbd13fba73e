// Package services contains application services for the SecuroVault client.
// Each service sits between the CLI and the remote API: it validates input,
// talks to the backend, keeps the local session store in sync and reports the
// navigation target the CLI should move to.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/securoserv/securovault/internal/client/api"
	"github.com/securoserv/securovault/internal/client/config"
	"github.com/securoserv/securovault/internal/client/models"
	"github.com/securoserv/securovault/internal/client/session"
	"github.com/securoserv/securovault/internal/client/validate"
	"github.com/securoserv/securovault/internal/logging"
)

// Validation failures raised before any network call is made.
var (
	ErrInvalidIdentifier = errors.New("enter a valid email address or username")
	ErrInvalidPassword   = errors.New("password must be 6-128 characters")
)

// Target names the screen the CLI should move to after an operation.
type Target string

const (
	TargetLogin     Target = "login"
	TargetDashboard Target = "dashboard"
	TargetVerify    Target = "verify"
)

// LoginOutcome is the result of a successful login: the resolved role and the
// screen to navigate to.
type LoginOutcome struct {
	Role   models.Role
	User   *models.User
	Target Target
}

// AuthService defines the login/logout operations for the CLI.
//
// Contract:
//   - Login: validates the identifier and password locally first; a rejected
//     form never reaches the network. On success the session is persisted
//     before the navigation target is reported.
//   - Logout: clears the local session unconditionally and reports the login
//     screen. It never calls the backend.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*LoginOutcome, error)
	Logout(ctx context.Context) (Target, error)
}

// authService is the concrete AuthService backed by the remote client and the
// local session store.
type authService struct {
	client api.Client
	store  session.Store
	config *config.Config
	log    logging.Logger
	sleep  func(time.Duration)
}

// NewAuthService constructs an AuthService bound to the given API client,
// session store and config.
func NewAuthService(client api.Client, store session.Store, cfg *config.Config, log logging.Logger) AuthService {
	return &authService{client: client, store: store, config: cfg, log: log, sleep: time.Sleep}
}

// Login authenticates against the backend. The identifier is routed as an
// email or username depending on which validation it passes; the settle delay
// runs after the session write so storage is flushed before navigation.
func (a *authService) Login(ctx context.Context, identifier, password string) (*LoginOutcome, error) {
	identifier = strings.TrimSpace(identifier)

	if !validate.IsIdentifier(identifier) {
		return nil, ErrInvalidIdentifier
	}
	if !validate.ValidLoginPassword(password) {
		return nil, ErrInvalidPassword
	}

	req := api.LoginRequest{Password: strings.TrimSpace(password)}
	if validate.IsEmail(identifier) {
		req.Email = identifier
	} else {
		req.Username = identifier
	}

	res, err := a.client.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	role := res.Role
	user := res.User
	if role == "" {
		role = models.RoleUser
	}

	// persist first so the token is available to authenticated calls, then
	// resolve the role with a follow-up request when login did not carry it
	if err := a.store.Set(ctx, res.Token, role, user); err != nil {
		return nil, fmt.Errorf("session save error: %w", err)
	}

	if res.Role == "" || user == nil {
		if me, err := a.client.Me(ctx); err == nil {
			if res.Role == "" && me.Role != "" && me.Role != role {
				role = me.Role
				if err := a.store.SetRole(ctx, role); err != nil {
					return nil, fmt.Errorf("session save error: %w", err)
				}
			}
			if user == nil {
				user = me.User
			}
		} else {
			a.log.Warn(ctx, "profile resolution failed after login", "error", err)
		}
	}

	a.sleep(a.config.SettleDelay)
	return &LoginOutcome{Role: role, User: user, Target: TargetDashboard}, nil
}

// Logout clears the session and reports the login screen. Clearing is
// idempotent, so a second logout is harmless.
func (a *authService) Logout(ctx context.Context) (Target, error) {
	if err := a.store.Clear(ctx); err != nil {
		return "", fmt.Errorf("session clear error: %w", err)
	}
	return TargetLogin, nil
}

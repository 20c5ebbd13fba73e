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

var (
	ErrInvalidEmail     = errors.New("enter a valid email address")
	ErrInvalidUsername  = errors.New("username must start with a letter and be 3-20 characters")
	ErrWeakPassword     = errors.New("password does not meet the strength requirements")
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrResendCooldown is returned while the resend rate limit is active.
	ErrResendCooldown = errors.New("please wait before requesting another code")
)

// SignupService drives the two-step registration flow.
//
// Contract:
//   - Begin: validates every field locally; a rejected form makes zero
//     network calls. On acceptance the account is created and the backend
//     sends an OTP to the given email.
//   - Verify: submits the 6-digit code and persists the returned session.
//   - Resend: rate-limited client-side; a call inside the cooldown window is
//     refused without touching the network.
type SignupService interface {
	Begin(ctx context.Context, email, username, password, confirm string) (Target, error)
	Verify(ctx context.Context, email, otp string) (*LoginOutcome, error)
	Resend(ctx context.Context, email string) error
	ResendRemaining() time.Duration
}

type signupService struct {
	client api.Client
	store  session.Store
	config *config.Config
	log    logging.Logger
	sleep  func(time.Duration)
	now    func() time.Time

	lastResend time.Time
}

// NewSignupService constructs a SignupService bound to the given API client,
// session store and config.
func NewSignupService(client api.Client, store session.Store, cfg *config.Config, log logging.Logger) SignupService {
	return &signupService{
		client: client,
		store:  store,
		config: cfg,
		log:    log,
		sleep:  time.Sleep,
		now:    time.Now,
	}
}

// Begin validates the signup form and creates the account. Validation runs in
// field order and stops at the first failure.
func (s *signupService) Begin(ctx context.Context, email, username, password, confirm string) (Target, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if !validate.IsEmail(email) {
		return "", ErrInvalidEmail
	}
	if !validate.IsUsername(username) {
		return "", ErrInvalidUsername
	}
	if !validate.ScorePassword(password).Valid {
		return "", ErrWeakPassword
	}
	if !validate.ConfirmMatches(password, confirm) {
		return "", ErrPasswordMismatch
	}

	req := api.CreateUserRequest{Email: email, Username: username, Password: password}
	if _, err := s.client.CreateUser(ctx, req); err != nil {
		return "", fmt.Errorf("signup error: %w", err)
	}

	// the first code was just sent; resends start cooling down now
	s.lastResend = s.now()
	return TargetVerify, nil
}

// Verify submits the OTP and, on success, persists the returned session and
// reports the dashboard after the settle delay.
func (s *signupService) Verify(ctx context.Context, email, otp string) (*LoginOutcome, error) {
	token, err := s.client.VerifyOTP(ctx, strings.TrimSpace(email), strings.TrimSpace(otp))
	if err != nil {
		return nil, fmt.Errorf("verification error: %w", err)
	}

	if err := s.store.Set(ctx, token, models.RoleUser, nil); err != nil {
		return nil, fmt.Errorf("session save error: %w", err)
	}

	s.sleep(s.config.SettleDelay)
	return &LoginOutcome{Role: models.RoleUser, Target: TargetDashboard}, nil
}

// Resend asks the backend for a fresh code, refusing inside the cooldown
// window without making a network call.
func (s *signupService) Resend(ctx context.Context, email string) error {
	if s.ResendRemaining() > 0 {
		return ErrResendCooldown
	}

	if err := s.client.ResendOTP(ctx, strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("resend error: %w", err)
	}
	s.lastResend = s.now()
	return nil
}

// ResendRemaining reports how long until the next resend is allowed, zero
// when one is allowed now.
func (s *signupService) ResendRemaining() time.Duration {
	if s.lastResend.IsZero() {
		return 0
	}
	remaining := s.config.ResendCooldown - s.now().Sub(s.lastResend)
	if remaining < 0 {
		return 0
	}
	return remaining
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/securoserv/securovault/internal/client/api"
	"github.com/securoserv/securovault/internal/client/config"
	"github.com/securoserv/securovault/internal/client/models"
	"github.com/securoserv/securovault/internal/client/notify"
	"github.com/securoserv/securovault/internal/client/session"
	"github.com/securoserv/securovault/internal/common"
	"github.com/securoserv/securovault/internal/logging"
)

// ErrCheckoutUnavailable is returned when the gateway key is not configured.
var ErrCheckoutUnavailable = errors.New("payment gateway is not configured")

// CheckoutResult carries the signature fields produced by a completed
// checkout.
type CheckoutResult struct {
	PaymentID string
	Signature string
}

// Gateway runs the interactive checkout for an order. Implementations return
// common.ErrCheckoutCancelled when the user dismisses the checkout without
// paying.
type Gateway interface {
	Checkout(ctx context.Context, keyID string, order *api.Order) (*CheckoutResult, error)
}

// PaymentStatus is one of the three ways an upgrade attempt ends.
type PaymentStatus int

const (
	PaymentVerified PaymentStatus = iota
	PaymentFailed
	PaymentCancelled
)

// PaymentOutcome reports how the upgrade attempt ended.
type PaymentOutcome struct {
	Status PaymentStatus
	Role   models.Role
}

// PaymentService drives the premium upgrade flow.
//
// Contract:
//   - Upgrade refuses to start without a valid session token or a configured
//     gateway key.
//   - A cancelled checkout is not an error: the outcome is neutral and no
//     verification request fires.
//   - A verified payment promotes the stored role to premium immediately; the
//     backend remains the authority on the next session refresh.
type PaymentService interface {
	Upgrade(ctx context.Context) (*PaymentOutcome, error)
}

type paymentService struct {
	client   api.Client
	gateway  Gateway
	store    session.Store
	notifier notify.Notifier
	config   *config.Config
	log      logging.Logger
}

// NewPaymentService constructs a PaymentService bound to the given API
// client, checkout gateway and session store.
func NewPaymentService(client api.Client, gateway Gateway, store session.Store, notifier notify.Notifier, cfg *config.Config, log logging.Logger) PaymentService {
	return &paymentService{
		client:   client,
		gateway:  gateway,
		store:    store,
		notifier: notifier,
		config:   cfg,
		log:      log,
	}
}

// Upgrade creates an order, runs the checkout and verifies the signature with
// the backend. The three outcomes map to: verified, failed (verification
// rejected), cancelled (user closed the checkout).
func (p *paymentService) Upgrade(ctx context.Context) (*PaymentOutcome, error) {
	token, err := p.store.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("session read error: %w", err)
	}
	if token == "" {
		p.notifier.Notify(notify.Warning, "Please login to upgrade", "")
		return nil, common.ErrNoToken
	}
	if p.config.CheckoutKeyID == "" {
		return nil, ErrCheckoutUnavailable
	}

	order, err := p.client.CreateOrder(ctx, p.config.OrderAmount)
	if err != nil {
		p.notifier.Notify(notify.Error, "Could not start payment", err.Error())
		return nil, fmt.Errorf("create order error: %w", err)
	}

	res, err := p.gateway.Checkout(ctx, p.config.CheckoutKeyID, order)
	if err != nil {
		if errors.Is(err, common.ErrCheckoutCancelled) {
			p.log.Info(ctx, "checkout dismissed", "order_id", order.ID)
			p.notifier.Notify(notify.Info, "Payment cancelled", "")
			return &PaymentOutcome{Status: PaymentCancelled}, nil
		}
		return nil, fmt.Errorf("checkout error: %w", err)
	}

	var username string
	if sess, err := p.store.Session(ctx); err == nil && sess != nil && sess.User != nil {
		username = sess.User.Username
	}

	verification := api.PaymentVerification{
		PaymentID: res.PaymentID,
		OrderID:   order.ID,
		Signature: res.Signature,
		Username:  username,
	}
	if err := p.client.VerifyPayment(ctx, verification); err != nil {
		p.log.Warn(ctx, "payment verification rejected", "order_id", order.ID, "error", err)
		p.notifier.Notify(notify.Error, "Payment verification failed", "please contact support")
		return &PaymentOutcome{Status: PaymentFailed}, nil
	}

	// optimistic promotion; the backend confirms on the next profile fetch
	if err := p.store.SetRole(ctx, models.RolePremium); err != nil {
		return nil, fmt.Errorf("session save error: %w", err)
	}

	p.notifier.Notify(notify.Success, "Payment verified", "premium features unlocked")
	return &PaymentOutcome{Status: PaymentVerified, Role: models.RolePremium}, nil
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/securoserv/securovault/internal/client/api"
	"github.com/securoserv/securovault/internal/client/services"
	"github.com/securoserv/securovault/internal/common"
)

// promptGateway runs the checkout in the terminal: it shows the order and
// collects the payment id and signature the gateway page displayed. An empty
// payment id means the user walked away, which maps to a cancelled checkout.
type promptGateway struct {
	reader *bufio.Reader
	w      io.Writer
}

func newPromptGateway(reader *bufio.Reader, w io.Writer) *promptGateway {
	return &promptGateway{reader: reader, w: w}
}

func (g *promptGateway) Checkout(ctx context.Context, keyID string, order *api.Order) (*services.CheckoutResult, error) {
	fmt.Fprintf(g.w, "Order %s for %d %s (key %s)\n", order.ID, order.Amount, order.Currency, keyID)
	fmt.Fprintln(g.w, "Complete the payment in your browser, then paste the confirmation below.")

	paymentID, err := getSimpleText(g.reader, "Payment id (empty to cancel)", g.w)
	if err != nil {
		return nil, err
	}
	if paymentID == "" {
		return nil, common.ErrCheckoutCancelled
	}

	signature, err := getSimpleText(g.reader, "Signature", g.w)
	if err != nil {
		return nil, err
	}
	return &services.CheckoutResult{PaymentID: paymentID, Signature: signature}, nil
}

// Upgrade runs the premium upgrade flow and reports the outcome.
func (a *App) Upgrade(ctx context.Context) error {
	if !a.requireLogin(ctx) {
		return nil
	}

	out, err := a.payment.Upgrade(ctx)
	if err != nil {
		fmt.Println("Upgrade failed:", err)
		return err
	}

	switch out.Status {
	case services.PaymentVerified:
		fmt.Println("You are now on the PREMIUM plan")
	case services.PaymentFailed:
		fmt.Println("The payment could not be verified; please contact support")
	case services.PaymentCancelled:
		fmt.Println("Payment cancelled")
	}
	return nil
}

package handlers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/app"
	"github.com/meetmart/meetmart/internal/payment"
)

// checkoutTimeout bounds how long we wait for the hosted checkout before
// giving up; the reference can still be verified later with pay-verify.
const checkoutTimeout = 5 * time.Minute

// ---------------------------------------------------------------------------
// CheckoutHandler – checkout
// ---------------------------------------------------------------------------

// CheckoutHandler initializes a payment for the cart total, hands the
// hosted checkout URL to the user, and waits for the gateway to settle.
type CheckoutHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(a *app.App, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{app: a, logger: logger}
}

// Handle processes the checkout command.
func (h *CheckoutHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	user := h.app.Session.Current()
	if user == nil {
		fmt.Fprintln(out, "Log in before checking out.")
		return nil
	}

	total := h.app.Cart.Total()
	count := h.app.Cart.ItemCount()
	if count == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return nil
	}

	result, err := h.app.Payments.Initialize(ctx, payment.InitRequest{
		Amount:      total,
		Email:       user.Email,
		Description: fmt.Sprintf("MeetMart cart (%d items)", count),
	})
	if err != nil {
		if h.app.HandleAuthFailure(ctx, err) {
			fmt.Fprintln(out, "Your session expired. Please log in again.")
		}
		return err
	}

	fmt.Fprintf(out, "Open this URL to pay %.2f:\n  %s\n", total, result.AuthorizationURL)
	fmt.Fprintf(out, "Reference: %s\nWaiting for confirmation...\n", result.Reference)

	watchCtx, cancel := context.WithTimeout(ctx, checkoutTimeout)
	defer cancel()

	v, err := h.app.Payments.Watch(watchCtx, result.Reference, 0)
	if err != nil {
		fmt.Fprintf(out, "Gave up waiting. Check later with: pay-verify %s\n", result.Reference)
		return nil
	}

	if v.Status != payment.StatusSuccess {
		fmt.Fprintf(out, "Payment %s.\n", v.Status)
		return nil
	}

	// The backend creates the orders on verification; the local cart has
	// served its purpose.
	if err := h.app.Cart.Clear(ctx); err != nil {
		h.logger.WithFields(logrus.Fields{"error": err}).Warn("Failed to clear cart after payment")
	}
	fmt.Fprintln(out, "Payment confirmed. See your purchases with: orders")
	return nil
}

// ---------------------------------------------------------------------------
// PayVerifyHandler – pay-verify <reference>
// ---------------------------------------------------------------------------

// PayVerifyHandler re-checks a payment reference, for checkouts that
// outlived the watch window.
type PayVerifyHandler struct {
	app    *app.App
	logger *logrus.Logger
}

// NewPayVerifyHandler creates a new PayVerifyHandler.
func NewPayVerifyHandler(a *app.App, logger *logrus.Logger) *PayVerifyHandler {
	return &PayVerifyHandler{app: a, logger: logger}
}

// Handle processes the pay-verify command.
func (h *PayVerifyHandler) Handle(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: pay-verify <reference>")
		return nil
	}

	v, err := h.app.Payments.Verify(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Reference %s: %s\n", v.Reference, v.Status)
	return nil
}

package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/backend"
)

// Verification statuses reported by the gateway.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// InitRequest describes the charge to set up.
type InitRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Email       string  `json:"email"`
	Reference   string  `json:"reference"`
	Description string  `json:"description,omitempty"`
}

// InitResult carries the hosted checkout hand-off.
type InitResult struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
	AccessCode       string `json:"access_code,omitempty"`
}

// Verification is the settled state of a payment reference.
type Verification struct {
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paid_at,omitempty"`
}

// Settled reports whether the gateway has reached a final answer.
func (v *Verification) Settled() bool {
	return v.Status == StatusSuccess || v.Status == StatusFailed
}

// Client talks to the payment endpoints of the backend, which front the
// gateway. The client never sees gateway credentials; it only receives the
// hosted checkout URL and later confirms the reference.
type Client struct {
	backend  *backend.Client
	currency string
	logger   *logrus.Logger
}

// New creates a payment client. currency is the default for charges that
// do not name one.
func New(b *backend.Client, currency string, logger *logrus.Logger) *Client {
	return &Client{backend: b, currency: currency, logger: logger}
}

// Initialize sets up a charge and returns the hosted checkout URL. A
// client-side reference is generated when the caller does not supply one,
// so the charge can be verified even if the redirect never lands.
func (c *Client) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	if req.Amount <= 0 {
		return nil, backend.NewValidation("payment amount must be positive")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, backend.NewValidation("payment email is required")
	}
	if req.Currency == "" {
		req.Currency = c.currency
	}
	if req.Reference == "" {
		req.Reference = uuid.NewString()
	}

	var result InitResult
	if err := c.backend.Post(ctx, "/payments/initialize", req, &result); err != nil {
		return nil, err
	}
	if result.AuthorizationURL == "" {
		return nil, &backend.Error{Kind: backend.KindServer, Message: "gateway returned empty checkout URL"}
	}
	if result.Reference == "" {
		result.Reference = req.Reference
	}

	c.logger.WithFields(logrus.Fields{
		"reference": result.Reference,
		"amount":    req.Amount,
		"currency":  req.Currency,
	}).Info("Payment initialized")

	return &result, nil
}

// Verify asks the backend whether the reference has been paid.
func (c *Client) Verify(ctx context.Context, reference string) (*Verification, error) {
	if reference == "" {
		return nil, backend.NewValidation("payment reference is required")
	}
	var v Verification
	if err := c.backend.Get(ctx, fmt.Sprintf("/payments/verify/%s", reference), &v); err != nil {
		return nil, err
	}
	if v.Reference == "" {
		v.Reference = reference
	}
	return &v, nil
}

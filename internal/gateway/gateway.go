package gateway

import (
	"context"
	"errors"
	"fmt"
)

// Order is the gateway-side payment intent returned by intent creation.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway abstracts the hosted-checkout payment provider.
type Gateway interface {
	// CreateOrder creates a remote payment intent for the given amount in minor
	// currency units (paise). Returns ErrNotConfigured when credentials are
	// absent; a *RejectedError when the gateway declines the request.
	CreateOrder(ctx context.Context, amountMinor int64, receipt string) (*Order, error)

	// VerifySignature checks the hosted-checkout callback signature. It must be
	// safe to call with attacker-controlled input and take constant time in the
	// comparison.
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool

	// KeyID returns the publishable key handed to browsers.
	KeyID() string
}

// ErrNotConfigured is returned when gateway credentials are missing. Handlers
// map it to 503 so operators can tell misconfiguration from gateway failure.
var ErrNotConfigured = errors.New("payment gateway is not configured")

// RejectedError is a gateway-side business rejection. Description is the
// gateway's human-readable reason and is surfaced verbatim to the caller.
type RejectedError struct {
	StatusCode  int
	Description string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("gateway rejected request (status %d): %s", e.StatusCode, e.Description)
}

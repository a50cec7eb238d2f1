package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kiranakart/internal/config"

	"github.com/rs/zerolog"
)

// razorpayGateway talks to the Razorpay Orders API over HTTP basic auth. The
// key secret is injected at construction and used only for request auth and
// callback signature verification.
type razorpayGateway struct {
	cfg    config.RazorpayConfig
	client *http.Client
	logger zerolog.Logger
}

// NewRazorpay creates a Razorpay-backed gateway. It never fails on missing
// credentials; calls report ErrNotConfigured instead, so the server can boot
// without payment keys (intent creation returns 503 until they are set).
func NewRazorpay(cfg config.RazorpayConfig, logger zerolog.Logger) Gateway {
	return &razorpayGateway{
		cfg: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger.With().Str("component", "razorpay-gateway").Logger(),
	}
}

// createOrderRequest is the Orders API request body.
type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// apiError mirrors the Razorpay error envelope.
type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Reason      string `json:"reason"`
	} `json:"error"`
}

// CreateOrder creates a payment intent via POST /v1/orders.
func (g *razorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, receipt string) (*Order, error) {
	if !g.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: "INR",
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	url := g.cfg.BaseURL + "/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error().Err(err).Int64("amount", amountMinor).Msg("gateway request failed")
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		description := ""
		if err := json.Unmarshal(respBody, &apiErr); err == nil {
			description = apiErr.Error.Description
			if description == "" {
				description = apiErr.Error.Reason
			}
		}
		g.logger.Warn().
			Int("status", resp.StatusCode).
			Str("description", description).
			Int64("amount", amountMinor).
			Msg("gateway rejected order creation")
		return nil, &RejectedError{StatusCode: resp.StatusCode, Description: description}
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	g.logger.Info().
		Str("gateway_order_id", order.ID).
		Int64("amount", amountMinor).
		Msg("gateway order created")

	return &order, nil
}

// VerifySignature recomputes HMAC-SHA256(secret, orderID + "|" + paymentID) and
// compares it to the provided signature in constant time. This is the sole
// trust boundary for the payment callback.
func (g *razorpayGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if !g.cfg.Configured() {
		return false
	}

	mac := hmac.New(sha256.New, []byte(g.cfg.KeySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// KeyID returns the publishable key.
func (g *razorpayGateway) KeyID() string {
	return g.cfg.KeyID
}

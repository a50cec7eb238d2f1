package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kiranakart/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.RazorpayConfig {
	return config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   baseURL,
	}
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrder_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var req createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(46000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "order-123", req.Receipt)

		json.NewEncoder(w).Encode(Order{
			ID:       "order_rzp_abc",
			Amount:   req.Amount,
			Currency: "INR",
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	g := NewRazorpay(testConfig(server.URL), zerolog.Nop())

	order, err := g.CreateOrder(context.Background(), 46000, "order-123")
	require.NoError(t, err)
	assert.Equal(t, "order_rzp_abc", order.ID)
	assert.Equal(t, int64(46000), order.Amount)
}

func TestCreateOrder_NotConfigured(t *testing.T) {
	g := NewRazorpay(config.RazorpayConfig{BaseURL: "http://localhost:1"}, zerolog.Nop())

	_, err := g.CreateOrder(context.Background(), 46000, "order-123")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateOrder_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Order amount less than minimum amount allowed"}}`))
	}))
	defer server.Close()

	g := NewRazorpay(testConfig(server.URL), zerolog.Nop())

	_, err := g.CreateOrder(context.Background(), 50, "order-123")
	require.Error(t, err)

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Equal(t, "Order amount less than minimum amount allowed", rejected.Description)
}

func TestVerifySignature(t *testing.T) {
	cfg := testConfig("http://unused")
	g := NewRazorpay(cfg, zerolog.Nop())

	valid := sign(cfg.KeySecret, "order_rzp_abc", "pay_xyz")

	assert.True(t, g.VerifySignature("order_rzp_abc", "pay_xyz", valid))

	// Any single-character mutation must fail verification.
	mutated := []byte(valid)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	assert.False(t, g.VerifySignature("order_rzp_abc", "pay_xyz", string(mutated)))

	assert.False(t, g.VerifySignature("order_rzp_abc", "pay_other", valid))
	assert.False(t, g.VerifySignature("order_rzp_abc", "pay_xyz", ""))
}

func TestVerifySignature_NotConfigured(t *testing.T) {
	g := NewRazorpay(config.RazorpayConfig{}, zerolog.Nop())
	assert.False(t, g.VerifySignature("order_rzp_abc", "pay_xyz", "anything"))
}

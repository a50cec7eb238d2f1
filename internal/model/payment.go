package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the monotonic state of a payment attempt. It moves from
// created to captured (verified callback) or failed (sweeper); never back.
type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "created"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Payment represents one gateway payment-intent attempt for an order. An order
// may accumulate several attempts if the customer retries checkout. Retained
// indefinitely as an audit trail.
type Payment struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	OrderID          uuid.UUID     `json:"order" db:"order_id"`
	UserID           uuid.UUID     `json:"user" db:"user_id"`
	GatewayOrderID   string        `json:"razorpay_order_id" db:"gateway_order_id"`
	GatewayPaymentID *string       `json:"razorpay_payment_id,omitempty" db:"gateway_payment_id"`
	GatewaySignature *string       `json:"razorpay_signature,omitempty" db:"gateway_signature"`
	Amount           float64       `json:"amount" db:"amount"`
	Status           PaymentStatus `json:"status" db:"status"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time     `json:"updatedAt" db:"updated_at"`
}

// PaymentIntentRequest is the payload for creating a payment intent.
type PaymentIntentRequest struct {
	OrderID string `json:"orderId"`
}

// PaymentIntentResponse is returned to the browser so it can open the hosted
// checkout. It carries the publishable key only, never the secret.
type PaymentIntentResponse struct {
	Success        bool   `json:"success"`
	GatewayOrderID string `json:"orderId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"keyId"`
}

// VerifyPaymentRequest is the signed callback payload delivered by the client
// after hosted checkout completes.
type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id"`
	GatewayPaymentID string `json:"razorpay_payment_id"`
	GatewaySignature string `json:"razorpay_signature"`
}

// PaymentFailureRequest is the payload for the payment-failure notification.
type PaymentFailureRequest struct {
	OrderID        string `json:"orderId"`
	FailureMessage string `json:"failureMessage"`
}

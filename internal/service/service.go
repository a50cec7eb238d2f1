package service

import (
	"context"

	"kiranakart/internal/model"
	"kiranakart/internal/notify"

	"github.com/google/uuid"
)

// OrderService defines operations on a customer's own orders.
type OrderService interface {
	// Create freezes a cart into a priced, pending order. Stock is checked but
	// not reserved; it is only committed on verified payment.
	Create(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.Order, error)

	// ListMine retrieves the caller's orders, newest first.
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetByID retrieves one order; callers only see their own.
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)

	// Cancel cancels an unpaid order and fires a best-effort notification.
	Cancel(ctx context.Context, userID, orderID uuid.UUID, fallbackPhone string) (*model.Order, error)
}

// PaymentService drives the payment-intent and capture lifecycle.
type PaymentService interface {
	// CreateIntent creates a gateway payment intent for an unpaid order and
	// records the attempt.
	CreateIntent(ctx context.Context, userID, orderID uuid.UUID) (*model.PaymentIntentResponse, error)

	// Verify checks the callback signature and, exactly once per payment,
	// commits the paid transition with its stock decrement.
	Verify(ctx context.Context, userID uuid.UUID, fallbackPhone string, req *model.VerifyPaymentRequest) (*model.Order, error)

	// NotifyFailure sends a best-effort payment-failure message. It mutates no
	// order or payment state and its result is diagnostic only.
	NotifyFailure(ctx context.Context, userID, orderID uuid.UUID, fallbackPhone, failureMessage string) (notify.Result, error)
}

// AdminOrderService is the back-office view over all orders.
type AdminOrderService interface {
	// List retrieves a page of orders, optionally filtered by status.
	List(ctx context.Context, page, limit int, status *model.OrderStatus) (*model.OrderPage, error)

	// GetByID retrieves any order.
	GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// UpdateStatus overrides an order's status. Deliberately unconstrained by
	// the customer-facing state machine; the history row records who did it.
	UpdateStatus(ctx context.Context, adminID, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

package repository

import (
	"context"
	"time"

	"kiranakart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository is the catalogue store as consumed by the order/payment
// orchestrator: read-only lookups plus the stock decrement committed on
// verified payment capture.
type ProductRepository interface {
	// GetByIDs retrieves multiple products by their IDs. Unknown IDs are
	// simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// DecrementStock atomically subtracts qty from a product's stock within the
	// provided transaction.
	DecrementStock(ctx context.Context, tx pgx.Tx, id string, qty int) error
}

// OrderRepository defines the interface for order data access operations.
// Orders are financial records; there is no delete.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's frozen line items within the
	// provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// AppendStatusHistory appends one entry to an order's status history.
	AppendStatusHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, change model.StatusChange) error

	// GetByID retrieves an order with its items and status history. Returns nil
	// when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first, with items.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// List retrieves a page of orders, optionally filtered by status, newest
	// first, along with the total match count.
	List(ctx context.Context, status *model.OrderStatus, limit, offset int) ([]model.Order, int, error)

	// MarkPaid flips an order to paid/confirmed and stores the gateway
	// correlation ids, guarded on is_paid = FALSE. Returns false when the order
	// was already paid.
	MarkPaid(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, result model.PaymentResult, paidAt time.Time) (bool, error)

	// UpdateStatus sets an order's status. A non-nil updatedByAdmin records the
	// admin override; status delivered also sets the delivery flags. The
	// transaction may be nil for standalone updates.
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus, updatedByAdmin *uuid.UUID) error
}

// PaymentRepository defines the interface for payment-attempt data access.
// Payments are an audit trail; there is no delete and status never reverts.
type PaymentRepository interface {
	// Create inserts a new payment attempt with status created.
	Create(ctx context.Context, payment *model.Payment) error

	// GetByGatewayOrderID retrieves the payment attempt correlated to a gateway
	// order id. Returns nil when absent.
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Payment, error)

	// Capture transitions a payment from created to captured within the
	// provided transaction, storing the gateway payment id and signature. The
	// update is conditional on status = created; the false return means the
	// payment was already captured or failed and the caller must not apply
	// side effects.
	Capture(ctx context.Context, tx pgx.Tx, gatewayOrderID, gatewayPaymentID, gatewaySignature string) (bool, error)

	// ExpireStale marks payments stuck at created since before cutoff as
	// failed, returning the number of rows affected.
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
}

package repository

import (
	"context"
	"fmt"
	"time"

	"kiranakart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// paymentRepository implements the PaymentRepository interface using PostgreSQL.
type paymentRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(pool *pgxpool.Pool, logger zerolog.Logger) PaymentRepository {
	return &paymentRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "payment").Logger(),
	}
}

// Create inserts a new payment attempt.
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, user_id, gateway_order_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		payment.ID, payment.OrderID, payment.UserID, payment.GatewayOrderID,
		payment.Amount, payment.Status, payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("payment_id", payment.ID.String()).
			Str("gateway_order_id", payment.GatewayOrderID).
			Msg("failed to create payment")
		return fmt.Errorf("failed to create payment: %w", err)
	}

	r.logger.Debug().
		Str("payment_id", payment.ID.String()).
		Str("gateway_order_id", payment.GatewayOrderID).
		Msg("payment created successfully")

	return nil
}

// GetByGatewayOrderID retrieves the payment attempt correlated to a gateway order id.
func (r *paymentRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Payment, error) {
	query := `
		SELECT id, order_id, user_id, gateway_order_id, gateway_payment_id, gateway_signature,
			amount, status, created_at, updated_at
		FROM payments
		WHERE gateway_order_id = $1
	`

	var p model.Payment
	err := r.pool.QueryRow(ctx, query, gatewayOrderID).Scan(
		&p.ID, &p.OrderID, &p.UserID, &p.GatewayOrderID, &p.GatewayPaymentID, &p.GatewaySignature,
		&p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("gateway_order_id", gatewayOrderID).Msg("payment not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("gateway_order_id", gatewayOrderID).Msg("failed to query payment")
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}

	return &p, nil
}

// Capture transitions a payment to captured. The WHERE clause is the
// idempotency guard: two near-simultaneous verification calls race on it and
// exactly one observes a row change.
func (r *paymentRepository) Capture(ctx context.Context, tx pgx.Tx, gatewayOrderID, gatewayPaymentID, gatewaySignature string) (bool, error) {
	query := `
		UPDATE payments
		SET status = $2,
			gateway_payment_id = $3,
			gateway_signature = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE gateway_order_id = $1 AND status = $5
	`

	tag, err := tx.Exec(ctx, query, gatewayOrderID, model.PaymentStatusCaptured, gatewayPaymentID, gatewaySignature, model.PaymentStatusCreated)
	if err != nil {
		r.logger.Error().Err(err).Str("gateway_order_id", gatewayOrderID).Msg("failed to capture payment")
		return false, fmt.Errorf("failed to capture payment: %w", err)
	}

	captured := tag.RowsAffected() > 0
	if !captured {
		r.logger.Info().
			Str("gateway_order_id", gatewayOrderID).
			Msg("payment not at created, skipping capture")
	}

	return captured, nil
}

// ExpireStale marks payments stuck at created since before cutoff as failed.
func (r *paymentRepository) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE payments
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE status = $1 AND created_at < $3
	`

	tag, err := r.pool.Exec(ctx, query, model.PaymentStatusCreated, model.PaymentStatusFailed, cutoff)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to expire stale payments")
		return 0, fmt.Errorf("failed to expire stale payments: %w", err)
	}

	return tag.RowsAffected(), nil
}

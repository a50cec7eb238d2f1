package repository

import (
	"context"
	"fmt"
	"time"

	"kiranakart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const orderColumns = `id, user_id, ship_name, ship_phone, ship_street, ship_city, ship_state, ship_pincode,
	items_price, tax_price, shipping_price, total_price, status, is_paid, paid_at,
	pay_gateway_order_id, pay_gateway_payment_id, pay_gateway_signature,
	is_delivered, delivered_at, updated_by_admin, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var gwOrderID, gwPaymentID, gwSignature *string

	err := row.Scan(
		&o.ID, &o.UserID,
		&o.ShippingAddress.Name, &o.ShippingAddress.Phone, &o.ShippingAddress.Street,
		&o.ShippingAddress.City, &o.ShippingAddress.State, &o.ShippingAddress.Pincode,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.Status, &o.IsPaid, &o.PaidAt,
		&gwOrderID, &gwPaymentID, &gwSignature,
		&o.IsDelivered, &o.DeliveredAt, &o.UpdatedByAdmin, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if gwOrderID != nil {
		o.PaymentResult = &model.PaymentResult{
			GatewayOrderID:   *gwOrderID,
			GatewayPaymentID: deref(gwPaymentID),
			GatewaySignature: deref(gwSignature),
		}
	}

	return &o, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, user_id, ship_name, ship_phone, ship_street, ship_city, ship_state, ship_pincode,
			items_price, tax_price, shipping_price, total_price, status, is_paid, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.UserID,
		order.ShippingAddress.Name, order.ShippingAddress.Phone, order.ShippingAddress.Street,
		order.ShippingAddress.City, order.ShippingAddress.State, order.ShippingAddress.Pincode,
		order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice,
		order.Status, order.IsPaid, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts the order's frozen line items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, quantity, price, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Name, item.Quantity, item.Price, item.Image)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// AppendStatusHistory appends one entry to an order's status history.
func (r *orderRepository) AppendStatusHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, change model.StatusChange) error {
	query := `
		INSERT INTO order_status_history (order_id, status, at, updated_by)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.Exec(ctx, query, orderID, change.Status, change.At, change.UpdatedBy)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("status", string(change.Status)).
			Msg("failed to append status history")
		return fmt.Errorf("failed to append status history: %w", err)
	}

	return nil
}

// GetByID retrieves an order with its items and status history.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsByOrder, err := r.loadItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	order.Items = itemsByOrder[id]

	history, err := r.loadHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	order.StatusHistory = history

	return order, nil
}

// ListByUser retrieves a user's orders, newest first, with items.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query user orders")
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan order rows")
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// List retrieves a page of orders, optionally filtered by status, newest first.
func (r *orderRepository) List(ctx context.Context, status *model.OrderStatus, limit, offset int) ([]model.Order, int, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if status != nil {
		query := `
			SELECT ` + orderColumns + `
			FROM orders
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = r.pool.Query(ctx, query, *status, limit, offset)
	} else {
		query := `
			SELECT ` + orderColumns + `
			FROM orders
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		rows, err = r.pool.Query(ctx, query, limit, offset)
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan order rows")
		return nil, 0, err
	}

	var total int
	if status != nil {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, *status).Scan(&total)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// MarkPaid flips an order to paid/confirmed, guarded on is_paid = FALSE so a
// duplicate verification cannot re-apply the transition.
func (r *orderRepository) MarkPaid(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, result model.PaymentResult, paidAt time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET is_paid = TRUE,
			paid_at = $2,
			status = $3,
			pay_gateway_order_id = $4,
			pay_gateway_payment_id = $5,
			pay_gateway_signature = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_paid = FALSE
	`

	tag, err := tx.Exec(ctx, query, orderID, paidAt, model.OrderStatusConfirmed,
		result.GatewayOrderID, result.GatewayPaymentID, result.GatewaySignature)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to mark order paid")
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdateStatus sets an order's status, recording the admin override and
// delivery flags where applicable.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus, updatedByAdmin *uuid.UUID) error {
	query := `
		UPDATE orders
		SET status = $2,
			updated_by_admin = COALESCE($3, updated_by_admin),
			is_delivered = CASE WHEN $2 = 'delivered' THEN TRUE ELSE is_delivered END,
			delivered_at = CASE WHEN $2 = 'delivered' THEN CURRENT_TIMESTAMP ELSE delivered_at END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	var tag interface{ RowsAffected() int64 }
	var err error
	if tx != nil {
		tag, err = tx.Exec(ctx, query, orderID, status, updatedByAdmin)
	} else {
		tag, err = r.pool.Exec(ctx, query, orderID, status, updatedByAdmin)
	}
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found for status update", orderID)
	}

	return nil
}

// collectOrders drains rows into orders.
func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// attachItems loads line items for the given orders in one query.
func (r *orderRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	itemsByOrder, err := r.loadItems(ctx, ids)
	if err != nil {
		return err
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, quantity, price, image
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[uuid.UUID][]model.OrderItem)
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &item.Price, &item.Image)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return itemsByOrder, nil
}

func (r *orderRepository) loadHistory(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error) {
	query := `
		SELECT status, at, updated_by
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query status history")
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var history []model.StatusChange
	for rows.Next() {
		var change model.StatusChange
		if err := rows.Scan(&change.Status, &change.At, &change.UpdatedBy); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan status history row")
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		history = append(history, change)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating status history rows")
		return nil, fmt.Errorf("error iterating status history: %w", err)
	}

	return history, nil
}

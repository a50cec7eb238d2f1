package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the full DDL for the order/payment store. Statements are idempotent
// so Migrate can run on every boot. Orders and payments are financial records
// and have no DELETE path anywhere in the application.
const Schema = `
	CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DECIMAL(10, 2) NOT NULL CHECK (price >= 0),
		mrp DECIMAL(10, 2),
		discount DECIMAL(10, 2) NOT NULL DEFAULT 0,
		image TEXT NOT NULL DEFAULT '',
		category VARCHAR(100) NOT NULL DEFAULT '',
		stock INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		ship_name VARCHAR(255) NOT NULL DEFAULT '',
		ship_phone VARCHAR(20) NOT NULL DEFAULT '',
		ship_street VARCHAR(255) NOT NULL DEFAULT '',
		ship_city VARCHAR(100) NOT NULL DEFAULT '',
		ship_state VARCHAR(100) NOT NULL DEFAULT '',
		ship_pincode VARCHAR(10) NOT NULL DEFAULT '',
		items_price DECIMAL(10, 2) NOT NULL DEFAULT 0,
		tax_price DECIMAL(10, 2) NOT NULL DEFAULT 0,
		shipping_price DECIMAL(10, 2) NOT NULL DEFAULT 0,
		total_price DECIMAL(10, 2) NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		is_paid BOOLEAN NOT NULL DEFAULT FALSE,
		paid_at TIMESTAMPTZ,
		pay_gateway_order_id VARCHAR(100),
		pay_gateway_payment_id VARCHAR(100),
		pay_gateway_signature VARCHAR(255),
		is_delivered BOOLEAN NOT NULL DEFAULT FALSE,
		delivered_at TIMESTAMPTZ,
		updated_by_admin UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id),
		product_id VARCHAR(50) NOT NULL REFERENCES products(id),
		name VARCHAR(255) NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		price DECIMAL(10, 2) NOT NULL,
		image TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS order_status_history (
		id BIGSERIAL PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id),
		status VARCHAR(20) NOT NULL,
		at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_by UUID NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id),
		user_id UUID NOT NULL,
		gateway_order_id VARCHAR(100) NOT NULL UNIQUE,
		gateway_payment_id VARCHAR(100),
		gateway_signature VARCHAR(255),
		amount DECIMAL(10, 2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'created',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
	CREATE INDEX IF NOT EXISTS idx_order_status_history_order_id ON order_status_history(order_id);
	CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id);
	CREATE INDEX IF NOT EXISTS idx_payments_status_created ON payments(status, created_at);
`

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info().Msg("database schema applied")
	return nil
}

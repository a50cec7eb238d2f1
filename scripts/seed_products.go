// Seed sample products. Run: go run scripts/seed_products.go
// Requires DB_* env vars or a .env file.
package main

import (
	"context"
	"fmt"
	"os"

	"kiranakart/internal/config"
	"kiranakart/internal/database"

	"github.com/joho/godotenv"
)

type sampleProduct struct {
	id          string
	name        string
	description string
	price       float64
	category    string
	stock       int
}

var sampleProducts = []sampleProduct{
	{"P001", "Wireless Headphones", "Noise cancelling over-ear headphones", 2999, "Electronics", 50},
	{"P002", "USB-C Cable Pack", "3-pack durable braided cables", 499, "Accessories", 100},
	{"P003", "Desk Lamp", "LED adjustable desk lamp", 1299, "Home", 30},
	{"P004", "Running Shoes", "Lightweight sports shoes", 3499, "Footwear", 40},
	{"P005", "Backpack", "Water-resistant laptop backpack", 1899, "Accessories", 60},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate database: %v\n", err)
		os.Exit(1)
	}

	for _, p := range sampleProducts {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, description, price, category, stock)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name,
				description = EXCLUDED.description,
				price = EXCLUDED.price,
				category = EXCLUDED.category,
				stock = EXCLUDED.stock,
				updated_at = CURRENT_TIMESTAMP
		`, p.id, p.name, p.description, p.price, p.category, p.stock)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed product %s: %v\n", p.id, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Seeded %d products\n", len(sampleProducts))
}

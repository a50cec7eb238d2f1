package model

import "time"

// Product represents a catalogue entry. The order service reads it to price and
// validate line items; stock is only mutated on verified payment capture.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	MRP         *float64  `json:"mrp,omitempty" db:"mrp"`
	Discount    float64   `json:"discount" db:"discount"`
	Image       string    `json:"image" db:"image"`
	Category    string    `json:"category" db:"category"`
	Stock       int       `json:"stock" db:"stock"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ShippingAddress is a denormalised snapshot captured at order creation.
type ShippingAddress struct {
	Name    string `json:"name" db:"ship_name"`
	Phone   string `json:"phone" db:"ship_phone"`
	Street  string `json:"street" db:"ship_street"`
	City    string `json:"city" db:"ship_city"`
	State   string `json:"state,omitempty" db:"ship_state"`
	Pincode string `json:"pincode" db:"ship_pincode"`
}

// PaymentResult holds the gateway correlation ids stored on a paid order.
type PaymentResult struct {
	GatewayOrderID   string `json:"razorpay_order_id,omitempty"`
	GatewayPaymentID string `json:"razorpay_payment_id,omitempty"`
	GatewaySignature string `json:"razorpay_signature,omitempty"`
}

// OrderItem is a frozen line item. Name, price and image are snapshots taken at
// creation time; later catalogue edits never alter a placed order.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"product" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	Image     string    `json:"image" db:"image"`
}

// StatusChange is one entry in an order's append-only status history.
type StatusChange struct {
	Status    OrderStatus `json:"status" db:"status"`
	At        time.Time   `json:"at" db:"at"`
	UpdatedBy uuid.UUID   `json:"updatedBy" db:"updated_by"`
}

// Order is a customer's frozen purchase intent. Pricing is computed once at
// creation; the record is never deleted.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user" db:"user_id"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	ItemsPrice      float64         `json:"itemsPrice" db:"items_price"`
	TaxPrice        float64         `json:"taxPrice" db:"tax_price"`
	ShippingPrice   float64         `json:"shippingPrice" db:"shipping_price"`
	TotalPrice      float64         `json:"totalPrice" db:"total_price"`
	Status          OrderStatus     `json:"status" db:"status"`
	IsPaid          bool            `json:"isPaid" db:"is_paid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" db:"paid_at"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	IsDelivered     bool            `json:"isDelivered" db:"is_delivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" db:"delivered_at"`
	StatusHistory   []StatusChange  `json:"statusHistory,omitempty"`
	UpdatedByAdmin  *uuid.UUID      `json:"updatedByAdmin,omitempty" db:"updated_by_admin"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OwnerID resolves the owning user id.
func (o *Order) OwnerID() uuid.UUID {
	return o.UserID
}

// NotificationPhone returns the phone number order notifications should go to:
// the shipping address phone, or fallback when the address has none.
func (o *Order) NotificationPhone(fallback string) string {
	if o.ShippingAddress.Phone != "" {
		return o.ShippingAddress.Phone
	}
	return fallback
}

// OrderRequest is the payload for creating an order.
type OrderRequest struct {
	Items           []OrderItemRequest `json:"orderItems"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
}

// OrderItemRequest is a single requested line.
type OrderItemRequest struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// StatusUpdateRequest is the payload for the admin status override.
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
}

// OrderPage is a paginated admin order listing.
type OrderPage struct {
	Success bool    `json:"success"`
	Orders  []Order `json:"orders"`
	Page    int     `json:"page"`
	Pages   int     `json:"pages"`
	Total   int     `json:"total"`
}

package domain

import (
	"fmt"
	"time"
)

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "Pending Payment"
	StatusProcessing     OrderStatus = "Processing"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusCompleted      OrderStatus = "Completed"
	StatusCancelled      OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known order statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusProcessing, StatusOutForDelivery, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether an order in this status can no longer change
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ImpliesPaid reports whether moving into this status requires payment
// to have been confirmed. Status and payment status are independent axes,
// but the business rule couples them in this one direction.
func (s OrderStatus) ImpliesPaid() bool {
	switch s {
	case StatusProcessing, StatusOutForDelivery, StatusCompleted:
		return true
	}
	return false
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentClaimed PaymentStatus = "Customer Claimed Paid"
	PaymentPaid    PaymentStatus = "Paid"
)

// Valid reports whether p is one of the known payment statuses
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentUnpaid, PaymentClaimed, PaymentPaid:
		return true
	}
	return false
}

// OrderItem represents a single ordered line item
type OrderItem struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price,omitempty"`
}

// Order represents a storefront order
type Order struct {
	ID            string        `json:"id"`
	CustomerID    string        `json:"customer_id"`
	Items         []OrderItem   `json:"items"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Total         float64       `json:"total"`
	PointsAwarded bool          `json:"points_awarded,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

// Validate checks the invariants every order coming off the wire must hold.
// Records failing validation are quarantined at the store-client boundary.
func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrMissingID
	}
	if !o.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrUnknownStatus, o.Status)
	}
	if o.PaymentStatus != "" && !o.PaymentStatus.Valid() {
		return fmt.Errorf("%w: payment status %q", ErrUnknownStatus, o.PaymentStatus)
	}
	if o.Total < 0 {
		return fmt.Errorf("%w: negative total", ErrInvalidRecord)
	}
	return nil
}

// Active reports whether the order is still in flight from the
// customer's point of view
func (o *Order) Active() bool {
	return !o.Status.Terminal()
}

// Customer represents a customer profile
type Customer struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Preferences   []string   `json:"preferences"`
	LoyaltyPoints int        `json:"loyalty_points"`
	LastOrderDate *time.Time `json:"last_order_date,omitempty"`
	IsFirstTime   bool       `json:"is_first_time,omitempty"`
}

// Validate checks the invariants of a customer record
func (c *Customer) Validate() error {
	if c.ID == "" {
		return ErrMissingID
	}
	if c.LoyaltyPoints < 0 {
		return fmt.Errorf("%w: negative loyalty points", ErrInvalidRecord)
	}
	return nil
}

// MenuItem represents a menu entry shown on the storefront
type MenuItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Ingredients   []string `json:"ingredients,omitempty"`
	IsAvailable   bool     `json:"is_available"`
	ImageURL      string   `json:"image_url,omitempty"`
	LoyaltyPoints int      `json:"loyalty_points,omitempty"`
}

// SiteSettings holds the loosely-typed storefront settings document
type SiteSettings map[string]any

// FeedbackEntry represents a customer feedback record
type FeedbackEntry struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

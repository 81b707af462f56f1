package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPaid      OrderStatus = "Paid"
	StatusAccepted  OrderStatus = "Accepted"
	StatusCompleted OrderStatus = "Completed"
)

// transitions maps a status to the only status it may move to.
var transitions = map[OrderStatus]OrderStatus{
	StatusPaid:     StatusAccepted,
	StatusAccepted: StatusCompleted,
}

// ParseStatus accepts a status name case-insensitively.
func ParseStatus(raw string) (OrderStatus, error) {
	for _, s := range []OrderStatus{StatusPaid, StatusAccepted, StatusCompleted} {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}

// Next returns the forward transition from s, if any.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := transitions[s]
	return next, ok
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to OrderStatus) bool {
	next, ok := transitions[from]
	return ok && next == to
}

// CountsAsRevenue is true for Paid and Completed orders.
func (s OrderStatus) CountsAsRevenue() bool {
	return s == StatusPaid || s == StatusCompleted
}

// Order is a booking. Provider name, category and amount are copied at
// booking time and never follow later provider edits.
type Order struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	UserEmail      string      `json:"user_email"`
	ProviderID     string      `json:"provider_id"`
	AdminUID       string      `json:"admin_uid"`
	ProviderName   string      `json:"provider_name"`
	Category       string      `json:"category"`
	Amount         float64     `json:"amount"`
	Status         OrderStatus `json:"status"`
	IdempotencyKey string      `json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// AmountFor is the price charged for a booking: the provider price, or
// fallback when the price is unset.
func AmountFor(price, fallback float64) float64 {
	if price <= 0 {
		return fallback
	}
	return price
}

// TotalSpent sums the amounts of orders.
func TotalSpent(orders []Order) float64 {
	var total float64
	for _, o := range orders {
		total += o.Amount
	}
	return total
}

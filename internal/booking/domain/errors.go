package domain

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrCheckoutState     = errors.New("invalid checkout state")
	ErrBookingInProgress = errors.New("booking with this idempotency key is in progress")
	ErrOrderNotOwned     = errors.New("order does not belong to this provider")
)

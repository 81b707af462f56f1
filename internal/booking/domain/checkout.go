package domain

import (
	"fmt"
	"sync"
)

type CheckoutState string

const (
	CheckoutInput      CheckoutState = "input"
	CheckoutProcessing CheckoutState = "processing"
	CheckoutSuccess    CheckoutState = "success"
)

// Checkout is the booking flow for one attempt:
// input -> processing -> success | input, and success -> input on Reset.
type Checkout struct {
	mu    sync.Mutex
	state CheckoutState
}

func NewCheckout() *Checkout {
	return &Checkout{state: CheckoutInput}
}

func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Confirm starts payment processing.
func (c *Checkout) Confirm() error {
	return c.move(CheckoutInput, CheckoutProcessing)
}

// Succeed records a written order.
func (c *Checkout) Succeed() error {
	return c.move(CheckoutProcessing, CheckoutSuccess)
}

// Fail returns to input so the customer can retry.
func (c *Checkout) Fail() error {
	return c.move(CheckoutProcessing, CheckoutInput)
}

// Reset re-arms a finished checkout.
func (c *Checkout) Reset() error {
	return c.move(CheckoutSuccess, CheckoutInput)
}

func (c *Checkout) move(from, to CheckoutState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return fmt.Errorf("%w: %s -> %s from %s", ErrCheckoutState, from, to, c.state)
	}
	c.state = to
	return nil
}

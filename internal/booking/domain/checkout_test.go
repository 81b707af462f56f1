package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckout_SuccessPath(t *testing.T) {
	c := NewCheckout()
	assert.Equal(t, CheckoutInput, c.State())

	require.NoError(t, c.Confirm())
	assert.Equal(t, CheckoutProcessing, c.State())

	require.NoError(t, c.Succeed())
	assert.Equal(t, CheckoutSuccess, c.State())

	require.NoError(t, c.Reset())
	assert.Equal(t, CheckoutInput, c.State())
}

func TestCheckout_FailureReturnsToInput(t *testing.T) {
	c := NewCheckout()
	require.NoError(t, c.Confirm())
	require.NoError(t, c.Fail())
	assert.Equal(t, CheckoutInput, c.State())

	// can retry after a failure
	require.NoError(t, c.Confirm())
}

func TestCheckout_RejectsOutOfOrderMoves(t *testing.T) {
	c := NewCheckout()
	assert.ErrorIs(t, c.Succeed(), ErrCheckoutState)
	assert.ErrorIs(t, c.Reset(), ErrCheckoutState)

	require.NoError(t, c.Confirm())
	assert.ErrorIs(t, c.Confirm(), ErrCheckoutState, "double confirm")
	assert.Equal(t, CheckoutProcessing, c.State())
}

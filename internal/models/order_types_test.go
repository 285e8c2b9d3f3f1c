package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		got, err := ParseOrderStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, OrderStatus(valid), got)
	}

	for _, invalid := range []string{"", "Pending", "shipped ", "refunded", "done"} {
		_, err := ParseOrderStatus(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, valid := range []string{"pending", "paid", "refunded"} {
		got, err := ParsePaymentStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, PaymentStatus(valid), got)
	}

	_, err := ParsePaymentStatus("cancelled")
	assert.Error(t, err)
}

func TestOrderStatusTransitions(t *testing.T) {
	// Delivered is the only closed state. Cancelled orders may be
	// reactivated into any other state.
	assert.True(t, OrderDelivered.Terminal())
	assert.False(t, OrderCancelled.Terminal())

	assert.False(t, OrderDelivered.CanTransitionTo(OrderCancelled))
	assert.False(t, OrderDelivered.CanTransitionTo(OrderPending))
	assert.True(t, OrderDelivered.CanTransitionTo(OrderDelivered), "same-status update is a no-op, not an error")

	assert.True(t, OrderCancelled.CanTransitionTo(OrderPending))
	assert.True(t, OrderPending.CanTransitionTo(OrderCancelled))
	assert.True(t, OrderPending.CanTransitionTo(OrderDelivered))
	assert.True(t, OrderShipped.CanTransitionTo(OrderProcessing))
}

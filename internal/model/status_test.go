package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_HappyPath(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusShipped))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusOutForDelivery))
	assert.True(t, CanTransition(OrderStatusOutForDelivery, OrderStatusDelivered))
}

func TestCanTransition_CancelOnlyFromProcessing(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusOutForDelivery, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusCancelled))
}

func TestCanTransition_ReturnFlow(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusDelivered, OrderStatusReturnRequested))
	assert.True(t, CanTransition(OrderStatusReturnRequested, OrderStatusReturned))
	// a rejected return drops the order back to delivered
	assert.True(t, CanTransition(OrderStatusReturnRequested, OrderStatusDelivered))
	assert.False(t, CanTransition(OrderStatusProcessing, OrderStatusReturnRequested))
}

func TestCanTransition_NoSkipping(t *testing.T) {
	assert.False(t, CanTransition(OrderStatusProcessing, OrderStatusOutForDelivery))
	assert.False(t, CanTransition(OrderStatusProcessing, OrderStatusDelivered))
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusDelivered))
}

func TestCanTransition_TerminalStates(t *testing.T) {
	assert.True(t, Terminal(OrderStatusCancelled))
	assert.True(t, Terminal(OrderStatusReturned))
	assert.False(t, Terminal(OrderStatusProcessing))
	for _, to := range []OrderStatus{
		OrderStatusProcessing, OrderStatusShipped, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusReturnRequested, OrderStatusReturned,
	} {
		assert.False(t, CanTransition(OrderStatusCancelled, to))
		assert.False(t, CanTransition(OrderStatusReturned, to))
	}
}

func TestNextFulfillmentStatus(t *testing.T) {
	next, ok := NextFulfillmentStatus(OrderStatusProcessing)
	assert.True(t, ok)
	assert.Equal(t, OrderStatusShipped, next)

	next, ok = NextFulfillmentStatus(OrderStatusOutForDelivery)
	assert.True(t, ok)
	assert.Equal(t, OrderStatusDelivered, next)

	_, ok = NextFulfillmentStatus(OrderStatusDelivered)
	assert.False(t, ok)
	_, ok = NextFulfillmentStatus(OrderStatusCancelled)
	assert.False(t, ok)
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusReturnRequested))
	assert.False(t, ValidOrderStatus("pending"))
	assert.False(t, ValidOrderStatus(""))
}

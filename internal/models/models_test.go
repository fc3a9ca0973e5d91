package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		assert.True(t, IsValidOrderStatus(s), s)
	}

	assert.False(t, IsValidOrderStatus("PAID"))
	assert.False(t, IsValidOrderStatus("pending"))
	assert.False(t, IsValidOrderStatus(""))
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(OrderStatusPending))
	assert.True(t, CanCancel(OrderStatusConfirmed))

	assert.False(t, CanCancel(OrderStatusProcessing))
	assert.False(t, CanCancel(OrderStatusShipped))
	assert.False(t, CanCancel(OrderStatusDelivered))
	assert.False(t, CanCancel(OrderStatusCancelled))
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		assert.True(t, IsValidOrderStatus(status), status)
	}

	assert.False(t, IsValidOrderStatus(""))
	assert.False(t, IsValidOrderStatus("returned"))
	assert.False(t, IsValidOrderStatus("Pending"))
}

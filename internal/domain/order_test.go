package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
	allowed := map[[2]OrderStatus]bool{
		{OrderStatusPending, OrderStatusProcessing}:   true,
		{OrderStatusPending, OrderStatusCancelled}:    true,
		{OrderStatusProcessing, OrderStatusShipped}:   true,
		{OrderStatusProcessing, OrderStatusCancelled}: true,
		{OrderStatusShipped, OrderStatusDelivered}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equalf(t, allowed[[2]OrderStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusPredicates(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
	assert.False(t, OrderStatus("refunded").Valid())
	assert.False(t, OrderStatus("refunded").Terminal())

	assert.True(t, OrderStatusProcessing.IsForward())
	assert.True(t, OrderStatusDelivered.IsForward())
	assert.False(t, OrderStatusCancelled.IsForward())
	assert.False(t, OrderStatusPending.IsForward())
}

func TestBuildTimeline(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	paid := created.Add(time.Hour)
	shipped := created.Add(26 * time.Hour)
	tracking := "TRK-789456"
	pending := OrderStatusPending
	processing := OrderStatusProcessing

	order := &Order{
		ID:           "o-1",
		Status:       OrderStatusShipped,
		TrackingCode: &tracking,
		CreatedAt:    created,
	}
	history := []OrderStatusChange{
		{ToStatus: OrderStatusPending, ChangedAt: created},
		{FromStatus: &pending, ToStatus: OrderStatusProcessing, ChangedAt: paid},
		{FromStatus: &processing, ToStatus: OrderStatusShipped, ChangedAt: shipped},
	}

	timeline := BuildTimeline(order, history)
	require.Len(t, timeline, 4)

	assert.Equal(t, OrderStatusPending, timeline[0].Status)
	require.NotNil(t, timeline[0].ReachedAt)
	assert.Equal(t, created, *timeline[0].ReachedAt)

	require.NotNil(t, timeline[1].ReachedAt)
	assert.Equal(t, paid, *timeline[1].ReachedAt)

	require.NotNil(t, timeline[2].ReachedAt)
	assert.Equal(t, shipped, *timeline[2].ReachedAt)
	assert.True(t, timeline[2].Current)
	require.NotNil(t, timeline[2].TrackingCode)
	assert.Equal(t, tracking, *timeline[2].TrackingCode)

	assert.Equal(t, OrderStatusDelivered, timeline[3].Status)
	assert.Nil(t, timeline[3].ReachedAt)
	assert.False(t, timeline[3].Current)
}

func TestBuildTimelineCancelled(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	pending := OrderStatusPending
	order := &Order{ID: "o-2", Status: OrderStatusCancelled, CreatedAt: created}
	history := []OrderStatusChange{
		{ToStatus: OrderStatusPending, ChangedAt: created},
		{FromStatus: &pending, ToStatus: OrderStatusCancelled, ChangedAt: created.Add(time.Minute)},
	}

	timeline := BuildTimeline(order, history)
	require.Len(t, timeline, 4)
	assert.NotNil(t, timeline[0].ReachedAt)
	for _, entry := range timeline[1:] {
		assert.Nil(t, entry.ReachedAt, entry.Status)
		assert.False(t, entry.Current)
	}
}

func TestLineItemSubtotal(t *testing.T) {
	item := LineItem{ProductID: "p-1", Quantity: 3, UnitPrice: 125_000}
	assert.Equal(t, int64(375_000), item.Subtotal())
}

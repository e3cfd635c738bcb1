package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	var calls []string
	dispatcher.Subscribe(EventOrderCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("smtp down")
	})
	dispatcher.Subscribe(EventOrderCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.OrderID)
		return nil
	})
	dispatcher.Subscribe(EventOrderStatusChanged, func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{ID: "e-1", Type: EventOrderCreated, OrderID: "o-1"})

	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second:o-1"}, calls)
}

func TestDispatcherRecoversHandlerPanic(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(nil)

	reached := false
	dispatcher.Subscribe(EventOrderStatusChanged, func(context.Context, Event) error {
		panic("boom")
	})
	dispatcher.Subscribe(EventOrderStatusChanged, func(context.Context, Event) error {
		reached = true
		return nil
	})

	assert.NotPanics(t, func() {
		_ = dispatcher.Publish(context.Background(), Event{Type: EventOrderStatusChanged})
	})
	assert.True(t, reached)
}

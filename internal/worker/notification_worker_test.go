package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qasim12343/MarketPlace-sub002/internal/events"
)

func TestNotificationWorkerDeliversQueuedEvents(t *testing.T) {
	inner := events.NewInMemoryDispatcher(zap.NewNop())
	w := StartNotificationWorker(inner, nil, 4, 8, zap.NewNop())

	var delivered atomic.Int32
	w.Subscribe(events.EventOrderStatusChanged, func(context.Context, events.Event) error {
		delivered.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 50; i++ {
		require.NoError(t, w.Publish(ctx, events.Event{Type: events.EventOrderStatusChanged, OrderID: "o-1"}))
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, w.Stop(stopCtx))
	assert.EqualValues(t, 50, delivered.Load())
}

func TestNotificationWorkerRejectsAfterStop(t *testing.T) {
	w := StartNotificationWorker(events.NewInMemoryDispatcher(nil), nil, 1, 1, nil)
	require.NoError(t, w.Stop(context.Background()))
	require.NoError(t, w.Stop(context.Background()))

	err := w.Publish(context.Background(), events.Event{Type: events.EventOrderCreated})
	assert.ErrorIs(t, err, ErrWorkerStopped)
}

func TestNotificationWorkerPublishHonoursContext(t *testing.T) {
	inner := events.NewInMemoryDispatcher(nil)
	release := make(chan struct{})
	inner.Subscribe(events.EventOrderCreated, func(context.Context, events.Event) error {
		<-release
		return nil
	})
	w := StartNotificationWorker(inner, nil, 1, 0, nil)

	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventOrderCreated}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := w.Publish(ctx, events.Event{Type: events.EventOrderCreated})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, w.Stop(context.Background()))
}

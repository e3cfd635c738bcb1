package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/qasim12343/MarketPlace-sub002/internal/events"
	"github.com/qasim12343/MarketPlace-sub002/internal/service"
)

// ErrWorkerStopped is returned by Publish after Stop.
var ErrWorkerStopped = errors.New("notification worker stopped")

// NotificationWorker moves order event delivery off the request path. It
// implements events.Dispatcher: Publish enqueues, and a fixed pool of
// goroutines hands each event to the wrapped dispatcher.
type NotificationWorker struct {
	inner  events.Dispatcher
	queue  chan queued
	logger *zap.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

type queued struct {
	ctx   context.Context
	event events.Event
}

// StartNotificationWorker registers the notification handlers on inner and
// starts workers goroutines draining a queue of the given size.
func StartNotificationWorker(inner events.Dispatcher, notifications *service.NotificationService, workers, buffer int, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if notifications != nil {
		notifications.RegisterHandlers()
	}

	w := &NotificationWorker{
		inner:  inner,
		queue:  make(chan queued, buffer),
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go w.run()
	}
	logger.Info("notification worker started", zap.Int("workers", workers), zap.Int("buffer", buffer))
	return w
}

func (w *NotificationWorker) run() {
	defer w.wg.Done()
	for item := range w.queue {
		if err := w.inner.Publish(item.ctx, item.event); err != nil {
			w.logger.Warn("event delivery failed",
				zap.String("event_id", item.event.ID),
				zap.String("event_type", string(item.event.Type)),
				zap.Error(err),
			)
		}
	}
}

// Publish enqueues event. It blocks while the queue is full until ctx is done.
// Handlers receive a context detached from the caller's cancellation.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrWorkerStopped
	}
	select {
	case w.queue <- queued{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers handler on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Stop rejects new events and waits for queued ones to be delivered or ctx to end.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

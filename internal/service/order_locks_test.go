package service

import (
	"context"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	"github.com/qasim12343/MarketPlace-sub002/internal/repository/memory"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	locks := newKeyedMutex()
	counters := map[string]int{"a": 0, "b": 0}
	var guard sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, key := range []string{"a", "b"} {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				unlock := locks.Lock(key)
				defer unlock()

				guard.Lock()
				v := counters[key]
				guard.Unlock()

				guard.Lock()
				counters[key] = v + 1
				guard.Unlock()
			}(key)
		}
	}
	wg.Wait()

	assert.Equal(t, 50, counters["a"])
	assert.Equal(t, 50, counters["b"])
	assert.Zero(t, locks.size())
}

// slowOrderRepository widens the window in which a request holds an order lock.
type slowOrderRepository struct {
	*memory.OrderRepository
}

func (r slowOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	time.Sleep(2 * time.Millisecond)
	return r.OrderRepository.GetByID(ctx, id)
}

func TestKeyedMutexCopiesRouteParamKeys(t *testing.T) {
	f := newOrderFixture(t)
	var orderIDs []string
	for i := 0; i < 10; i++ {
		orderIDs = append(orderIDs, f.create(t).ID)
	}
	f.service.orders = slowOrderRepository{f.orders}

	var advanced atomic.Int32
	app := fiber.New()
	app.Post("/orders/:id/status", func(c *fiber.Ctx) error {
		_, err := f.service.AdvanceStatus(c.UserContext(), f.owner, c.Params("id"), AdvanceInput{
			Target: domain.OrderStatusProcessing,
		})
		if err != nil {
			return c.SendStatus(fiber.StatusConflict)
		}
		advanced.Add(1)
		return c.SendStatus(fiber.StatusOK)
	})

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/orders/"+id+"/status", nil), -1)
			if assert.NoError(t, err) {
				_ = resp.Body.Close()
			}
		}(orderIDs[i%len(orderIDs)])
	}
	wg.Wait()

	assert.EqualValues(t, len(orderIDs), advanced.Load(), "one transition per order")
	assert.Zero(t, f.service.locks.size())
	for _, id := range orderIDs {
		history, err := f.orders.ListHistory(context.Background(), id)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	}
}

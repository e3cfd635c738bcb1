package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	"github.com/qasim12343/MarketPlace-sub002/internal/repository"
)

// OrderRepository stores orders and their status history in memory.
type OrderRepository struct {
	mu      sync.RWMutex
	orders  map[string]domain.Order
	history map[string][]domain.OrderStatusChange
}

// NewOrderRepository returns an empty store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:  make(map[string]domain.Order),
		history: make(map[string][]domain.OrderStatusChange),
	}
}

func (r *OrderRepository) Create(_ context.Context, order *domain.Order, initial *domain.OrderStatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return repository.ErrDuplicate
	}
	r.orders[order.ID] = cloneOrder(*order)
	r.history[order.ID] = []domain.OrderStatusChange{*initial}
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := cloneOrder(order)
	return &clone, nil
}

func (r *OrderRepository) ListRecent(_ context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	r.mu.RLock()
	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.BuyerID != nil && order.BuyerID != *filter.BuyerID {
			continue
		}
		if filter.OwnerID != nil && order.OwnerID != *filter.OwnerID {
			continue
		}
		clone := cloneOrder(order)
		clone.LineItems = nil
		result = append(result, clone)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 5
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *OrderRepository) Transition(_ context.Context, order *domain.Order, from domain.OrderStatus, change *domain.OrderStatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != from {
		return repository.ErrStaleStatus
	}

	stored.Status = order.Status
	stored.TrackingCode = order.TrackingCode
	stored.CancelReason = order.CancelReason
	stored.LastStatusChangeAt = order.LastStatusChangeAt
	r.orders[order.ID] = stored
	r.history[order.ID] = append(r.history[order.ID], *change)
	return nil
}

func (r *OrderRepository) ListHistory(_ context.Context, orderID string) ([]domain.OrderStatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.history[orderID]
	out := make([]domain.OrderStatusChange, len(history))
	copy(out, history)
	return out, nil
}

func cloneOrder(order domain.Order) domain.Order {
	if order.LineItems != nil {
		items := make([]domain.LineItem, len(order.LineItems))
		copy(items, order.LineItems)
		order.LineItems = items
	}
	return order
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

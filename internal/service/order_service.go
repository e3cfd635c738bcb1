package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/qasim12343/MarketPlace-sub002/internal/auth"
	"github.com/qasim12343/MarketPlace-sub002/internal/config"
	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	"github.com/qasim12343/MarketPlace-sub002/internal/events"
	"github.com/qasim12343/MarketPlace-sub002/internal/observability"
	"github.com/qasim12343/MarketPlace-sub002/internal/repository"
	apperrors "github.com/qasim12343/MarketPlace-sub002/pkg/util/errorutil"
)

// OrderService enforces the order status machine and serves its projections.
type OrderService struct {
	orders       repository.OrderRepository
	owners       repository.OwnerRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	metrics      *observability.Metrics
	tracer       trace.Tracer
	locks        *keyedMutex
	now          func() time.Time
	defaultLimit int
	maxLimit     int
}

// OrderDependencies bundles repositories for order service.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	OwnerRepo  repository.OwnerRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// CreateOrderInput describes a checkout handed over by the storefront.
type CreateOrderInput struct {
	OwnerID     string
	LineItems   []domain.LineItem
	TotalAmount int64
}

// AdvanceInput describes a requested status change.
type AdvanceInput struct {
	Target       domain.OrderStatus
	TrackingCode string
	Reason       string
}

// OrderTimeline pairs an order with its four-step fulfilment timeline.
type OrderTimeline struct {
	Order   *domain.Order
	Entries []domain.TimelineEntry
}

// NewOrderService constructs the service.
func NewOrderService(cfg config.OrdersConfig, deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	defaultLimit, maxLimit := cfg.DefaultRecentLimit, cfg.MaxRecentLimit
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &OrderService{
		orders:       deps.OrderRepo,
		owners:       deps.OwnerRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		metrics:      deps.Metrics,
		tracer:       observability.Tracer("avina/service/order"),
		locks:        newKeyedMutex(),
		now:          clock,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// CreateOrder records a new pending order for the authenticated buyer.
func (s *OrderService) CreateOrder(ctx context.Context, actor *auth.Principal, input CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	if !actor.IsUser() {
		return nil, apperrors.NewNotAuthorized("only buyers can place orders")
	}
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}
	if _, err := s.owners.GetByID(ctx, input.OwnerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("invalid input", map[string]any{"owner_id": "unknown store owner"})
		}
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	items := make([]domain.LineItem, len(input.LineItems))
	copy(items, input.LineItems)

	order := &domain.Order{
		ID:                 uuid.NewString(),
		Number:             generateOrderNumber(),
		BuyerID:            actor.SubjectID,
		OwnerID:            input.OwnerID,
		LineItems:          items,
		LineItemCount:      len(items),
		TotalAmount:        input.TotalAmount,
		Status:             domain.OrderStatusPending,
		CreatedAt:          now,
		LastStatusChangeAt: now,
	}
	initial := &domain.OrderStatusChange{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		ToStatus:      domain.OrderStatusPending,
		ChangedByKind: actor.Kind,
		ChangedByID:   actor.SubjectID,
		Note:          "order placed",
		ChangedAt:     now,
	}
	if err := s.orders.Create(ctx, order, initial); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("number", order.Number),
		zap.String("buyer_id", order.BuyerID),
		zap.Int64("total_amount", order.TotalAmount),
	)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderCreated,
		OrderID: order.ID,
		Actor:   actorOf(actor),
		Payload: events.OrderCreatedPayload{
			Number:        order.Number,
			BuyerID:       order.BuyerID,
			OwnerID:       order.OwnerID,
			LineItemCount: order.LineItemCount,
			TotalAmount:   order.TotalAmount,
		},
	})
	return order, nil
}

// AdvanceStatus moves an order along one edge of the status machine. Owners
// may take any edge on orders they fulfil; buyers may only cancel their own
// orders. Calls for the same order are serialized, and the store applies the
// change only if the status it read is still current.
func (s *OrderService) AdvanceStatus(ctx context.Context, actor *auth.Principal, orderID string, input AdvanceInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.AdvanceStatus", trace.WithAttributes(
		attribute.String("order_id", orderID),
		attribute.String("target", string(input.Target)),
	))
	defer span.End()

	target := input.Target
	if !target.Valid() {
		return nil, apperrors.NewValidationError("invalid input", map[string]any{"status": "unknown order status"})
	}
	if actor.IsUser() && target != domain.OrderStatusCancelled {
		return nil, apperrors.NewNotAuthorized("buyers can only cancel orders")
	}

	unlock := s.locks.Lock(orderID)
	defer unlock()

	order, err := s.load(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !domain.CanTransition(from, target) {
		s.metrics.RecordTransition(string(from), string(target), "rejected")
		return nil, apperrors.NewInvalidTransition(string(from), string(target))
	}

	trackingCode := strings.TrimSpace(input.TrackingCode)
	if target == domain.OrderStatusShipped && trackingCode == "" {
		return nil, apperrors.NewValidationError("invalid input", map[string]any{"tracking_code": "is required when shipping"})
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	reason := strings.TrimSpace(input.Reason)

	updated := *order
	updated.Status = target
	updated.LastStatusChangeAt = now
	switch target {
	case domain.OrderStatusShipped:
		updated.TrackingCode = &trackingCode
	case domain.OrderStatusCancelled:
		if reason != "" {
			updated.CancelReason = &reason
		}
	}

	change := &domain.OrderStatusChange{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		FromStatus:    &from,
		ToStatus:      target,
		ChangedByKind: actor.Kind,
		ChangedByID:   actor.SubjectID,
		Note:          reason,
		ChangedAt:     now,
	}

	if err := s.orders.Transition(ctx, &updated, from, change); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleStatus):
			s.metrics.RecordTransition(string(from), string(target), "conflict")
			return nil, apperrors.NewInvalidTransition(string(from), string(target))
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewOrderNotFound(orderID)
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	s.metrics.RecordTransition(string(from), string(target), "ok")
	s.logger.Info("order status advanced",
		zap.String("order_id", order.ID),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.String("actor_kind", string(actor.Kind)),
		zap.String("actor_id", actor.SubjectID),
	)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderStatusChanged,
		OrderID: order.ID,
		Actor:   actorOf(actor),
		Payload: events.OrderStatusChangedPayload{
			Number:       updated.Number,
			BuyerID:      updated.BuyerID,
			OwnerID:      updated.OwnerID,
			OldStatus:    from,
			NewStatus:    target,
			TrackingCode: updated.TrackingCode,
			Reason:       reason,
		},
	})
	return &updated, nil
}

// GetOrder returns an order visible to the actor.
func (s *OrderService) GetOrder(ctx context.Context, actor *auth.Principal, orderID string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder")
	defer span.End()

	return s.load(ctx, actor, orderID)
}

// ListRecentOrders returns the actor's newest orders: purchases for a buyer,
// fulfilments for an owner. limit is clamped to the configured bounds.
func (s *OrderService) ListRecentOrders(ctx context.Context, actor *auth.Principal, limit int) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListRecentOrders")
	defer span.End()

	filter := repository.OrderFilter{Limit: s.clampLimit(limit)}
	switch {
	case actor.IsUser():
		filter.BuyerID = &actor.SubjectID
	case actor.IsOwner():
		filter.OwnerID = &actor.SubjectID
	default:
		return nil, apperrors.NewNotAuthorized("unknown principal")
	}

	orders, err := s.orders.ListRecent(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// GetTimeline reconstructs when the order reached each forward status.
func (s *OrderService) GetTimeline(ctx context.Context, actor *auth.Principal, orderID string) (*OrderTimeline, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetTimeline")
	defer span.End()

	order, err := s.load(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	history, err := s.orders.ListHistory(ctx, orderID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &OrderTimeline{Order: order, Entries: domain.BuildTimeline(order, history)}, nil
}

// GetHistory returns the raw status-change audit trail, oldest first.
func (s *OrderService) GetHistory(ctx context.Context, actor *auth.Principal, orderID string) ([]domain.OrderStatusChange, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetHistory")
	defer span.End()

	if _, err := s.load(ctx, actor, orderID); err != nil {
		return nil, err
	}
	history, err := s.orders.ListHistory(ctx, orderID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return history, nil
}

// load fetches the order and checks that the actor is its buyer or its owner.
// Orders belonging to someone else yield NOT_AUTHORIZED, never ORDER_NOT_FOUND.
func (s *OrderService) load(ctx context.Context, actor *auth.Principal, orderID string) (*domain.Order, error) {
	if actor == nil {
		return nil, apperrors.NewInvalidToken("authentication required")
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewOrderNotFound(orderID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	switch {
	case actor.IsUser() && order.BuyerID == actor.SubjectID:
		return order, nil
	case actor.IsOwner() && order.OwnerID == actor.SubjectID:
		return order, nil
	default:
		return nil, apperrors.NewNotAuthorized("order belongs to another account")
	}
}

func (s *OrderService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func (s *OrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("order event not published",
			zap.String("order_id", event.OrderID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
	}
}

func validateOrderInput(input CreateOrderInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.OwnerID) == "" {
		details["owner_id"] = "is required"
	}
	if len(input.LineItems) == 0 {
		details["line_items"] = "must contain at least one item"
	}

	seen := make(map[string]struct{}, len(input.LineItems))
	var sum int64
	overflow := false
	for i, item := range input.LineItems {
		field := fmt.Sprintf("line_items[%d]", i)
		switch {
		case strings.TrimSpace(item.ProductID) == "":
			details[field] = "product_id is required"
			continue
		case item.Quantity < 1:
			details[field] = "quantity must be at least 1"
			continue
		case item.UnitPrice < 0:
			details[field] = "unit_price must not be negative"
			continue
		}
		if _, dup := seen[item.ProductID]; dup {
			details[field] = "duplicate product_id"
			continue
		}
		seen[item.ProductID] = struct{}{}

		if item.UnitPrice > 0 && int64(item.Quantity) > (math.MaxInt64-sum)/item.UnitPrice {
			overflow = true
			continue
		}
		sum += item.Subtotal()
	}

	switch {
	case overflow:
		details["total_amount"] = "exceeds the supported range"
	case input.TotalAmount <= 0:
		details["total_amount"] = "must be greater than 0"
	case len(details) == 0 && input.TotalAmount != sum:
		details["total_amount"] = fmt.Sprintf("must equal the sum of line items (%d)", sum)
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid input", details)
	}
	return nil
}

func generateOrderNumber() string {
	return "AVN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func actorOf(p *auth.Principal) events.Actor {
	return events.Actor{Kind: p.Kind, ID: p.SubjectID}
}

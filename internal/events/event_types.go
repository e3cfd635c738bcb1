package events

import (
	"time"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderStatusChanged EventType = "order_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Kind domain.SubjectKind `json:"kind"`
	ID   string             `json:"id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	OrderID   string    `json:"order_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	Number        string `json:"number"`
	BuyerID       string `json:"buyer_id"`
	OwnerID       string `json:"owner_id"`
	LineItemCount int    `json:"line_item_count"`
	TotalAmount   int64  `json:"total_amount"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	Number       string             `json:"number"`
	BuyerID      string             `json:"buyer_id"`
	OwnerID      string             `json:"owner_id"`
	OldStatus    domain.OrderStatus `json:"old_status"`
	NewStatus    domain.OrderStatus `json:"new_status"`
	TrackingCode *string            `json:"tracking_code,omitempty"`
	Reason       string             `json:"reason,omitempty"`
}

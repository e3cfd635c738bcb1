package domain

import "time"

// OrderStatus enumerates lifecycle states for orders.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ForwardStatuses is the happy path rendered by the order timeline.
var ForwardStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// allowedTransitions is the only source of truth for status edges.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Terminal reports whether no edge leaves s.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(allowedTransitions[s]) == 0
}

// IsForward reports whether s is a fulfilment step rather than the cancellation escape.
func (s OrderStatus) IsForward() bool {
	return s.Valid() && s != OrderStatusCancelled && s != OrderStatusPending
}

// CanTransition reports whether the edge current -> next exists.
func CanTransition(current, next OrderStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// LineItem is a single purchased product. Amounts are integral Rials.
type LineItem struct {
	ProductID string
	Title     string
	Quantity  int
	UnitPrice int64
}

// Subtotal returns quantity times unit price.
func (i LineItem) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Order is the aggregate owned by the order lifecycle engine.
type Order struct {
	ID                 string
	Number             string
	BuyerID            string
	OwnerID            string
	LineItems          []LineItem
	LineItemCount      int
	TotalAmount        int64
	Status             OrderStatus
	TrackingCode       *string
	CancelReason       *string
	CreatedAt          time.Time
	LastStatusChangeAt time.Time
}

// TimelineEntry reports whether and when an order reached a forward status.
type TimelineEntry struct {
	Status       OrderStatus
	ReachedAt    *time.Time
	Current      bool
	TrackingCode *string
}

// BuildTimeline reconstructs the four forward steps from the status history.
// Entries after the current status, or never reached before a cancellation, have a nil ReachedAt.
func BuildTimeline(order *Order, history []OrderStatusChange) []TimelineEntry {
	reached := make(map[OrderStatus]time.Time, len(history)+1)
	reached[OrderStatusPending] = order.CreatedAt
	for _, change := range history {
		if _, seen := reached[change.ToStatus]; !seen {
			reached[change.ToStatus] = change.ChangedAt
		}
	}

	entries := make([]TimelineEntry, 0, len(ForwardStatuses))
	for _, status := range ForwardStatuses {
		entry := TimelineEntry{Status: status, Current: status == order.Status}
		if at, ok := reached[status]; ok {
			entry.ReachedAt = &at
		}
		if status == OrderStatusShipped && entry.ReachedAt != nil {
			entry.TrackingCode = order.TrackingCode
		}
		entries = append(entries, entry)
	}
	return entries
}

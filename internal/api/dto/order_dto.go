package dto

import (
	"time"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
)

// LineItemRequest is one purchased product. Prices are integral Rials.
type LineItemRequest struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// CreateOrderRequest payload.
type CreateOrderRequest struct {
	OwnerID     string            `json:"owner_id"`
	LineItems   []LineItemRequest `json:"line_items"`
	TotalAmount int64             `json:"total_amount"`
}

// Items converts the request line items.
func (r CreateOrderRequest) Items() []domain.LineItem {
	items := make([]domain.LineItem, 0, len(r.LineItems))
	for _, li := range r.LineItems {
		items = append(items, domain.LineItem{
			ProductID: li.ProductID,
			Title:     li.Title,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
		})
	}
	return items
}

// AdvanceStatusRequest payload.
type AdvanceStatusRequest struct {
	Status       domain.OrderStatus `json:"status"`
	TrackingCode string             `json:"tracking_code"`
	Reason       string             `json:"reason"`
}

// LineItemResponse metadata.
type LineItemResponse struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// OrderResponse represents an order. Owner identifiers are omitted for buyers.
type OrderResponse struct {
	ID                 string             `json:"id"`
	Number             string             `json:"number"`
	BuyerID            string             `json:"buyer_id"`
	OwnerID            string             `json:"owner_id,omitempty"`
	Status             domain.OrderStatus `json:"status"`
	LineItemCount      int                `json:"line_item_count"`
	TotalAmount        int64              `json:"total_amount"`
	LineItems          []LineItemResponse `json:"line_items,omitempty"`
	TrackingCode       *string            `json:"tracking_code"`
	CancelReason       *string            `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	LastStatusChangeAt time.Time          `json:"last_status_change_at"`
}

// NewOrderResponse maps an order for the given viewer kind.
func NewOrderResponse(o *domain.Order, viewer domain.SubjectKind) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID,
		Number:             o.Number,
		BuyerID:            o.BuyerID,
		Status:             o.Status,
		LineItemCount:      o.LineItemCount,
		TotalAmount:        o.TotalAmount,
		TrackingCode:       o.TrackingCode,
		CancelReason:       o.CancelReason,
		CreatedAt:          o.CreatedAt,
		LastStatusChangeAt: o.LastStatusChangeAt,
	}
	if viewer == domain.SubjectKindOwner {
		resp.OwnerID = o.OwnerID
	}
	for _, li := range o.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			ProductID: li.ProductID,
			Title:     li.Title,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Subtotal:  li.Subtotal(),
		})
	}
	return resp
}

// TimelineStepResponse is one of the four forward steps.
type TimelineStepResponse struct {
	Status       domain.OrderStatus `json:"status"`
	ReachedAt    *time.Time         `json:"reached_at"`
	Current      bool               `json:"current"`
	TrackingCode *string            `json:"tracking_code,omitempty"`
}

// TimelineResponse payload.
type TimelineResponse struct {
	OrderID string                 `json:"order_id"`
	Status  domain.OrderStatus     `json:"status"`
	Steps   []TimelineStepResponse `json:"steps"`
}

// NewTimelineResponse maps a timeline.
func NewTimelineResponse(order *domain.Order, entries []domain.TimelineEntry) TimelineResponse {
	steps := make([]TimelineStepResponse, 0, len(entries))
	for _, e := range entries {
		steps = append(steps, TimelineStepResponse{
			Status:       e.Status,
			ReachedAt:    e.ReachedAt,
			Current:      e.Current,
			TrackingCode: e.TrackingCode,
		})
	}
	return TimelineResponse{OrderID: order.ID, Status: order.Status, Steps: steps}
}

// StatusChangeResponse is one audit trail row. Actor fields are omitted for buyers.
type StatusChangeResponse struct {
	FromStatus    *domain.OrderStatus `json:"from_status"`
	ToStatus      domain.OrderStatus  `json:"to_status"`
	ChangedByKind domain.SubjectKind  `json:"changed_by_kind,omitempty"`
	ChangedByID   string              `json:"changed_by_id,omitempty"`
	Note          string              `json:"note,omitempty"`
	ChangedAt     time.Time           `json:"changed_at"`
}

// NewStatusChangeResponses maps history rows for the given viewer kind.
func NewStatusChangeResponses(history []domain.OrderStatusChange, viewer domain.SubjectKind) []StatusChangeResponse {
	out := make([]StatusChangeResponse, 0, len(history))
	for _, h := range history {
		row := StatusChangeResponse{
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			Note:       h.Note,
			ChangedAt:  h.ChangedAt,
		}
		if viewer == domain.SubjectKindOwner {
			row.ChangedByKind = h.ChangedByKind
			row.ChangedByID = h.ChangedByID
		}
		out = append(out, row)
	}
	return out
}

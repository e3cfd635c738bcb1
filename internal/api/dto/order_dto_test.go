package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
)

func TestOrderResponseHidesOwnerMetadataFromBuyers(t *testing.T) {
	order := &domain.Order{
		ID:        "o-1",
		BuyerID:   "u-1",
		OwnerID:   "s-1",
		Status:    domain.OrderStatusPending,
		LineItems: []domain.LineItem{{ProductID: "p-1", Quantity: 3, UnitPrice: 2000}},
	}

	buyerView := NewOrderResponse(order, domain.SubjectKindUser)
	assert.Empty(t, buyerView.OwnerID)
	assert.EqualValues(t, 6000, buyerView.LineItems[0].Subtotal)

	ownerView := NewOrderResponse(order, domain.SubjectKindOwner)
	assert.Equal(t, "s-1", ownerView.OwnerID)
}

func TestStatusChangeResponsesHideActors(t *testing.T) {
	pending := domain.OrderStatusPending
	history := []domain.OrderStatusChange{{
		FromStatus:    &pending,
		ToStatus:      domain.OrderStatusProcessing,
		ChangedByKind: domain.SubjectKindOwner,
		ChangedByID:   "s-1",
		ChangedAt:     time.Now(),
	}}

	buyerRows := NewStatusChangeResponses(history, domain.SubjectKindUser)
	assert.Empty(t, buyerRows[0].ChangedByID)
	assert.Empty(t, buyerRows[0].ChangedByKind)

	ownerRows := NewStatusChangeResponses(history, domain.SubjectKindOwner)
	assert.Equal(t, "s-1", ownerRows[0].ChangedByID)
}

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/qasim12343/MarketPlace-sub002/internal/api/dto"
	"github.com/qasim12343/MarketPlace-sub002/internal/auth"
	"github.com/qasim12343/MarketPlace-sub002/internal/service"
	apperrors "github.com/qasim12343/MarketPlace-sub002/pkg/util/errorutil"
)

// OrdersHandler exposes order endpoints to owners and buyers.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Create places an order for the authenticated buyer.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	order, err := h.orders.CreateOrder(c.UserContext(), principal, service.CreateOrderInput{
		OwnerID:     req.OwnerID,
		LineItems:   req.Items(),
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewOrderResponse(order, principal.Kind)})
}

// Recent lists the newest orders visible to the caller.
func (h *OrdersHandler) Recent(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewValidationError("limit must be an integer", map[string]any{"limit": raw})
		}
	}

	orders, err := h.orders.ListRecentOrders(c.UserContext(), principal, limit)
	if err != nil {
		return err
	}
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, dto.NewOrderResponse(&orders[i], principal.Kind))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get returns order detail.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	order, err := h.orders.GetOrder(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponse(order, principal.Kind)})
}

// Timeline returns the four-step fulfilment progress.
func (h *OrdersHandler) Timeline(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	timeline, err := h.orders.GetTimeline(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTimelineResponse(timeline.Order, timeline.Entries)})
}

// History returns the status audit trail.
func (h *OrdersHandler) History(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	history, err := h.orders.GetHistory(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusChangeResponses(history, principal.Kind)})
}

// AdvanceStatus moves the order along its status machine.
func (h *OrdersHandler) AdvanceStatus(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req dto.AdvanceStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	order, err := h.orders.AdvanceStatus(c.UserContext(), principal, c.Params("id"), service.AdvanceInput{
		Target:       req.Status,
		TrackingCode: req.TrackingCode,
		Reason:       req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponse(order, principal.Kind)})
}

func currentPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewInvalidToken("authentication required")
	}
	return principal, nil
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clothstore/internal/middleware"
	"clothstore/internal/services"
)

// OrderHandler handles HTTP requests for checkout and orders.
type OrderHandler struct {
	service *services.OrderService
	logger  *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the checkout and order routes on an authenticated router.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/cart/checkout", h.HandleCheckout)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// HandleCheckout converts the bearer's cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	order, err := h.service.Checkout(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Checkout failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders lists the bearer's active and cancelled orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	history, err := h.service.ListOrders(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve orders", err)
	}
	return c.JSON(history)
}

// HandleGetOrderByID retrieves a single order with its items. Other customers' orders are not found.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels an active order. Cancelling twice succeeds with cancelled=false.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	cancelled, err := h.service.CancelOrder(c.UserContext(), middleware.UserID(c), orderID)
	if err != nil {
		return respondError(c, h.logger, "Could not cancel order", err)
	}

	message := "Order " + orderID + " cancelled successfully"
	if !cancelled {
		message = "Order " + orderID + " was already cancelled"
	}
	return c.JSON(fiber.Map{
		"message":   message,
		"cancelled": cancelled,
	})
}

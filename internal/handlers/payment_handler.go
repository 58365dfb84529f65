package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clothstore/internal/middleware"
	"clothstore/internal/services"
)

// PaymentHandler starts gateway checkouts and receives the success callback.
type PaymentHandler struct {
	service *services.PaymentService
	logger  *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the payment routes. The success callback is authenticated by its token.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/session", auth, h.HandleCreateSession)
	paymentRoutes.Get("/success", h.HandleSuccess)
}

// HandleCreateSession issues a checkout token for the bearer's cart.
func (h *PaymentHandler) HandleCreateSession(c *fiber.Ctx) error {
	session, err := h.service.IssueCheckoutToken(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not start payment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// HandleSuccess completes the checkout the gateway reports as paid.
func (h *PaymentHandler) HandleSuccess(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "token query parameter is required",
		})
	}

	order, err := h.service.CompleteCheckout(c.UserContext(), token)
	if err != nil {
		return respondError(c, h.logger, "Payment could not be completed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clothstore/internal/middleware"
	"clothstore/internal/models"
	"clothstore/internal/services"
)

// CouponHandler serves the coupon registry.
type CouponHandler struct {
	service  *services.CouponService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service *services.CouponService, logger *zap.Logger) *CouponHandler {
	return &CouponHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the customer-facing coupon routes on an authenticated router.
func (h *CouponHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/coupons/available", h.HandleAvailable)
}

// RegisterSellerRoutes registers coupon management on a router that already requires a seller.
func (h *CouponHandler) RegisterSellerRoutes(seller fiber.Router) {
	seller.Get("/coupons", h.HandleListCoupons)
	seller.Post("/coupons", h.HandleCreateCoupon)
}

// CouponRequest represents a new coupon.
type CouponRequest struct {
	Code  string `json:"code" validate:"required,max=20"`
	Kind  string `json:"kind" validate:"required,oneof=flat percentage"`
	Value int    `json:"value" validate:"min=0"`
}

// HandleCreateCoupon registers a coupon.
func (h *CouponHandler) HandleCreateCoupon(c *fiber.Ctx) error {
	var req CouponRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	coupon, err := h.service.CreateCoupon(c.UserContext(), services.CouponInput{
		Code:  req.Code,
		Kind:  models.CouponKind(req.Kind),
		Value: req.Value,
	})
	if err != nil {
		return respondError(c, h.logger, "Could not create coupon", err)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// HandleListCoupons lists every coupon.
func (h *CouponHandler) HandleListCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.ListCoupons(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve coupons", err)
	}
	return c.JSON(coupons)
}

// HandleAvailable lists the coupons the bearer has not consumed.
func (h *CouponHandler) HandleAvailable(c *fiber.Ctx) error {
	coupons, err := h.service.AvailableFor(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve coupons", err)
	}
	return c.JSON(coupons)
}

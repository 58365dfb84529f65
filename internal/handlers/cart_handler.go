package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clothstore/internal/middleware"
	"clothstore/internal/services"
)

// CartHandler serves the customer's cart page.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the cart routes on an authenticated router.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items/:productId", h.HandleAddProduct)
	cartRoutes.Post("/buy-now/:productId", h.HandleBuyNow)
	cartRoutes.Put("/items/:productId", h.HandleSetQuantity)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Post("/coupon", h.HandleApplyCoupon)
}

// HandleGetCart returns the open cart with its items and the coupons still available.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	view, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve cart", err)
	}
	return c.JSON(view)
}

// HandleAddProduct adds one unit of the product to the cart.
func (h *CartHandler) HandleAddProduct(c *fiber.Ctx) error {
	view, err := h.service.AddProduct(c.UserContext(), middleware.UserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, h.logger, "Could not add product to cart", err)
	}
	return c.JSON(view)
}

// HandleBuyNow adds the product and tells the client to continue to the cart.
func (h *CartHandler) HandleBuyNow(c *fiber.Ctx) error {
	view, err := h.service.AddProduct(c.UserContext(), middleware.UserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, h.logger, "Could not add product to cart", err)
	}
	return c.JSON(fiber.Map{
		"next": "cart",
		"cart": view.Cart,
	})
}

// QuantityRequest sets a line's quantity. Zero removes the line.
type QuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// HandleSetQuantity sets the quantity of a product in the cart.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var req QuantityRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	view, err := h.service.SetQuantity(c.UserContext(), middleware.UserID(c), c.Params("productId"), *req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Could not update cart", err)
	}
	return c.JSON(view)
}

// HandleRemoveItem drops a product from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	view, err := h.service.RemoveItem(c.UserContext(), middleware.UserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, h.logger, "Could not update cart", err)
	}
	return c.JSON(view)
}

// CouponCodeRequest carries a coupon code typed on the cart page.
type CouponCodeRequest struct {
	Code string `json:"code" validate:"required,max=20"`
}

// HandleApplyCoupon applies a coupon code to the cart.
func (h *CartHandler) HandleApplyCoupon(c *fiber.Ctx) error {
	var req CouponCodeRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	view, err := h.service.ApplyCoupon(c.UserContext(), middleware.UserID(c), req.Code)
	if err != nil {
		return respondError(c, h.logger, "Could not apply coupon", err)
	}
	return c.JSON(view)
}

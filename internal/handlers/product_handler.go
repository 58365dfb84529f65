package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"clothstore/internal/middleware"
	"clothstore/internal/services"
)

// ProductHandler serves the public catalog and the seller's product management.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the public product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// RegisterSellerRoutes registers product management on a router that already requires a seller.
func (h *ProductHandler) RegisterSellerRoutes(seller fiber.Router) {
	productRoutes := seller.Group("/products")
	productRoutes.Get("/", h.HandleListOwn)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Post("/:id/image", h.HandleImageUpload)
	productRoutes.Get("/:id/ordered", h.HandleOrderedQuantity)
}

// ProductRequest represents the seller-editable product fields.
type ProductRequest struct {
	Category string          `json:"category" validate:"required,max=20"`
	Name     string          `json:"name" validate:"required,max=50"`
	Brand    string          `json:"brand" validate:"required,max=50"`
	Size     string          `json:"size" validate:"required,max=5"`
	Price    decimal.Decimal `json:"price"`
	ListedOn *time.Time      `json:"listed_on"`
}

func (r ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Category: r.Category,
		Name:     r.Name,
		Brand:    r.Brand,
		Size:     r.Size,
		Price:    r.Price,
		ListedOn: r.ListedOn,
	}
}

// HandleGetProducts lists every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID returns one product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleListOwn lists the seller's products listed on or before today.
func (h *ProductHandler) HandleListOwn(c *fiber.Ctx) error {
	products, err := h.service.ListSellerProducts(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleCreateProduct lists a new product for the seller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), middleware.UserID(c), req.input())
	if err != nil {
		return respondError(c, h.logger, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct edits one of the seller's products.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), middleware.UserID(c), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, h.logger, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes one of the seller's products.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), middleware.UserID(c), id); err != nil {
		return respondError(c, h.logger, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product " + id + " deleted successfully",
	})
}

// ImageRequest names the content type the seller will upload.
type ImageRequest struct {
	ContentType string `json:"content_type" validate:"required"`
}

// HandleImageUpload returns a presigned URL the seller PUTs the product image to.
func (h *ProductHandler) HandleImageUpload(c *fiber.Ctx) error {
	var req ImageRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	upload, err := h.service.ImageUploadURL(c.UserContext(), middleware.UserID(c), c.Params("id"), req.ContentType)
	if err != nil {
		return respondError(c, h.logger, "Could not prepare image upload", err)
	}
	return c.JSON(upload)
}

// HandleOrderedQuantity reports how many units of the product have been ordered.
func (h *ProductHandler) HandleOrderedQuantity(c *fiber.Ctx) error {
	id := c.Params("id")
	quantity, err := h.service.OrderedQuantity(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, h.logger, "Could not count orders", err)
	}
	return c.JSON(fiber.Map{
		"product_id": id,
		"ordered":    quantity,
	})
}

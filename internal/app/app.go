// Package app assembles the HTTP application from its repositories, services and handlers.
package app

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clothstore/internal/config"
	"clothstore/internal/handlers"
	"clothstore/internal/locker"
	"clothstore/internal/middleware"
	"clothstore/internal/repositories"
	"clothstore/internal/services"
	"clothstore/internal/storage"
)

// Deps are the infrastructure pieces main wires in. Publisher may be nil.
type Deps struct {
	DB        *gorm.DB
	Logger    *zap.Logger
	Publisher services.EventPublisher
	Locker    locker.Locker
	Storage   storage.ImageStorage
}

// App is the assembled HTTP application.
type App struct {
	Fiber *fiber.App
	db    *gorm.DB
}

// New wires repositories, services and handlers and registers every route.
func New(cfg *config.Config, deps Deps) *App {
	log := deps.Logger
	store := repositories.NewGORMStore(deps.DB)

	authService := services.NewAuthService(store.Users(), cfg.JWT.Secret, cfg.JWT.TTL, log.Named("auth"))
	productService := services.NewProductService(store.Products(), deps.Storage, log.Named("catalog"))
	couponService := services.NewCouponService(store.Coupons(), log.Named("coupons"))
	cartService := services.NewCartService(store, deps.Locker, log.Named("cart"))
	orderService := services.NewOrderService(store, deps.Locker, deps.Publisher, log.Named("orders"))
	paymentService := services.NewPaymentService(orderService, store.Carts(), cfg.JWT.Secret, cfg.Payment.TokenTTL, cfg.Payment.CallbackURL, log.Named("payments"))

	authHandler := handlers.NewAuthHandler(authService, log)
	productHandler := handlers.NewProductHandler(productService, log)
	couponHandler := handlers.NewCouponHandler(couponService, log)
	cartHandler := handlers.NewCartHandler(cartService, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	paymentHandler := handlers.NewPaymentHandler(paymentService, log)

	app := fiber.New(fiber.Config{
		AppName:      "clothstore",
		ErrorHandler: errorHandler(log),
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	a := &App{Fiber: app, db: deps.DB}
	app.Get("/health", a.handleHealth)

	apiV1 := app.Group("/api/v1")
	auth := middleware.AuthRequired(authService, log)

	// Public routes
	authHandler.RegisterRoutes(apiV1, auth)
	productHandler.RegisterRoutes(apiV1)
	paymentHandler.RegisterRoutes(apiV1, auth)

	// Seller routes
	seller := apiV1.Group("/seller", auth, middleware.SellerRequired())
	productHandler.RegisterSellerRoutes(seller)
	couponHandler.RegisterSellerRoutes(seller)

	// Customer routes
	protected := apiV1.Group("", auth)
	cartHandler.RegisterRoutes(protected)
	couponHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	return a
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"time":     time.Now().Format(time.RFC3339),
			"database": "unreachable",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "connected",
	})
}

// Listen serves HTTP on addr until Shutdown.
func (a *App) Listen(addr string) error {
	return a.Fiber.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests up to timeout.
func (a *App) Shutdown(timeout time.Duration) error {
	return a.Fiber.ShutdownWithTimeout(timeout)
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}
		if code == fiber.StatusInternalServerError {
			log.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(code).JSON(fiber.Map{"message": "Internal server error"})
		}
		return c.Status(code).JSON(fiber.Map{"message": err.Error()})
	}
}

package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clothstore/internal/middleware"
	"clothstore/internal/models"
	"clothstore/internal/services"
)

// AuthHandler handles HTTP requests for authentication and the user's profile.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication and profile routes. The profile routes run behind auth.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)

	router.Get("/profile", auth, h.HandleGetProfile)
	router.Put("/profile", auth, h.HandleUpdateProfile)
}

// RegisterRequest represents the request body for signup.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	UserType string `json:"user_type" validate:"omitempty,oneof=Customer Merchant"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		UserType: models.UserType(req.UserType),
	})
	if err != nil {
		return respondError(c, h.logger, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, "Authentication failed", err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleGetProfile returns the bearer with their profile.
func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve profile", err)
	}
	return c.JSON(user)
}

// ProfileRequest represents the editable profile fields. Omitted fields keep their value.
type ProfileRequest struct {
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address" validate:"omitempty,max=150"`
	City        *string `json:"city" validate:"omitempty,max=50"`
	State       *string `json:"state" validate:"omitempty,max=50"`
	Country     *string `json:"country" validate:"omitempty,max=50"`
	PostalCode  *string `json:"postal_code" validate:"omitempty,max=12"`
	Contact     *string `json:"contact" validate:"omitempty,e164"`
}

// HandleUpdateProfile updates the bearer's profile.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	in := services.ProfileInput{
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Contact:    req.Contact,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(time.DateOnly, *req.DateOfBirth)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid date of birth",
				"error":   err.Error(),
			})
		}
		in.DateOfBirth = &dob
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return respondError(c, h.logger, "Could not update profile", err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

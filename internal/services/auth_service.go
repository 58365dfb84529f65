package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"clothstore/internal/models"
	"clothstore/internal/repositories"
)

// AuthService handles registration, login and profiles.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// RegisterInput carries the signup form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	UserType models.UserType
}

// ProfileInput carries the editable profile fields. Nil fields are left unchanged.
type ProfileInput struct {
	DateOfBirth *time.Time
	Address     *string
	City        *string
	State       *string
	Country     *string
	PostalCode  *string
	Contact     *string
}

// Claims is what a valid session token says about its bearer.
type Claims struct {
	UserID   string
	Email    string
	UserType models.UserType
}

// Register hashes the password and stores the user with an empty profile.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if in.UserType == "" {
		in.UserType = models.UserTypeCustomer
	}
	if in.UserType != models.UserTypeCustomer && in.UserType != models.UserTypeMerchant {
		return nil, fmt.Errorf("unknown user type %q: %w", in.UserType, ErrValidation)
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("email '%s' already registered: %w", email, ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    email,
		Password: string(hashedPassword),
		UserType: in.UserType,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("email '%s' already registered: %w", email, ErrConflict)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("user_type", string(user.UserType)))
	return user, nil
}

// Login returns a signed session token. Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
		}
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"email":     user.Email,
		"user_type": string(user.UserType),
		"exp":       now.Add(s.tokenTTL).Unix(),
		"iat":       now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses a session token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims, err := parseHMAC(tokenString, s.jwtSecret)
	if err != nil {
		s.logger.Debug("token validation failed", zap.Error(err))
		return nil, err
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)
	userType, _ := claims["user_type"].(string)
	return &Claims{UserID: userID, Email: email, UserType: models.UserType(userType)}, nil
}

// GetProfile returns the user with their profile.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies in to the user's profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := user.Profile
	if in.DateOfBirth != nil {
		p.DateOfBirth = in.DateOfBirth
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.Address, in.Address)
	set(&p.City, in.City)
	set(&p.State, in.State)
	set(&p.Country, in.Country)
	set(&p.PostalCode, in.PostalCode)
	set(&p.Contact, in.Contact)

	if err := s.userRepo.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return user, nil
}

// parseHMAC verifies signature and expiry of an HS256 token.
func parseHMAC(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

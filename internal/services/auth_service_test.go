package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"clothstore/internal/models"
	"clothstore/internal/repositories"
	"clothstore/internal/services"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(repo, testJWTSecret, time.Hour, zap.NewNop())
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	in := services.RegisterInput{Name: "Test", Email: "Test@Example.com", Password: "password123"}

	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, fmt.Errorf("user %w", repositories.ErrNotFound)).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, models.UserTypeCustomer, user.UserType)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.Register(ctx, in)
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockRepo.AssertExpectations(t)

	// Lost a race on the unique index
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicate).Once()
	_, err = authService.Register(ctx, in)
	assert.ErrorIs(t, err, services.ErrConflict)
	mockRepo.AssertExpectations(t)

	// Unknown user type never reaches the repository
	_, err = authService.Register(ctx, services.RegisterInput{Email: "x@example.com", Password: "p", UserType: "Admin"})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		UserType: models.UserTypeMerchant,
	}

	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	token, err := authService.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "Merchant", claims["user_type"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, err = authService.Login(ctx, "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Unknown email gets the same error
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository))

	sign := func(claims jwt.MapClaims, secret string) string {
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		return s
	}

	valid := sign(jwt.MapClaims{
		"user_id":   "user-123",
		"email":     "test@example.com",
		"user_type": "Customer",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	claims, err := authService.ValidateToken(valid)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.UserTypeCustomer, claims.UserType)

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	expired := sign(jwt.MapClaims{"user_id": "user-123", "exp": time.Now().Add(-time.Hour).Unix()}, testJWTSecret)
	_, err = authService.ValidateToken(expired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	forged := sign(jwt.MapClaims{"user_id": "user-123", "exp": time.Now().Add(time.Hour).Unix()}, "other")
	_, err = authService.ValidateToken(forged)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	anonymous := sign(jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, testJWTSecret)
	_, err = authService.ValidateToken(anonymous)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	user := &models.User{ID: "u1", Profile: &models.UserProfile{ID: "p1", UserID: "u1", City: "Old"}}
	mockRepo.On("GetByID", ctx, "u1").Return(user, nil).Once()
	mockRepo.On("UpdateProfile", ctx, mock.MatchedBy(func(p *models.UserProfile) bool {
		return p.City == "Springfield" && p.Contact == "+15551234567"
	})).Return(nil).Once()

	city, contact := " Springfield ", "+15551234567"
	updated, err := authService.UpdateProfile(ctx, "u1", services.ProfileInput{City: &city, Contact: &contact})
	require.NoError(t, err)
	assert.Equal(t, "Springfield", updated.Profile.City)
	mockRepo.AssertExpectations(t)

	mockRepo.On("GetByID", ctx, "missing").Return(nil, fmt.Errorf("user %w", repositories.ErrNotFound)).Once()
	_, err = authService.UpdateProfile(ctx, "missing", services.ProfileInput{})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

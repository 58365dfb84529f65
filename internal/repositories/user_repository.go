package repositories

import (
	"context"

	"clothstore/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create stores the user together with an empty profile.
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, profile *models.UserProfile) error
}

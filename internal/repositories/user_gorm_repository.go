package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clothstore/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts the user and its profile in one transaction.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("user with email %s %w", user.Email, ErrDuplicate)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		profile := &models.UserProfile{UserID: user.ID}
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create profile for user %s: %w", user.ID, err)
		}
		user.Profile = profile
		return nil
	})
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user with email %s %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user and their profile by ID.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	if user.Profile == nil {
		user.Profile = &models.UserProfile{UserID: user.ID}
	}
	return &user, nil
}

// UpdateProfile writes every profile field.
func (r *GORMUserRepository) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	res := r.db.WithContext(ctx).Save(profile)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	return nil
}

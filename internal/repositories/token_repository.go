package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"clothstore/internal/models"
)

// TokenRepository records spent single-use tokens.
type TokenRepository interface {
	Redeemed(ctx context.Context, jti string) (bool, error)
	// Redeem marks jti as spent. A second redemption of the same jti fails with ErrDuplicate.
	Redeem(ctx context.Context, token *models.RedeemedToken) error
}

// GORMTokenRepository is a GORM implementation of TokenRepository.
type GORMTokenRepository struct {
	db *gorm.DB
}

// NewGORMTokenRepository creates a new instance of GORMTokenRepository.
func NewGORMTokenRepository(db *gorm.DB) *GORMTokenRepository {
	return &GORMTokenRepository{db: db}
}

func (r *GORMTokenRepository) Redeemed(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RedeemedToken{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up token %s: %w", jti, err)
	}
	return count > 0, nil
}

func (r *GORMTokenRepository) Redeem(ctx context.Context, token *models.RedeemedToken) error {
	redeemed, err := r.Redeemed(ctx, token.JTI)
	if err != nil {
		return err
	}
	if redeemed {
		return fmt.Errorf("token %s %w", token.JTI, ErrDuplicate)
	}

	if token.RedeemedAt.IsZero() {
		token.RedeemedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("token %s %w", token.JTI, ErrDuplicate)
		}
		return fmt.Errorf("failed to redeem token %s: %w", token.JTI, err)
	}
	return nil
}

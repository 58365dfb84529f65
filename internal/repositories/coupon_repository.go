package repositories

import (
	"context"

	"clothstore/internal/models"
)

// CouponRepository defines data access for coupons and their per-customer usage.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	GetAll(ctx context.Context) ([]models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	GetUsedByID(ctx context.Context, id string) (*models.UsedCoupon, error)
	// GetOrCreateUsed returns the customer's usage record for coupon, creating an active one on first use.
	GetOrCreateUsed(ctx context.Context, customerID string, coupon *models.Coupon) (*models.UsedCoupon, error)
	SaveUsed(ctx context.Context, used *models.UsedCoupon) error
	// ListAvailable lists coupons the customer has not consumed.
	ListAvailable(ctx context.Context, customerID string) ([]models.Coupon, error)
}

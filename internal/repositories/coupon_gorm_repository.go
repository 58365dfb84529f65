package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clothstore/internal/models"
)

// GORMCouponRepository is a GORM implementation of CouponRepository.
type GORMCouponRepository struct {
	db *gorm.DB
}

// NewGORMCouponRepository creates a new instance of GORMCouponRepository.
func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{
		db: db,
	}
}

func (r *GORMCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("coupon %s %w", coupon.Code, ErrDuplicate)
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (r *GORMCouponRepository) GetAll(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.WithContext(ctx).Order("code").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to get coupons: %w", err)
	}
	return coupons, nil
}

func (r *GORMCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("coupon %s %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon %s: %w", code, err)
	}
	return &coupon, nil
}

func (r *GORMCouponRepository) GetUsedByID(ctx context.Context, id string) (*models.UsedCoupon, error) {
	var used models.UsedCoupon
	if err := r.db.WithContext(ctx).Preload("Coupon").First(&used, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("used coupon %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get used coupon %s: %w", id, err)
	}
	return &used, nil
}

func (r *GORMCouponRepository) GetOrCreateUsed(ctx context.Context, customerID string, coupon *models.Coupon) (*models.UsedCoupon, error) {
	var used models.UsedCoupon
	err := r.db.WithContext(ctx).
		First(&used, "customer_id = ? AND coupon_id = ?", customerID, coupon.ID).Error
	switch {
	case err == nil:
		used.Coupon = *coupon
		return &used, nil
	case !isNotFound(err):
		return nil, fmt.Errorf("failed to get used coupon %s for customer %s: %w", coupon.Code, customerID, err)
	}

	used = models.UsedCoupon{CustomerID: customerID, CouponID: coupon.ID, Active: true}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&used).Error; err != nil {
		return nil, fmt.Errorf("failed to record coupon %s for customer %s: %w", coupon.Code, customerID, err)
	}
	used.Coupon = *coupon
	return &used, nil
}

func (r *GORMCouponRepository) SaveUsed(ctx context.Context, used *models.UsedCoupon) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(used).Error; err != nil {
		return fmt.Errorf("failed to save used coupon %s: %w", used.ID, err)
	}
	return nil
}

func (r *GORMCouponRepository) ListAvailable(ctx context.Context, customerID string) ([]models.Coupon, error) {
	consumed := r.db.Model(&models.UsedCoupon{}).
		Select("coupon_id").
		Where("customer_id = ? AND active = ?", customerID, false)

	var coupons []models.Coupon
	err := r.db.WithContext(ctx).
		Where("id NOT IN (?)", consumed).
		Order("code").
		Find(&coupons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons for customer %s: %w", customerID, err)
	}
	return coupons, nil
}

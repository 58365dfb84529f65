package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clothstore/internal/models"
	"clothstore/internal/repositories"
)

// CouponService manages the coupon registry.
type CouponService struct {
	coupons repositories.CouponRepository
	logger  *zap.Logger
}

// NewCouponService creates a new CouponService.
func NewCouponService(coupons repositories.CouponRepository, logger *zap.Logger) *CouponService {
	return &CouponService{coupons: coupons, logger: logger}
}

// CouponInput describes a new coupon.
type CouponInput struct {
	Code  string
	Kind  models.CouponKind
	Value int
}

// CreateCoupon registers a coupon. Codes are stored upper-case.
func (s *CouponService) CreateCoupon(ctx context.Context, in CouponInput) (*models.Coupon, error) {
	coupon := &models.Coupon{
		Code:  strings.ToUpper(strings.TrimSpace(in.Code)),
		Kind:  in.Kind,
		Value: in.Value,
	}
	if coupon.Code == "" {
		return nil, fmt.Errorf("coupon code is required: %w", ErrValidation)
	}
	if err := coupon.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	if err := s.coupons.Create(ctx, coupon); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("coupon %s: %w", coupon.Code, ErrConflict)
		}
		return nil, err
	}
	s.logger.Info("coupon created", zap.String("coupon", coupon.Code), zap.String("kind", string(coupon.Kind)), zap.Int("value", coupon.Value))
	return coupon, nil
}

// ListCoupons returns every coupon.
func (s *CouponService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return s.coupons.GetAll(ctx)
}

// AvailableFor returns the coupons the customer has not consumed.
func (s *CouponService) AvailableFor(ctx context.Context, customerID string) ([]models.Coupon, error) {
	return s.coupons.ListAvailable(ctx, customerID)
}

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponKind selects how a coupon's value is interpreted.
type CouponKind string

const (
	CouponFlat       CouponKind = "flat"
	CouponPercentage CouponKind = "percentage"
)

var hundred = decimal.NewFromInt(100)

// Coupon is a discount code. Value is a flat amount or a percentage depending on Kind.
type Coupon struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code      string     `json:"code" gorm:"uniqueIndex;type:varchar(50);not null"`
	Kind      CouponKind `json:"kind" gorm:"type:varchar(12);not null"`
	Value     int        `json:"value" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at"`
}

// Validate rejects coupons whose value does not fit their kind.
func (c *Coupon) Validate() error {
	switch c.Kind {
	case CouponFlat:
		if c.Value < 0 {
			return fmt.Errorf("flat coupon %s: amount must not be negative", c.Code)
		}
	case CouponPercentage:
		if c.Value < 0 || c.Value > 100 {
			return fmt.Errorf("percentage coupon %s: value must be between 0 and 100", c.Code)
		}
	default:
		return fmt.Errorf("coupon %s: unknown kind %q", c.Code, c.Kind)
	}
	return nil
}

// BeforeSave keeps invalid coupons out of the registry.
func (c *Coupon) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}

// BeforeCreate assigns a UUID when none is set.
func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// Discount returns the amount this coupon takes off total.
func (c *Coupon) Discount(total decimal.Decimal) decimal.Decimal {
	switch c.Kind {
	case CouponFlat:
		return decimal.NewFromInt(int64(c.Value))
	case CouponPercentage:
		return total.Mul(decimal.NewFromInt(int64(c.Value))).Div(hundred).Round(2)
	default:
		return decimal.Zero
	}
}

// UsedCoupon records a customer's use of a coupon. It stays Active until an order consumes it.
type UsedCoupon struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string    `json:"customer_id" gorm:"uniqueIndex:idx_used_coupons_customer_coupon;type:varchar(36);not null"`
	CouponID   string    `json:"coupon_id" gorm:"uniqueIndex:idx_used_coupons_customer_coupon;type:varchar(36);not null"`
	Coupon     Coupon    `json:"coupon" gorm:"foreignKey:CouponID"`
	Active     bool      `json:"active" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none is set.
func (u *UsedCoupon) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

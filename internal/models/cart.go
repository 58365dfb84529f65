package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartStatus is the lifecycle state of a cart.
type CartStatus string

const (
	CartOpen       CartStatus = "open"
	CartCheckedOut CartStatus = "checked_out"
)

// Cart is a customer's in-progress selection. OpenOwner carries the customer ID while the cart
// is open and NULL afterwards, so the unique index allows one open cart per customer.
type Cart struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID       string          `json:"customer_id" gorm:"index;type:varchar(36);not null"`
	OpenOwner        *string         `json:"-" gorm:"uniqueIndex;type:varchar(36)"`
	Status           CartStatus      `json:"status" gorm:"type:varchar(12);not null"`
	TotalPrice       decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	CustomerCouponID *string         `json:"customer_coupon_id,omitempty" gorm:"type:varchar(36)"`
	CustomerCoupon   *UsedCoupon     `json:"customer_coupon,omitempty" gorm:"foreignKey:CustomerCouponID"`
	Discount         decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);not null"`
	FinalPrice       decimal.Decimal `json:"final_price" gorm:"type:decimal(10,2);not null"`
	Items            []CartItem      `json:"items,omitempty" gorm:"foreignKey:CartID"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewOpenCart returns an empty open cart for customerID.
func NewOpenCart(customerID string) *Cart {
	owner := customerID
	return &Cart{
		CustomerID: customerID,
		OpenOwner:  &owner,
		Status:     CartOpen,
	}
}

// BeforeCreate assigns a UUID when none is set. FinalPrice keeps its zero default on insert.
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate derives FinalPrice on every write of an existing cart.
func (c *Cart) BeforeUpdate(tx *gorm.DB) error {
	c.FinalPrice = c.TotalPrice.Sub(c.Discount)
	return nil
}

// IsOpen reports whether the cart still accepts mutations.
func (c *Cart) IsOpen() bool {
	return c.Status == CartOpen
}

// HasCoupon reports whether a used coupon is attached.
func (c *Cart) HasCoupon() bool {
	return c.CustomerCouponID != nil
}

// Recompute sets TotalPrice to the sum of items. An empty total drops any applied coupon.
func (c *Cart) Recompute(items []CartItem) {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.FinalItemPrice)
	}
	c.TotalPrice = total
	if total.IsZero() {
		c.CustomerCouponID = nil
		c.CustomerCoupon = nil
		c.Discount = decimal.Zero
	}
}

// AttachCoupon links used to the cart and prices its discount against the current total.
func (c *Cart) AttachCoupon(used *UsedCoupon) {
	c.CustomerCouponID = &used.ID
	c.CustomerCoupon = used
	c.Discount = used.Coupon.Discount(c.TotalPrice)
}

// Close marks the cart checked out and releases the customer's open slot.
func (c *Cart) Close() {
	c.Status = CartCheckedOut
	c.OpenOwner = nil
}

// CartItem is one product line in a cart.
type CartItem struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID         string          `json:"cart_id" gorm:"uniqueIndex:idx_cart_items_cart_product;type:varchar(36);not null"`
	ProductID      string          `json:"product_id" gorm:"uniqueIndex:idx_cart_items_cart_product;type:varchar(36);not null"`
	Product        Product         `json:"product" gorm:"foreignKey:ProductID"`
	Quantity       int             `json:"quantity" gorm:"not null"`
	FinalItemPrice decimal.Decimal `json:"final_item_price" gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none is set.
func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// Reprice sets FinalItemPrice to unitPrice × Quantity.
func (i *CartItem) Reprice(unitPrice decimal.Decimal) {
	i.FinalItemPrice = unitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

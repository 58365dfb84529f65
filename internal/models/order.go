package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is either active or cancelled. Cancellation is one-way.
type OrderStatus string

const (
	OrderActive    OrderStatus = "active"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a frozen snapshot of a cart at checkout. Prices are never recomputed.
type Order struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID         *string         `json:"cart_id,omitempty" gorm:"type:varchar(36)"`
	CustomerID     string          `json:"customer_id" gorm:"index;type:varchar(36);not null"`
	BillingAddress string          `json:"billing_address" gorm:"type:varchar(255)"`
	Contact        string          `json:"contact" gorm:"type:varchar(20)"`
	TotalPrice     decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Discount       decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);not null"`
	FinalPrice     decimal.Decimal `json:"final_price" gorm:"type:decimal(10,2);not null"`
	CouponID       *string         `json:"coupon_id,omitempty" gorm:"type:varchar(36)"`
	Coupon         *Coupon         `json:"coupon,omitempty" gorm:"foreignKey:CouponID"`
	Status         OrderStatus     `json:"status" gorm:"index;type:varchar(12);not null"`
	IsPaid         bool            `json:"is_paid" gorm:"not null"`
	Items          []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none is set.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// IsActive reports whether the order can still be cancelled.
func (o *Order) IsActive() bool {
	return o.Status == OrderActive
}

// OrderItem is an immutable copy of a cart line at checkout.
type OrderItem struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID        string          `json:"order_id" gorm:"index;type:varchar(36);not null"`
	ProductID      string          `json:"product_id" gorm:"index;type:varchar(36);not null"`
	Product        Product         `json:"product" gorm:"foreignKey:ProductID"`
	Quantity       int             `json:"quantity" gorm:"not null"`
	FinalItemPrice decimal.Decimal `json:"final_item_price" gorm:"type:decimal(10,2);not null"`
}

// BeforeCreate assigns a UUID when none is set.
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// NewOrderFromCart snapshots cart and its items for the profile's owner.
// The order ID is assigned up front so the items can reference it before insert.
func NewOrderFromCart(cart *Cart, items []CartItem, profile *UserProfile) *Order {
	cartID := cart.ID
	order := &Order{
		ID:             uuid.New().String(),
		CartID:         &cartID,
		CustomerID:     cart.CustomerID,
		BillingAddress: profile.BillingAddress(),
		Contact:        profile.Contact,
		TotalPrice:     cart.TotalPrice,
		Discount:       cart.Discount,
		FinalPrice:     cart.FinalPrice,
		Status:         OrderActive,
	}
	if cart.CustomerCoupon != nil {
		couponID := cart.CustomerCoupon.CouponID
		order.CouponID = &couponID
	}

	order.Items = make([]OrderItem, 0, len(items))
	for _, item := range items {
		order.Items = append(order.Items, OrderItem{
			OrderID:        order.ID,
			ProductID:      item.ProductID,
			Product:        item.Product,
			Quantity:       item.Quantity,
			FinalItemPrice: item.FinalItemPrice,
		})
	}
	return order
}

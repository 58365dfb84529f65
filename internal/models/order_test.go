package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderFromCart(t *testing.T) {
	cart := NewOpenCart("customer-1")
	cart.ID = "cart-1"
	cart.TotalPrice = decimal.NewFromInt(130)
	cart.Discount = decimal.NewFromInt(13)
	cart.FinalPrice = decimal.NewFromInt(117)
	cart.AttachCoupon(&UsedCoupon{ID: "used-1", CouponID: "coupon-1", Coupon: Coupon{ID: "coupon-1", Kind: CouponPercentage, Value: 10}})
	cart.Discount = decimal.NewFromInt(13)

	items := []CartItem{
		{ProductID: "p1", Quantity: 2, FinalItemPrice: decimal.NewFromInt(100)},
		{ProductID: "p2", Quantity: 1, FinalItemPrice: decimal.NewFromInt(30)},
	}
	profile := &UserProfile{Address: "1 Main St", City: "Springfield", State: "IL", Country: "US", PostalCode: "62701", Contact: "+15551234567"}

	order := NewOrderFromCart(cart, items, profile)

	assert.NotEmpty(t, order.ID)
	require.NotNil(t, order.CartID)
	assert.Equal(t, "cart-1", *order.CartID)
	assert.Equal(t, "customer-1", order.CustomerID)
	assert.Equal(t, "1 Main St, Springfield, IL, US, 62701", order.BillingAddress)
	assert.Equal(t, "+15551234567", order.Contact)
	assert.True(t, decimal.NewFromInt(130).Equal(order.TotalPrice))
	assert.True(t, decimal.NewFromInt(13).Equal(order.Discount))
	assert.True(t, decimal.NewFromInt(117).Equal(order.FinalPrice))
	require.NotNil(t, order.CouponID)
	assert.Equal(t, "coupon-1", *order.CouponID)
	assert.Equal(t, OrderActive, order.Status)
	assert.False(t, order.IsPaid)

	require.Len(t, order.Items, 2)
	for i, item := range order.Items {
		assert.Equal(t, order.ID, item.OrderID)
		assert.Equal(t, items[i].ProductID, item.ProductID)
		assert.Equal(t, items[i].Quantity, item.Quantity)
		assert.True(t, items[i].FinalItemPrice.Equal(item.FinalItemPrice))
	}
}

package repositories

import (
	"context"

	"clothstore/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the order and its items.
	Create(ctx context.Context, order *models.Order) error
	// GetByID returns the customer's order with items and coupon.
	GetByID(ctx context.Context, customerID, id string) (*models.Order, error)
	// ListByCustomer returns the customer's orders in status, newest first.
	ListByCustomer(ctx context.Context, customerID string, status models.OrderStatus) ([]models.Order, error)
	// Cancel moves an active order to cancelled and reports whether it did.
	Cancel(ctx context.Context, customerID, id string) (bool, error)
}

package repositories

import (
	"context"

	"clothstore/internal/models"
)

// CartRepository defines data access for carts and their line items.
type CartRepository interface {
	// FindOpen returns the customer's open cart. With forUpdate the row stays locked until the
	// surrounding transaction ends.
	FindOpen(ctx context.Context, customerID string, forUpdate bool) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Save(ctx context.Context, cart *models.Cart) error
	Items(ctx context.Context, cartID string) ([]models.CartItem, error)
	FindItem(ctx context.Context, cartID, productID string) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, item *models.CartItem) error
	DeleteItems(ctx context.Context, cartID string) error
}

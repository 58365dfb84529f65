package repositories

import (
	"context"
	"time"

	"clothstore/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// GetBySeller lists a seller's products listed on or before the given time.
	GetBySeller(ctx context.Context, sellerID string, listedBy time.Time) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// OrderedQuantity sums the quantity of every order line for the product.
	OrderedQuantity(ctx context.Context, id string) (int64, error)
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"clothstore/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all listed products, newest first.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("listed_on DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("product with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetBySeller retrieves the seller's products listed on or before listedBy.
func (r *GORMProductRepository) GetBySeller(ctx context.Context, sellerID string, listedBy time.Time) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND listed_on <= ?", sellerID, listedBy).
		Order("listed_on DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products for seller %s: %w", sellerID, err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).
		Select("category", "name", "brand", "size", "price", "image", "listed_on").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a product so existing order lines still resolve it.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s %w", id, ErrNotFound)
	}
	return nil
}

// OrderedQuantity sums order line quantities for the product.
func (r *GORMProductRepository) OrderedQuantity(ctx context.Context, id string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("product_id = ?", id).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum ordered quantity for product %s: %w", id, err)
	}
	return total, nil
}

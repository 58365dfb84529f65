package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clothstore/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// FindOpen looks up the open cart without its coupon; callers load the coupon when they need it.
func (r *GORMCartRepository) FindOpen(ctx context.Context, customerID string, forUpdate bool) (*models.Cart, error) {
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var cart models.Cart
	if err := q.Where("customer_id = ? AND status = ?", customerID, models.CartOpen).First(&cart).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("cart for customer %s %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for customer %s: %w", customerID, err)
	}
	return &cart, nil
}

func (r *GORMCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(cart).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("open cart for customer %s %w", cart.CustomerID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// Save writes every cart column. The model's update hook derives FinalPrice.
func (r *GORMCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(cart).Error; err != nil {
		return fmt.Errorf("failed to save cart %s: %w", cart.ID, err)
	}
	return nil
}

// Items returns the cart's lines with their products, including products a seller has since removed.
func (r *GORMCartRepository) Items(ctx context.Context, cartID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("cart_id = ?", cartID).
		Order("created_at, id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get items for cart %s: %w", cartID, err)
	}
	return items, nil
}

func (r *GORMCartRepository) FindItem(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("product %s in cart %s %w", productID, cartID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

func (r *GORMCartRepository) SaveItem(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

func (r *GORMCartRepository) DeleteItem(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", item.ID).Error; err != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", item.ID, err)
	}
	return nil
}

func (r *GORMCartRepository) DeleteItems(ctx context.Context, cartID string) error {
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}

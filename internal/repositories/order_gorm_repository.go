package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clothstore/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	if len(order.Items) == 0 {
		return nil
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	if err := db.Omit(clause.Associations).Create(&order.Items).Error; err != nil {
		return fmt.Errorf("failed to create items for order %s: %w", order.ID, err)
	}
	return nil
}

func (r *GORMOrderRepository) withDetails() *gorm.DB {
	return r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Coupon")
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, customerID, id string) (*models.Order, error) {
	var order models.Order
	err := r.withDetails().WithContext(ctx).
		First(&order, "id = ? AND customer_id = ?", id, customerID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("order with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) ListByCustomer(ctx context.Context, customerID string, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.withDetails().WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, status).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s orders for customer %s: %w", status, customerID, err)
	}
	return orders, nil
}

// Cancel flips status with a conditional update so concurrent cancels transition at most once.
func (r *GORMOrderRepository) Cancel(ctx context.Context, customerID, id string) (bool, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Order{}).
		Where("id = ? AND customer_id = ? AND status = ?", id, customerID, models.OrderActive).
		Update("status", models.OrderCancelled)
	if res.Error != nil {
		return false, fmt.Errorf("failed to cancel order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	var count int64
	if err := db.Model(&models.Order{}).Where("id = ? AND customer_id = ?", id, customerID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up order %s: %w", id, err)
	}
	if count == 0 {
		return false, fmt.Errorf("order with ID %s %w", id, ErrNotFound)
	}
	return false, nil
}

package models

import "time"

// RedeemedToken marks a single-use checkout token as spent.
type RedeemedToken struct {
	JTI        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `gorm:"index;type:varchar(36);not null"`
	OrderID    string    `gorm:"type:varchar(36)"`
	RedeemedAt time.Time `gorm:"not null"`
}

// All lists every model for schema migration.
func All() []any {
	return []any{
		&User{},
		&UserProfile{},
		&Product{},
		&Coupon{},
		&UsedCoupon{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&RedeemedToken{},
	}
}

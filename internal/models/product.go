package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product listed by a seller.
type Product struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SellerID  string          `json:"seller_id" gorm:"index;type:varchar(36);not null"`
	Category  string          `json:"category" gorm:"type:varchar(20);not null"`
	Name      string          `json:"name" gorm:"type:varchar(50);not null"`
	Brand     string          `json:"brand" gorm:"type:varchar(50);not null"`
	Size      string          `json:"size" gorm:"type:varchar(5);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Image     string          `json:"image,omitempty"` // object storage key
	ListedOn  time.Time       `json:"listed_on"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID and a listing date when none is set.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.ListedOn.IsZero() {
		p.ListedOn = time.Now()
	}
	return nil
}

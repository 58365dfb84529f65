package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserType distinguishes shoppers from sellers.
type UserType string

const (
	UserTypeCustomer UserType = "Customer"
	UserTypeMerchant UserType = "Merchant"
)

// User represents a user of the store. Email is the login identifier.
type User struct {
	ID        string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string       `json:"name" gorm:"type:varchar(50);not null"`
	Email     string       `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string       `json:"-" gorm:"type:varchar(255);not null"`
	UserType  UserType     `json:"user_type" gorm:"type:varchar(20);not null"`
	Profile   *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// IsMerchant reports whether the user may manage products.
func (u *User) IsMerchant() bool {
	return u.UserType == UserTypeMerchant
}

// UserProfile holds the contact and address fields read at checkout.
type UserProfile struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     string     `json:"address" gorm:"type:varchar(150)"`
	City        string     `json:"city" gorm:"type:varchar(50)"`
	State       string     `json:"state" gorm:"type:varchar(50)"`
	Country     string     `json:"country" gorm:"type:varchar(50)"`
	PostalCode  string     `json:"postal_code" gorm:"type:varchar(12)"`
	Contact     string     `json:"contact" gorm:"type:varchar(20)"`
	Image       string     `json:"image,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none is set.
func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// BillingAddress renders the denormalized address stored on orders.
func (p *UserProfile) BillingAddress() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s", p.Address, p.City, p.State, p.Country, p.PostalCode)
}

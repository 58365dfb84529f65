package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories over one database handle so a use case can run them in a
// single transaction.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Coupons() CouponRepository
	Carts() CartRepository
	Orders() OrderRepository
	Tokens() TokenRepository
	// Transaction runs fn against a Store bound to one transaction. fn's error rolls it back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is the GORM-backed Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a Store over db.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Users() UserRepository       { return NewGORMUserRepository(s.db) }
func (s *GORMStore) Products() ProductRepository { return NewGORMProductRepository(s.db) }
func (s *GORMStore) Coupons() CouponRepository   { return NewGORMCouponRepository(s.db) }
func (s *GORMStore) Carts() CartRepository       { return NewGORMCartRepository(s.db) }
func (s *GORMStore) Orders() OrderRepository     { return NewGORMOrderRepository(s.db) }
func (s *GORMStore) Tokens() TokenRepository     { return NewGORMTokenRepository(s.db) }

func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMStore{db: tx})
	})
}

package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clothstore/internal/config"
	"clothstore/internal/database"
	"clothstore/internal/locker"
	"clothstore/internal/models"
	"clothstore/internal/repositories"
	"clothstore/internal/services"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	args := m.Called(ctx, routingKey, body)
	return args.Error(0)
}

type testEnv struct {
	db        *gorm.DB
	store     *repositories.GORMStore
	publisher *MockPublisher
	carts     *services.CartService
	orders    *services.OrderService
	coupons   *services.CouponService
	payments  *services.PaymentService
}

func openTestDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	return database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, zap.NewNop())
}

func newEnv(db *gorm.DB) *testEnv {
	logger := zap.NewNop()
	store := repositories.NewGORMStore(db)
	l := locker.NewLocalLocker()
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	orders := services.NewOrderService(store, l, publisher, logger)
	return &testEnv{
		db:        db,
		store:     store,
		publisher: publisher,
		carts:     services.NewCartService(store, l, logger),
		orders:    orders,
		coupons:   services.NewCouponService(store.Coupons(), logger),
		payments:  services.NewPaymentService(orders, store.Carts(), testJWTSecret, 0, "http://shop.test/api/v1/payments/success", logger),
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := openTestDB()
	require.NoError(t, err)
	return newEnv(db)
}

func (e *testEnv) customer(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{Name: "Customer", Email: email, Password: "x", UserType: models.UserTypeCustomer}
	if err := e.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	p := user.Profile
	p.Address, p.City, p.State, p.Country, p.PostalCode, p.Contact = "1 Main St", "Springfield", "IL", "US", "62701", "+15551234567"
	if err := e.store.Users().UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return user, nil
}

func (e *testEnv) product(ctx context.Context, name, price string) (*models.Product, error) {
	p := &models.Product{SellerID: "seller-1", Category: "Shirt", Name: name, Brand: "Acme", Size: "M", Price: decimal.RequireFromString(price)}
	if err := e.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (e *testEnv) mustCustomer(t *testing.T) *models.User {
	t.Helper()
	u, err := e.customer(context.Background(), uuid.New().String()+"@example.com")
	require.NoError(t, err)
	return u
}

func (e *testEnv) mustProduct(t *testing.T, name, price string) *models.Product {
	t.Helper()
	p, err := e.product(context.Background(), name, price)
	require.NoError(t, err)
	return p
}

func (e *testEnv) mustCoupon(t *testing.T, code string, kind models.CouponKind, value int) *models.Coupon {
	t.Helper()
	c, err := e.coupons.CreateCoupon(context.Background(), services.CouponInput{Code: code, Kind: kind, Value: value})
	require.NoError(t, err)
	return c
}

// itemsTotal sums the stored line prices of the customer's open cart.
func (e *testEnv) itemsTotal(t *testing.T, cart *models.Cart) decimal.Decimal {
	t.Helper()
	items, err := e.store.Carts().Items(context.Background(), cart.ID)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.FinalItemPrice)
	}
	return sum
}

package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clothstore/internal/config"
	"clothstore/internal/database"
	"clothstore/internal/models"
	"clothstore/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, sellerID, name string, price string) *models.Product {
	t.Helper()
	p := &models.Product{
		SellerID: sellerID,
		Category: "Shirt",
		Name:     name,
		Brand:    "Acme",
		Size:     "M",
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, repositories.NewGORMProductRepository(db).Create(context.Background(), p))
	return p
}

func TestUserRepository_CreateWithProfile(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "Ann", Email: "ann@example.com", Password: "hash", UserType: models.UserTypeCustomer}
	require.NoError(t, repo.Create(ctx, user))
	require.NotNil(t, user.Profile)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.Equal(t, user.ID, got.Profile.UserID)

	err = repo.Create(ctx, &models.User{Name: "Ann 2", Email: "ann@example.com", Password: "hash", UserType: models.UserTypeCustomer})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	got.Profile.City = "Springfield"
	require.NoError(t, repo.UpdateProfile(ctx, got.Profile))
	again, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Springfield", again.Profile.City)
}

func TestProductRepository(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "seller-1", "Tee", "19.99")
	future := &models.Product{SellerID: "seller-1", Category: "Shirt", Name: "Later", Brand: "Acme", Size: "L",
		Price: decimal.NewFromInt(5), ListedOn: time.Now().Add(48 * time.Hour)}
	require.NoError(t, repo.Create(ctx, future))

	listed, err := repo.GetBySeller(ctx, "seller-1", time.Now())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, p.ID, listed[0].ID)

	p.Price = decimal.RequireFromString("24.50")
	require.NoError(t, repo.Update(ctx, p))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "24.5", got.Price.String())

	err = repo.Update(ctx, &models.Product{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), repositories.ErrNotFound)
}

func TestProductRepository_OrderedQuantity(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMProductRepository(db)
	orders := repositories.NewGORMOrderRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "seller-1", "Tee", "10")
	qty, err := repo.OrderedQuantity(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, qty)

	for _, n := range []int{2, 3} {
		order := &models.Order{CustomerID: "c1", Status: models.OrderActive,
			Items: []models.OrderItem{{ProductID: p.ID, Quantity: n, FinalItemPrice: decimal.NewFromInt(int64(10 * n))}}}
		require.NoError(t, orders.Create(ctx, order))
	}
	qty, err = repo.OrderedQuantity(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty)
}

func TestCouponRepository(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMCouponRepository(db)
	ctx := context.Background()

	flat := &models.Coupon{Code: "FLAT50", Kind: models.CouponFlat, Value: 50}
	pct := &models.Coupon{Code: "TEN", Kind: models.CouponPercentage, Value: 10}
	require.NoError(t, repo.Create(ctx, flat))
	require.NoError(t, repo.Create(ctx, pct))
	assert.ErrorIs(t, repo.Create(ctx, &models.Coupon{Code: "TEN", Kind: models.CouponFlat, Value: 1}), repositories.ErrDuplicate)

	_, err := repo.GetByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	used, err := repo.GetOrCreateUsed(ctx, "c1", flat)
	require.NoError(t, err)
	assert.True(t, used.Active)

	same, err := repo.GetOrCreateUsed(ctx, "c1", flat)
	require.NoError(t, err)
	assert.Equal(t, used.ID, same.ID)

	available, err := repo.ListAvailable(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, available, 2, "an active used coupon is still available")

	used.Active = false
	require.NoError(t, repo.SaveUsed(ctx, used))

	available, err = repo.ListAvailable(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "TEN", available[0].Code)

	others, err := repo.ListAvailable(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, others, 2)

	loaded, err := repo.GetUsedByID(ctx, used.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Active)
	assert.Equal(t, "FLAT50", loaded.Coupon.Code)
}

func TestCartRepository(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMCartRepository(db)
	ctx := context.Background()

	_, err := repo.FindOpen(ctx, "c1", false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	cart := models.NewOpenCart("c1")
	require.NoError(t, repo.Create(ctx, cart))
	assert.ErrorIs(t, repo.Create(ctx, models.NewOpenCart("c1")), repositories.ErrDuplicate)

	p1 := seedProduct(t, db, "s1", "Tee", "50")
	p2 := seedProduct(t, db, "s1", "Cap", "30")

	item := &models.CartItem{CartID: cart.ID, ProductID: p1.ID, Quantity: 2}
	item.Reprice(p1.Price)
	require.NoError(t, repo.SaveItem(ctx, item))
	second := &models.CartItem{CartID: cart.ID, ProductID: p2.ID, Quantity: 1}
	second.Reprice(p2.Price)
	require.NoError(t, repo.SaveItem(ctx, second))

	// A removed product still shows in the cart.
	require.NoError(t, repositories.NewGORMProductRepository(db).Delete(ctx, p2.ID))

	items, err := repo.Items(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Cap", items[1].Product.Name)

	cart.Recompute(items)
	require.NoError(t, repo.Save(ctx, cart))

	locked, err := repo.FindOpen(ctx, "c1", true)
	require.NoError(t, err)
	assert.Equal(t, "130", locked.TotalPrice.String())
	assert.Equal(t, "130", locked.FinalPrice.String())

	found, err := repo.FindItem(ctx, cart.ID, p1.ID)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteItem(ctx, found))
	_, err = repo.FindItem(ctx, cart.ID, p1.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.DeleteItems(ctx, cart.ID))
	items, err = repo.Items(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderRepository(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "s1", "Tee", "50")
	order := &models.Order{
		CustomerID: "c1",
		TotalPrice: decimal.NewFromInt(100),
		FinalPrice: decimal.NewFromInt(100),
		Status:     models.OrderActive,
		Items:      []models.OrderItem{{ProductID: p.ID, Quantity: 2, FinalItemPrice: decimal.NewFromInt(100)}},
	}
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.GetByID(ctx, "c1", order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Tee", got.Items[0].Product.Name)

	_, err = repo.GetByID(ctx, "c2", order.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	active, err := repo.ListByCustomer(ctx, "c1", models.OrderActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	cancelled, err := repo.Cancel(ctx, "c1", order.ID)
	require.NoError(t, err)
	assert.True(t, cancelled)

	cancelled, err = repo.Cancel(ctx, "c1", order.ID)
	require.NoError(t, err)
	assert.False(t, cancelled)

	_, err = repo.Cancel(ctx, "c2", order.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	inactive, err := repo.ListByCustomer(ctx, "c1", models.OrderCancelled)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, models.OrderCancelled, inactive[0].Status)
}

func TestTokenRepository_Redeem(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMTokenRepository(db)
	ctx := context.Background()

	redeemed, err := repo.Redeemed(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, redeemed)

	require.NoError(t, repo.Redeem(ctx, &models.RedeemedToken{JTI: "jti-1", UserID: "c1"}))
	redeemed, err = repo.Redeemed(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, redeemed)

	err = repo.Redeem(ctx, &models.RedeemedToken{JTI: "jti-1", UserID: "c1"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestGORMStore_TransactionRollsBack(t *testing.T) {
	db := newTestDB(t)
	store := repositories.NewGORMStore(db)
	ctx := context.Background()

	boom := fmt.Errorf("boom")
	err := store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Carts().Create(ctx, models.NewOpenCart("c1")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Carts().FindOpen(ctx, "c1", false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

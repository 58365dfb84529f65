package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clothstore/internal/locker"
	"clothstore/internal/models"
	"clothstore/internal/repositories"
)

// CartService maintains a customer's open cart: line items, totals and the applied coupon.
// Every mutation holds the customer's cart lock and runs in one transaction with the cart row locked.
type CartService struct {
	store  repositories.Store
	locker locker.Locker
	logger *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store, l locker.Locker, logger *zap.Logger) *CartService {
	return &CartService{store: store, locker: l, logger: logger}
}

// CartView is the cart page: the cart with its items and the coupons still available.
type CartView struct {
	Cart             *models.Cart    `json:"cart"`
	AvailableCoupons []models.Coupon `json:"available_coupons"`
}

func cartLockKey(customerID string) string {
	return "cart:" + customerID
}

// GetCart returns the open cart, creating it on first visit.
func (s *CartService) GetCart(ctx context.Context, customerID string) (*CartView, error) {
	return s.mutate(ctx, customerID, func(tx repositories.Store, cart *models.Cart) error {
		items, err := tx.Carts().Items(ctx, cart.ID)
		if err != nil {
			return err
		}
		cart.Items = items
		return nil
	})
}

// AddProduct puts one more unit of the product in the cart.
func (s *CartService) AddProduct(ctx context.Context, customerID, productID string) (*CartView, error) {
	return s.mutate(ctx, customerID, func(tx repositories.Store, cart *models.Cart) error {
		product, err := tx.Products().GetByID(ctx, productID)
		if err != nil {
			return err
		}

		item, err := tx.Carts().FindItem(ctx, cart.ID, productID)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			item = &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1}
		case err != nil:
			return err
		default:
			item.Quantity++
		}
		item.Reprice(product.Price)
		if err := tx.Carts().SaveItem(ctx, item); err != nil {
			return err
		}

		s.logger.Info("cart item added",
			zap.String("customer_id", customerID),
			zap.String("cart_id", cart.ID),
			zap.String("product_id", productID),
			zap.Int("quantity", item.Quantity))
		return s.recompute(ctx, tx, cart)
	})
}

// SetQuantity sets the line's quantity. Zero removes the line.
func (s *CartService) SetQuantity(ctx context.Context, customerID, productID string, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	return s.mutate(ctx, customerID, func(tx repositories.Store, cart *models.Cart) error {
		item, err := tx.Carts().FindItem(ctx, cart.ID, productID)
		missing := errors.Is(err, repositories.ErrNotFound)
		if err != nil && !missing {
			return err
		}

		// A line whose product was delisted can still be removed.
		product, err := tx.Products().GetByID(ctx, productID)
		if err != nil && (quantity > 0 || missing || !errors.Is(err, repositories.ErrNotFound)) {
			return err
		}

		if quantity == 0 {
			if !missing {
				if err := tx.Carts().DeleteItem(ctx, item); err != nil {
					return err
				}
			}
		} else {
			if missing {
				item = &models.CartItem{CartID: cart.ID, ProductID: productID}
			}
			item.Quantity = quantity
			item.Reprice(product.Price)
			if err := tx.Carts().SaveItem(ctx, item); err != nil {
				return err
			}
		}

		s.logger.Info("cart quantity set",
			zap.String("customer_id", customerID),
			zap.String("cart_id", cart.ID),
			zap.String("product_id", productID),
			zap.Int("quantity", quantity))
		return s.recompute(ctx, tx, cart)
	})
}

// RemoveItem drops the product's line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, customerID, productID string) (*CartView, error) {
	return s.SetQuantity(ctx, customerID, productID, 0)
}

// ApplyCoupon attaches the coupon to the cart. Unknown and consumed codes both fail with ErrInvalidCoupon.
func (s *CartService) ApplyCoupon(ctx context.Context, customerID, code string) (*CartView, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	return s.mutate(ctx, customerID, func(tx repositories.Store, cart *models.Cart) error {
		coupon, err := tx.Coupons().GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrInvalidCoupon
			}
			return err
		}

		used, err := tx.Coupons().GetOrCreateUsed(ctx, customerID, coupon)
		if err != nil {
			return err
		}
		if !used.Active {
			s.logger.Info("consumed coupon rejected", zap.String("customer_id", customerID), zap.String("coupon", code))
			return ErrInvalidCoupon
		}

		cart.AttachCoupon(used)
		if err := s.recompute(ctx, tx, cart); err != nil {
			return err
		}
		s.logger.Info("coupon applied",
			zap.String("customer_id", customerID),
			zap.String("cart_id", cart.ID),
			zap.String("coupon", code),
			zap.String("discount", cart.Discount.StringFixed(2)))
		return nil
	})
}

// mutate runs fn on the customer's locked open cart and returns the resulting cart page.
func (s *CartService) mutate(ctx context.Context, customerID string, fn func(tx repositories.Store, cart *models.Cart) error) (*CartView, error) {
	unlock, err := s.locker.Lock(ctx, cartLockKey(customerID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart for customer %s: %w", customerID, err)
	}
	defer unlock()

	view := &CartView{}
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		cart, err := lockOpenCart(ctx, tx, customerID, true)
		if err != nil {
			return err
		}
		if err := fn(tx, cart); err != nil {
			return err
		}

		coupons, err := tx.Coupons().ListAvailable(ctx, customerID)
		if err != nil {
			return err
		}
		view.Cart = cart
		view.AvailableCoupons = coupons
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// recompute re-derives the total from the stored items, re-prices an applied coupon against it
// and saves the cart.
func (s *CartService) recompute(ctx context.Context, tx repositories.Store, cart *models.Cart) error {
	items, err := tx.Carts().Items(ctx, cart.ID)
	if err != nil {
		return err
	}
	cart.Recompute(items)
	if cart.HasCoupon() {
		cart.AttachCoupon(cart.CustomerCoupon)
	}
	if err := tx.Carts().Save(ctx, cart); err != nil {
		return err
	}
	cart.Items = items
	return nil
}

// lockOpenCart reads the customer's open cart FOR UPDATE with its coupon loaded. With create set a
// missing cart is opened; otherwise a missing cart is ErrNotFound.
func lockOpenCart(ctx context.Context, tx repositories.Store, customerID string, create bool) (*models.Cart, error) {
	cart, err := tx.Carts().FindOpen(ctx, customerID, true)
	if err != nil {
		if !create || !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		cart = models.NewOpenCart(customerID)
		if err := tx.Carts().Create(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	if cart.CustomerCouponID != nil {
		used, err := tx.Coupons().GetUsedByID(ctx, *cart.CustomerCouponID)
		if err != nil {
			return nil, err
		}
		cart.CustomerCoupon = used
	}
	return cart, nil
}

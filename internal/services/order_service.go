package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"clothstore/internal/locker"
	"clothstore/internal/models"
	"clothstore/internal/repositories"
)

// OrderService converts carts into orders and manages order history.
type OrderService struct {
	store     repositories.Store
	locker    locker.Locker
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store repositories.Store, l locker.Locker, publisher EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:     store,
		locker:    l,
		publisher: publisher,
		logger:    logger,
	}
}

// OrderHistory splits a customer's orders by status.
type OrderHistory struct {
	Active    []models.Order `json:"active"`
	Cancelled []models.Order `json:"cancelled"`
}

// Checkout turns the customer's open cart into an order.
func (s *OrderService) Checkout(ctx context.Context, customerID string) (*models.Order, error) {
	return s.checkout(ctx, customerID, nil)
}

// paidCheckout is a checkout the gateway has charged for. The cart must still be the one that was priced.
type paidCheckout struct {
	token      models.RedeemedToken
	cartID     string
	finalPrice decimal.Decimal
	lines      string
}

func (p *paidCheckout) matches(cart *models.Cart, items []models.CartItem) bool {
	return cart.ID == p.cartID && cart.FinalPrice.Equal(p.finalPrice) && cartLines(items) == p.lines
}

// checkout snapshots the cart into an order, consumes its coupon and closes the cart, all in one
// transaction. A non-nil payment marks the order paid and spends the token in the same transaction.
func (s *OrderService) checkout(ctx context.Context, customerID string, payment *paidCheckout) (*models.Order, error) {
	unlock, err := s.locker.Lock(ctx, cartLockKey(customerID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart for customer %s: %w", customerID, err)
	}
	defer unlock()

	var order *models.Order
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if payment != nil {
			redeemed, err := tx.Tokens().Redeemed(ctx, payment.token.JTI)
			if err != nil {
				return err
			}
			if redeemed {
				return fmt.Errorf("checkout token already used: %w", ErrInvalidToken)
			}
		}

		cart, err := lockOpenCart(ctx, tx, customerID, false)
		if err != nil {
			return err
		}
		items, err := tx.Carts().Items(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}
		if payment != nil && !payment.matches(cart, items) {
			return fmt.Errorf("cart changed after checkout token was issued: %w", ErrInvalidToken)
		}

		customer, err := tx.Users().GetByID(ctx, customerID)
		if err != nil {
			return err
		}

		order = models.NewOrderFromCart(cart, items, customer.Profile)
		order.IsPaid = payment != nil
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		if cart.CustomerCoupon != nil {
			cart.CustomerCoupon.Active = false
			if err := tx.Coupons().SaveUsed(ctx, cart.CustomerCoupon); err != nil {
				return err
			}
		}

		if err := tx.Carts().DeleteItems(ctx, cart.ID); err != nil {
			return err
		}
		cart.Recompute(nil)
		cart.Close()
		if err := tx.Carts().Save(ctx, cart); err != nil {
			return err
		}

		if payment != nil {
			payment.token.UserID = customerID
			payment.token.OrderID = order.ID
			if err := tx.Tokens().Redeem(ctx, &payment.token); err != nil {
				if errors.Is(err, repositories.ErrDuplicate) {
					return fmt.Errorf("checkout token already used: %w", ErrInvalidToken)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("customer_id", customerID),
		zap.String("order_id", order.ID),
		zap.String("final_price", order.FinalPrice.StringFixed(2)),
		zap.Bool("is_paid", order.IsPaid))
	publishOrderEvent(ctx, s.publisher, s.logger, newOrderEvent(EventOrderCreated, order))
	return order, nil
}

// ListOrders returns the customer's active and cancelled orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, customerID string) (*OrderHistory, error) {
	active, err := s.store.Orders().ListByCustomer(ctx, customerID, models.OrderActive)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.store.Orders().ListByCustomer(ctx, customerID, models.OrderCancelled)
	if err != nil {
		return nil, err
	}
	return &OrderHistory{Active: active, Cancelled: cancelled}, nil
}

// GetOrder returns one of the customer's orders with its items.
func (s *OrderService) GetOrder(ctx context.Context, customerID, id string) (*models.Order, error) {
	return s.store.Orders().GetByID(ctx, customerID, id)
}

// CancelOrder cancels an active order. It reports false, without error, for an order that was
// already cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, customerID, id string) (bool, error) {
	cancelled, err := s.store.Orders().Cancel(ctx, customerID, id)
	if err != nil || !cancelled {
		return false, err
	}

	s.logger.Info("order cancelled", zap.String("customer_id", customerID), zap.String("order_id", id))
	order := &models.Order{ID: id, CustomerID: customerID, Status: models.OrderCancelled}
	if loaded, err := s.store.Orders().GetByID(ctx, customerID, id); err == nil {
		order = loaded
	}
	publishOrderEvent(ctx, s.publisher, s.logger, newOrderEvent(EventOrderCancelled, order))
	return true, nil
}

package services

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"clothstore/internal/models"
	"clothstore/internal/repositories"
)

const checkoutPurpose = "checkout"

// PaymentService hands the payment gateway a signed single-use token and completes checkout when
// the gateway calls back with it.
type PaymentService struct {
	orders      *OrderService
	carts       repositories.CartRepository
	secret      []byte
	ttl         time.Duration
	callbackURL string
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(orders *OrderService, carts repositories.CartRepository, secret string, ttl time.Duration, callbackURL string, logger *zap.Logger) *PaymentService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &PaymentService{
		orders:      orders,
		carts:       carts,
		secret:      []byte(secret),
		ttl:         ttl,
		callbackURL: callbackURL,
		logger:      logger,
	}
}

// CheckoutSession is what the gateway needs to redirect back after payment.
type CheckoutSession struct {
	Token      string    `json:"token"`
	SuccessURL string    `json:"success_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IssueCheckoutToken starts a gateway checkout for the customer's non-empty cart.
func (s *PaymentService) IssueCheckoutToken(ctx context.Context, customerID string) (*CheckoutSession, error) {
	cart, err := s.carts.FindOpen(ctx, customerID, false)
	if err != nil {
		return nil, err
	}
	items, err := s.carts.Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	expires := now.Add(s.ttl)
	jti := uuid.New().String()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     customerID,
		"purpose": checkoutPurpose,
		"jti":     jti,
		"cart_id": cart.ID,
		"amount":  cart.FinalPrice.StringFixed(2),
		"lines":   cartLines(items),
		"iat":     now.Unix(),
		"exp":     expires.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign checkout token: %w", err)
	}

	s.logger.Info("checkout session issued", zap.String("customer_id", customerID), zap.String("jti", jti))
	return &CheckoutSession{
		Token:      signed,
		SuccessURL: s.callbackURL + "?" + url.Values{"token": {signed}}.Encode(),
		ExpiresAt:  expires,
	}, nil
}

// CompleteCheckout verifies the token and checks out the cart it was issued for. The token is spent
// in the checkout transaction, so a replay fails with ErrInvalidToken.
func (s *PaymentService) CompleteCheckout(ctx context.Context, tokenString string) (*models.Order, error) {
	claims, err := parseHMAC(tokenString, s.secret)
	if err != nil {
		return nil, err
	}
	if purpose, _ := claims["purpose"].(string); purpose != checkoutPurpose {
		return nil, fmt.Errorf("%w: wrong purpose", ErrInvalidToken)
	}
	customerID, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	cartID, _ := claims["cart_id"].(string)
	lines, _ := claims["lines"].(string)
	if customerID == "" || jti == "" || cartID == "" {
		return nil, fmt.Errorf("%w: missing subject, id or cart", ErrInvalidToken)
	}
	amount, _ := claims["amount"].(string)
	finalPrice, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: bad amount", ErrInvalidToken)
	}

	order, err := s.orders.checkout(ctx, customerID, &paidCheckout{
		token:      models.RedeemedToken{JTI: jti},
		cartID:     cartID,
		finalPrice: finalPrice,
		lines:      lines,
	})
	if err != nil {
		s.logger.Warn("paid checkout failed", zap.String("customer_id", customerID), zap.String("jti", jti), zap.Error(err))
		return nil, err
	}
	return order, nil
}

// cartLines renders the cart's product quantities in a stable order.
func cartLines(items []models.CartItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.ProductID+":"+strconv.Itoa(item.Quantity))
	}
	slices.Sort(lines)
	return strings.Join(lines, ",")
}

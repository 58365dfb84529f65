package services

import "errors"

var (
	// ErrInvalidCoupon covers both unknown and already consumed codes.
	ErrInvalidCoupon      = errors.New("invalid coupon code")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("quantity must not be negative")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
)

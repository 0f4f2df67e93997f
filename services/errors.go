package services

import "errors"

// Domain errors surfaced to controllers. Anything else coming out of a service
// is a store-level failure and maps to a generic 500 — internal detail never
// reaches the client.
var (
	// Not-found family. Absent and not-owned-by-caller are deliberately the
	// same error so existence of other users' data never leaks.
	ErrProductNotFound  = errors.New("product not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")

	// Invalid-state family.
	ErrEmptyCart          = errors.New("cart is empty")
	ErrItemsUnavailable   = errors.New("some items in your cart are no longer available")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInvalidStatus      = errors.New("invalid order status")

	// Auth.
	ErrEmailOrUsernameTaken = errors.New("email or username already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidOTP           = errors.New("invalid or expired OTP")
	ErrOTPRateLimited       = errors.New("too many OTP requests, please wait before requesting again")

	// ErrTransientFailure covers aborted transactions and store outages. Safe
	// to retry: nothing partial was committed.
	ErrTransientFailure = errors.New("temporary failure, please try again")
)

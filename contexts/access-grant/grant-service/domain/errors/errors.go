package errors

import "errors"

// Client-input rejections (HTTP 400). Never retried, no state change.
var (
	ErrPurchaseIDRequired     = errors.New("purchase identifier required")
	ErrPrincipalRequired      = errors.New("principal required")
	ErrInvalidPurchaseID      = errors.New("invalid purchase id format")
	ErrInvalidPrincipal       = errors.New("invalid characters in principal")
	ErrChallengeTokenRequired = errors.New("challenge token required")
)

// Entitlement/policy rejections (HTTP 403). Never retried, no state change.
var (
	ErrChallengeFailed  = errors.New("challenge verification failed")
	ErrPurchaseNotFound = errors.New("purchase not available")
	ErrPurchaseRefunded = errors.New("refunded purchase cannot be granted")
	ErrVoucherPurchase  = errors.New("voucher redemption not eligible")
	ErrProductNotMapped = errors.New("product not mapped to a resource")
	ErrPrincipalUnknown = errors.New("principal unknown")
	ErrGrantImmutable   = errors.New("already granted to a different principal")
)

// Dependency failures (HTTP 500). Safe to retry from the client side.
var (
	ErrUpstream = errors.New("upstream dependency failed")
	ErrStorage  = errors.New("grant storage failed")
)

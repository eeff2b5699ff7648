package application

import (
	"regexp"
	"strings"

	domainerrors "repogrant/contexts/access-grant/grant-service/domain/errors"
)

// Purchase identifiers are digit-only after the optional "IN" prefix is
// stripped. Principals follow the membership system's username charset.
var (
	purchaseIDPattern = regexp.MustCompile(`^\d+$`)
	principalPattern  = regexp.MustCompile(`^[\w-]+$`)
)

// purchaseIDPrefix is the well-known prefix purchasers copy out of their
// receipt emails. Accepted and stripped before format validation.
const purchaseIDPrefix = "IN"

// ValidatedRequest is the normalized request the reconciliation pipeline
// operates on. Modify is true only for the mutating verb; read-only
// requests never cause side effects.
type ValidatedRequest struct {
	PurchaseID     string
	Principal      string
	ChallengeToken string
	Modify         bool
}

// RawRequest carries the untyped inbound fields before validation.
type RawRequest struct {
	PurchaseID     string
	Principal      string
	ChallengeToken string
	Modify         bool
}

// ValidateRequest applies the ordered sanitization rules; the first failure
// wins. allowRevokeOnly relaxes the principal requirement for deployments
// where a principal-less request is meaningful as a revoke.
func ValidateRequest(raw RawRequest, allowRevokeOnly bool) (ValidatedRequest, error) {
	purchaseID := strings.TrimSpace(raw.PurchaseID)
	principal := strings.TrimSpace(raw.Principal)

	if purchaseID == "" {
		return ValidatedRequest{}, domainerrors.ErrPurchaseIDRequired
	}
	if principal == "" && !allowRevokeOnly {
		return ValidatedRequest{}, domainerrors.ErrPrincipalRequired
	}
	purchaseID = strings.TrimPrefix(purchaseID, purchaseIDPrefix)
	if !purchaseIDPattern.MatchString(purchaseID) {
		return ValidatedRequest{}, domainerrors.ErrInvalidPurchaseID
	}
	if principal != "" && !principalPattern.MatchString(principal) {
		return ValidatedRequest{}, domainerrors.ErrInvalidPrincipal
	}

	return ValidatedRequest{
		PurchaseID:     purchaseID,
		Principal:      principal,
		ChallengeToken: strings.TrimSpace(raw.ChallengeToken),
		Modify:         raw.Modify,
	}, nil
}

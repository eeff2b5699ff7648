package application

import (
	"context"
	"fmt"

	"repogrant/contexts/access-grant/grant-service/domain/entities"
	domainerrors "repogrant/contexts/access-grant/grant-service/domain/errors"
)

// Entitlement is the outcome of purchase verification: the purchase record
// that proved entitlement and the resource it maps to.
type Entitlement struct {
	Purchase   entities.PurchaseRecord
	ProductID  string
	ResourceID string
}

// resolveEntitlement verifies the purchase and maps its product to a
// resource. A transport or parse failure against the verification service is
// an upstream error, never silently "not entitled".
func (s Service) resolveEntitlement(ctx context.Context, purchaseID string) (Entitlement, error) {
	logger := ResolveLogger(s.Logger)

	records, err := s.Purchases.Verify(ctx, purchaseID)
	if err != nil {
		logger.Error("purchase verification failed",
			"event", "grant_purchase_verify_failed",
			"module", "access-grant/grant-service",
			"layer", "application",
			"purchase_id", purchaseID,
			"error", err.Error(),
		)
		return Entitlement{}, fmt.Errorf("%w: purchase verification: %v", domainerrors.ErrUpstream, err)
	}
	if len(records) == 0 {
		return Entitlement{}, domainerrors.ErrPurchaseNotFound
	}

	purchase := records[0]
	if purchase.Refunded && !s.Policy.AllowRefunded {
		return Entitlement{}, domainerrors.ErrPurchaseRefunded
	}
	if purchase.Free() && !s.Policy.AllowFree {
		return Entitlement{}, domainerrors.ErrVoucherPurchase
	}

	resourceID, ok := s.Mapping.Resolve(purchase.ProductID)
	if !ok {
		return Entitlement{}, fmt.Errorf("%w: %q", domainerrors.ErrProductNotMapped, purchase.ProductID)
	}

	return Entitlement{
		Purchase:   purchase,
		ProductID:  purchase.ProductID,
		ResourceID: resourceID,
	}, nil
}

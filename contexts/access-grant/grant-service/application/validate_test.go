package application

import (
	"errors"
	"testing"

	domainerrors "repogrant/contexts/access-grant/grant-service/domain/errors"
)

func TestValidateRequestRules(t *testing.T) {
	tests := []struct {
		name            string
		raw             RawRequest
		allowRevokeOnly bool
		wantErr         error
		wantPurchaseID  string
	}{
		{
			name:    "missing purchase id",
			raw:     RawRequest{Principal: "alice"},
			wantErr: domainerrors.ErrPurchaseIDRequired,
		},
		{
			name:    "missing principal without revoke-only",
			raw:     RawRequest{PurchaseID: "12345"},
			wantErr: domainerrors.ErrPrincipalRequired,
		},
		{
			name:            "missing principal allowed under revoke-only",
			raw:             RawRequest{PurchaseID: "12345"},
			allowRevokeOnly: true,
			wantPurchaseID:  "12345",
		},
		{
			name:           "well-known prefix stripped",
			raw:            RawRequest{PurchaseID: "IN12345", Principal: "alice"},
			wantPurchaseID: "12345",
		},
		{
			name:    "non-digit purchase id",
			raw:     RawRequest{PurchaseID: "12a45", Principal: "alice"},
			wantErr: domainerrors.ErrInvalidPurchaseID,
		},
		{
			name:    "prefix alone is not a purchase id",
			raw:     RawRequest{PurchaseID: "IN", Principal: "alice"},
			wantErr: domainerrors.ErrInvalidPurchaseID,
		},
		{
			name:    "principal with invalid characters",
			raw:     RawRequest{PurchaseID: "12345", Principal: "alice!"},
			wantErr: domainerrors.ErrInvalidPrincipal,
		},
		{
			name:           "principal with underscore and hyphen",
			raw:            RawRequest{PurchaseID: "12345", Principal: "alice_b-c"},
			wantPurchaseID: "12345",
		},
		{
			name:           "surrounding whitespace trimmed",
			raw:            RawRequest{PurchaseID: " 12345 ", Principal: " alice "},
			wantPurchaseID: "12345",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateRequest(tc.raw, tc.allowRevokeOnly)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.PurchaseID != tc.wantPurchaseID {
				t.Fatalf("expected purchase id %q, got %q", tc.wantPurchaseID, got.PurchaseID)
			}
		})
	}
}

func TestValidateRequestPreservesModifyFlag(t *testing.T) {
	got, err := ValidateRequest(RawRequest{PurchaseID: "1", Principal: "alice", Modify: true}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Modify {
		t.Fatal("expected modify flag to survive validation")
	}
}

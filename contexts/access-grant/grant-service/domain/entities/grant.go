package entities

import "time"

// Grant is the persisted fact that a purchase currently entitles a specific
// identity handle to access a resource. At most one Grant exists per
// purchase id; revoking deletes the row rather than nulling the holder.
type Grant struct {
	PurchaseID     string
	IdentityHandle string
	GrantedAt      time.Time
	UpdatedAt      time.Time
}

// PurchaseRecord is a purchase-verification result. Retrieved per request,
// never cached.
type PurchaseRecord struct {
	PurchaseID string
	Refunded   bool
	PriceExVAT string
	ProductID  string
}

// Free reports whether the purchase was a free/voucher redemption.
// The verification service reports price as a decimal string; "0.00" and
// "0" both mean no money changed hands.
func (p PurchaseRecord) Free() bool {
	switch p.PriceExVAT {
	case "", "0", "0.0", "0.00":
		return true
	}
	return false
}

// Identity is a resolved principal in the membership system.
type Identity struct {
	Handle    string
	Principal string
}

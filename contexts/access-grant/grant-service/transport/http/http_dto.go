package httptransport

// GrantRequest carries the inbound fields of the single reconcile route.
// GET sends them as query parameters, POST as a form-encoded body.
type GrantRequest struct {
	PurchaseID     string `json:"purchaseId"`
	Principal      string `json:"principal,omitempty"`
	ChallengeToken string `json:"challengeToken,omitempty"`
}

// GrantResponse describes a reconciliation outcome or preview.
type GrantResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	PurchaseID string `json:"purchase_id"`
	Principal  string `json:"principal,omitempty"`
	Resource   string `json:"resource,omitempty"`
	Mutated    bool   `json:"mutated"`
}

// ErrorResponse is the error envelope for all non-2xx responses with a body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package assetstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"repogrant/contexts/access-grant/grant-service/domain/entities"
)

// DefaultBaseURL is the purchase-verification endpoint of the asset store
// publisher API.
const DefaultBaseURL = "https://api.assetstore.unity3d.com/publisher/v1"

// Client verifies purchases against the asset store invoice API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: httpClient, logger: logger}
}

// invoiceRecord mirrors the verification API wire format. Refunded is the
// literal "Yes"/"No" string and price_exvat a decimal string.
type invoiceRecord struct {
	Invoice    string `json:"invoice"`
	Refunded   string `json:"refunded"`
	PriceExVAT string `json:"price_exvat"`
	Package    string `json:"package"`
}

type verifyResponse struct {
	Invoices []invoiceRecord `json:"invoices"`
}

// Verify fetches the purchase records for a purchase id. An empty slice
// means the purchase does not exist; any transport or decode failure is an
// error for the caller to classify.
func (c *Client) Verify(ctx context.Context, purchaseID string) ([]entities.PurchaseRecord, error) {
	endpoint := fmt.Sprintf("%s/invoice/verify.json?key=%s&invoice=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(purchaseID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("purchase verification returned non-200",
			"event", "assetstore_verify_bad_status",
			"module", "access-grant/grant-service",
			"layer", "adapter",
			"endpoint", c.baseURL+"/invoice/verify.json",
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("verify request: status %d", resp.StatusCode)
	}

	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	records := make([]entities.PurchaseRecord, 0, len(payload.Invoices))
	for _, inv := range payload.Invoices {
		records = append(records, entities.PurchaseRecord{
			PurchaseID: inv.Invoice,
			Refunded:   inv.Refunded == "Yes",
			PriceExVAT: inv.PriceExVAT,
			ProductID:  inv.Package,
		})
	}
	return records, nil
}

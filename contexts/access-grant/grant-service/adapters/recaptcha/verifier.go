package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// DefaultVerifyURL is the hosted siteverify endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks anti-automation response tokens against the challenge
// provider. A false result is a policy rejection; an error is a transport
// failure and must not be conflated with rejection.
type Verifier struct {
	verifyURL string
	secret    string
	http      *http.Client
	logger    *slog.Logger
}

func NewVerifier(verifyURL, secret string, httpClient *http.Client, logger *slog.Logger) *Verifier {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{verifyURL: verifyURL, secret: secret, http: httpClient, logger: logger}
}

func (v *Verifier) Verify(ctx context.Context, token string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Error("challenge provider returned non-200",
			"event", "recaptcha_bad_status",
			"module", "access-grant/grant-service",
			"layer", "adapter",
			"endpoint", v.verifyURL,
			"status", resp.StatusCode,
		)
		return false, fmt.Errorf("siteverify request: status %d", resp.StatusCode)
	}

	var payload struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode siteverify response: %w", err)
	}
	return payload.Success, nil
}

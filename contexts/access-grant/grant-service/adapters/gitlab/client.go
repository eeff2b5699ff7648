package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"repogrant/contexts/access-grant/grant-service/domain/entities"
)

// DefaultBaseURL is the hosted GitLab REST API root.
const DefaultBaseURL = "https://gitlab.com/api/v4"

// Client implements both the identity directory and the membership client
// against the GitLab API. Identity handles are GitLab numeric user ids
// carried as strings.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, token string, httpClient *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: baseURL, token: token, http: httpClient, logger: logger}
}

type userRecord struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// LookupByName resolves a username to identities. The API returns matches
// ordered by relevance; callers take the first.
func (c *Client) LookupByName(ctx context.Context, principal string) ([]entities.Identity, error) {
	endpoint := fmt.Sprintf("%s/users?username=%s", c.baseURL, url.QueryEscape(principal))
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logBadStatus("users lookup", endpoint, resp.StatusCode)
		return nil, fmt.Errorf("users lookup: status %d", resp.StatusCode)
	}

	var users []userRecord
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("decode users response: %w", err)
	}

	identities := make([]entities.Identity, 0, len(users))
	for _, u := range users {
		identities = append(identities, entities.Identity{
			Handle:    strconv.FormatInt(u.ID, 10),
			Principal: u.Username,
		})
	}
	return identities, nil
}

// IsMember reports whether the identity currently holds membership on the
// resource. 404 means not a member, not an error.
func (c *Client) IsMember(ctx context.Context, resourceID string, identityHandle string) (bool, error) {
	endpoint := c.memberURL(resourceID, identityHandle)
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		c.logBadStatus("membership check", endpoint, resp.StatusCode)
		return false, fmt.Errorf("membership check: status %d", resp.StatusCode)
	}
}

// Grant adds the identity as a member of the resource at the given access
// level. 409 means the identity is already a member and is success.
func (c *Client) Grant(ctx context.Context, resourceID string, identityHandle string, accessLevel int) error {
	userID, err := strconv.ParseInt(identityHandle, 10, 64)
	if err != nil {
		return fmt.Errorf("identity handle %q is not numeric: %w", identityHandle, err)
	}
	body, err := json.Marshal(map[string]any{
		"user_id":      userID,
		"access_level": accessLevel,
	})
	if err != nil {
		return fmt.Errorf("encode membership grant: %w", err)
	}

	endpoint := fmt.Sprintf("%s/projects/%s/members", c.baseURL, url.PathEscape(resourceID))
	resp, err := c.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusConflict:
		return nil
	default:
		c.logBadStatus("membership grant", endpoint, resp.StatusCode)
		return fmt.Errorf("membership grant: status %d", resp.StatusCode)
	}
}

// Revoke removes the identity from the resource. 404 means the membership
// was already gone and is success.
func (c *Client) Revoke(ctx context.Context, resourceID string, identityHandle string) error {
	endpoint := c.memberURL(resourceID, identityHandle)
	resp, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		c.logBadStatus("membership revoke", endpoint, resp.StatusCode)
		return fmt.Errorf("membership revoke: status %d", resp.StatusCode)
	}
}

func (c *Client) memberURL(resourceID, identityHandle string) string {
	return fmt.Sprintf("%s/projects/%s/members/%s",
		c.baseURL, url.PathEscape(resourceID), url.PathEscape(identityHandle))
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	return resp, nil
}

func (c *Client) logBadStatus(op, endpoint string, status int) {
	c.logger.Error("gitlab api returned unexpected status",
		"event", "gitlab_bad_status",
		"module", "access-grant/grant-service",
		"layer", "adapter",
		"op", op,
		"endpoint", endpoint,
		"status", status,
	)
}

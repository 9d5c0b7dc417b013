package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client represents a read-only Supabase client for the PostgREST and auth APIs
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client
func NewClient(url, serviceKey string) *Client {
	return &Client{
		URL:        url,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// StatusError is returned when Supabase answers with a 4xx or 5xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("supabase error (status %d): %s", e.StatusCode, e.Body)
}

// Query executes a query on a Supabase table
func (c *Client) Query(ctx context.Context, table string, query url.Values) ([]byte, error) {
	return c.QueryWithToken(ctx, table, query, "")
}

// QueryWithToken executes a query with an optional user JWT token for RLS
func (c *Client) QueryWithToken(ctx context.Context, table string, query url.Values, userToken string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = query.Encode()

	req.Header.Set("apikey", c.ServiceKey)

	// Use user token if provided, otherwise use service key
	if userToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", userToken))
	} else {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.ServiceKey))
	}

	return c.do(req)
}

// VerifyToken verifies a JWT token with Supabase
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	endpoint := fmt.Sprintf("%s/auth/v1/user", c.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return &user, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// User represents a Supabase user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to the verification endpoints over HTTP. On a non-2xx
// status the error carries the response body's "message" field when
// one is present.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &httpClient,
	}
}

func (c *Client) RequestCode(ctx context.Context, email string) error {
	return c.post(ctx, "/api/cal/request-verification-code", map[string]string{
		"email": email,
	})
}

func (c *Client) VerifyCode(ctx context.Context, email, code string) error {
	return c.post(ctx, "/api/cal/verify-email-code", map[string]string{
		"email": email,
		"code":  code,
	})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.Message != "" {
		return fmt.Errorf("%s", parsed.Message)
	}
	return fmt.Errorf("verification request failed with status %d", resp.StatusCode)
}

// Package notion provides a minimal client for the Notion REST API: database
// queries and page property updates.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/drewfead/ntm/internal/logging"
)

// DefaultVersion is the Notion-Version header sent when none is configured.
const DefaultVersion = "2022-06-28"

// Client talks to the Notion REST API.
type Client struct {
	BaseURL    string
	Token      string
	Version    string
	HTTPClient *http.Client
}

// NewClient creates a new Notion client.
func NewClient(baseURL, token, version string) *Client {
	if version == "" {
		version = DefaultVersion
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		Version:    version,
		HTTPClient: &http.Client{},
	}
}

// WithHTTPClient returns a copy of the client using hc for requests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	return &Client{
		BaseURL:    c.BaseURL,
		Token:      c.Token,
		Version:    c.Version,
		HTTPClient: hc,
	}
}

// APIError is a non-2xx response from Notion.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// QueryDatabase runs a filtered query against a database and returns the
// first page of results.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req QueryRequest) (*QueryResponse, error) {
	path := "/v1/databases/" + url.PathEscape(databaseID) + "/query"

	body, err := c.request(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}

	var resp QueryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("notion: decode query response: %w", err)
	}
	return &resp, nil
}

// UpdatePage patches the properties of a single page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, req UpdatePageRequest) (*Page, error) {
	path := "/v1/pages/" + url.PathEscape(pageID)

	body, err := c.request(ctx, http.MethodPatch, path, req)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("notion: decode page: %w", err)
	}
	return &page, nil
}

// request sends a JSON request and returns the raw response body.
// Non-2xx responses become *APIError; nothing is retried.
func (c *Client) request(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("notion: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("notion: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Notion-Version", c.Version)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logging.Debug("notion request", "method", method, "path", path)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("notion: read response: %w", err)
	}

	logging.Debug("notion response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

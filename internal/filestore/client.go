// Package filestore talks to the external file-collection provider. Every
// folder owns a remote file collection; creation happens before the folder
// row is persisted and deletion is the tail step of the folder delete cascade.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"matterdesk/internal/httputil"
)

// DefaultTimeout is the default HTTP timeout for provider requests.
const DefaultTimeout = 30 * time.Second

// Client is the file-collection provider surface the folder service depends on.
type Client interface {
	// CreateCollection provisions a new file collection and returns its id.
	CreateCollection(ctx context.Context) (string, error)

	// DeleteCollection removes a file collection and everything in it.
	DeleteCollection(ctx context.Context, collectionID string) error
}

// HTTPClient implements Client against the provider's REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a file-collection provider client.
func NewClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// NewClientWithConfig creates a provider client with custom configuration.
func NewClientWithConfig(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateCollection implements Client.
func (c *HTTPClient) CreateCollection(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/collections", bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("filestore error (status %d): %s", resp.StatusCode, string(body))
	}

	var created struct {
		CollectionID string `json:"collectionId"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if created.CollectionID == "" {
		return "", fmt.Errorf("filestore returned no collection id")
	}

	return created.CollectionID, nil
}

// DeleteCollection implements Client.
func (c *HTTPClient) DeleteCollection(ctx context.Context, collectionID string) error {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, collectionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("filestore error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// setHeaders forwards the caller's credentials to the provider.
func (c *HTTPClient) setHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth := httputil.Authorization(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}
}

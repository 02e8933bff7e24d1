// Package chatbackend talks to the external backend-of-record for chats.
// Chat records live there, not in this subsystem's database; this package
// also fronts the chat-naming provider.
package chatbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"matterdesk/internal/domain/models"
	"matterdesk/internal/httputil"
)

// DefaultTimeout is the default HTTP timeout for backend requests.
const DefaultTimeout = 30 * time.Second

// Message is one turn of chat history, used as seed content for name generation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the backend-of-record surface the chat service depends on.
type Client interface {
	CreateChat(ctx context.Context, uid string, parentID *string) (*models.TreeItem, error)
	DeleteChat(ctx context.Context, chatID string) error
	RenameChat(ctx context.Context, chatID, name string) error
	GenerateName(ctx context.Context, chatID string, history []Message) (string, error)
	ListChats(ctx context.Context, uid string) ([]models.TreeItem, error)
}

// UpstreamError carries a non-2xx backend response so the service layer can
// translate statuses (404 vs everything else) into domain errors.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("chat backend error (status %d): %s", e.Status, e.Body)
}

// HTTPClient implements Client against the backend's REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a chat backend client.
func NewClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// CreateChat creates an empty chat, optionally under a folder.
func (c *HTTPClient) CreateChat(ctx context.Context, uid string, parentID *string) (*models.TreeItem, error) {
	payload := map[string]interface{}{"uid": uid}
	if parentID != nil {
		payload["parentId"] = *parentID
	}

	var chat models.TreeItem
	if err := c.do(ctx, http.MethodPost, "/chats", payload, &chat); err != nil {
		return nil, err
	}
	chat.Type = models.TypeChat
	return &chat, nil
}

// DeleteChat removes a chat record.
func (c *HTTPClient) DeleteChat(ctx context.Context, chatID string) error {
	return c.do(ctx, http.MethodDelete, "/chats/"+url.PathEscape(chatID), nil, nil)
}

// RenameChat updates a chat's display name.
func (c *HTTPClient) RenameChat(ctx context.Context, chatID, name string) error {
	payload := map[string]interface{}{"name": name}
	return c.do(ctx, http.MethodPatch, "/chats/"+url.PathEscape(chatID), payload, nil)
}

// GenerateName asks the naming provider for a title seeded with chat history.
func (c *HTTPClient) GenerateName(ctx context.Context, chatID string, history []Message) (string, error) {
	payload := map[string]interface{}{"chat_history": history}

	var generated struct {
		Name string `json:"name"`
	}
	path := "/chats/" + url.PathEscape(chatID) + "/generate-name"
	if err := c.do(ctx, http.MethodPost, path, payload, &generated); err != nil {
		return "", err
	}
	return generated.Name, nil
}

// ListChats fetches the user's full chat set.
func (c *HTTPClient) ListChats(ctx context.Context, uid string) ([]models.TreeItem, error) {
	var chats []models.TreeItem
	if err := c.do(ctx, http.MethodGet, "/chats?uid="+url.QueryEscape(uid), nil, &chats); err != nil {
		return nil, err
	}
	for i := range chats {
		chats[i].Type = models.TypeChat
	}
	return chats, nil
}

// do executes one backend request, forwarding the caller's Authorization
// header and decoding a JSON response into out when given.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth := httputil.Authorization(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

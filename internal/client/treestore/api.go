package treestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"matterdesk/internal/chatbackend"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/httputil"
	"matterdesk/internal/sorting"
)

// ListOptions scopes a list fetch.
type ListOptions struct {
	SortType            sorting.SortType
	ParentID            *string
	OnlyArchivedMatters bool
}

// FolderDraft is the creation payload for a folder.
type FolderDraft struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	MatterID    *string `json:"matterId,omitempty"`
}

// FolderPatch is the partial update payload for a folder.
type FolderPatch struct {
	Name        *string                 `json:"name,omitempty"`
	MatterID    *string                 `json:"matterId,omitempty"`
	Description httputil.OptionalString `json:"description,omitzero"`
	IsArchived  *bool                   `json:"isArchived,omitempty"`
}

// API is the server surface the store mutates through.
type API interface {
	List(ctx context.Context, opts ListOptions) ([]models.TreeItem, error)
	CreateFolder(ctx context.Context, draft FolderDraft) (*models.TreeItem, error)
	UpdateFolder(ctx context.Context, id string, patch FolderPatch) (*models.TreeItem, error)
	DeleteFolder(ctx context.Context, id string) error
	CreateChat(ctx context.Context, parentID *string) (*models.TreeItem, error)
	DeleteChat(ctx context.Context, id string) error
	RenameChat(ctx context.Context, id, name string) error
	GenerateChatName(ctx context.Context, id string, history []chatbackend.Message) (string, error)
}

// RESTClient implements API against the tree management routes.
type RESTClient struct {
	baseURL    string
	uid        string
	httpClient *http.Client
}

// NewRESTClient creates a client acting as the given user.
func NewRESTClient(baseURL, uid string) *RESTClient {
	return &RESTClient{
		baseURL: baseURL,
		uid:     uid,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// List implements API.
func (c *RESTClient) List(ctx context.Context, opts ListOptions) ([]models.TreeItem, error) {
	query := url.Values{}
	query.Set("uid", c.uid)
	query.Set("sortType", string(opts.SortType))
	if opts.ParentID != nil {
		query.Set("parentId", *opts.ParentID)
	}
	if opts.OnlyArchivedMatters {
		query.Set("onlyArchivedMatters", "true")
	}

	var items []models.TreeItem
	if err := c.do(ctx, http.MethodGet, "/list?"+query.Encode(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateFolder implements API.
func (c *RESTClient) CreateFolder(ctx context.Context, draft FolderDraft) (*models.TreeItem, error) {
	var created struct {
		NewFolder *models.TreeItem `json:"newFolder"`
	}
	if err := c.do(ctx, http.MethodPost, "/folders", draft, &created); err != nil {
		return nil, err
	}
	return created.NewFolder, nil
}

// UpdateFolder implements API.
func (c *RESTClient) UpdateFolder(ctx context.Context, id string, patch FolderPatch) (*models.TreeItem, error) {
	payload := map[string]interface{}{"id": id, "updates": patch}
	var folder models.TreeItem
	if err := c.do(ctx, http.MethodPatch, "/folders", payload, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// DeleteFolder implements API.
func (c *RESTClient) DeleteFolder(ctx context.Context, id string) error {
	payload := map[string]string{"id": id}
	return c.do(ctx, http.MethodDelete, "/folders", payload, nil)
}

// CreateChat implements API.
func (c *RESTClient) CreateChat(ctx context.Context, parentID *string) (*models.TreeItem, error) {
	payload := map[string]interface{}{"user": c.uid}
	if parentID != nil {
		payload["parentId"] = *parentID
	}

	var created struct {
		NewChat *models.TreeItem `json:"newChat"`
	}
	if err := c.do(ctx, http.MethodPost, "/chats", payload, &created); err != nil {
		return nil, err
	}
	return created.NewChat, nil
}

// DeleteChat implements API.
func (c *RESTClient) DeleteChat(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/chat/"+url.PathEscape(id), nil, nil)
}

// RenameChat implements API.
func (c *RESTClient) RenameChat(ctx context.Context, id, name string) error {
	payload := map[string]interface{}{
		"updates": map[string]string{"name": name},
	}
	return c.do(ctx, http.MethodPost, "/chat/"+url.PathEscape(id)+"/rename", payload, nil)
}

// GenerateChatName implements API.
func (c *RESTClient) GenerateChatName(ctx context.Context, id string, history []chatbackend.Message) (string, error) {
	payload := map[string]interface{}{
		"chatId":       id,
		"chat_history": history,
	}

	var generated struct {
		NewName string `json:"newName"`
	}
	if err := c.do(ctx, http.MethodPost, "/generate-name", payload, &generated); err != nil {
		return "", err
	}
	return generated.NewName, nil
}

func (c *RESTClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
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
	req.Header.Set("X-User-Id", c.uid)

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
		var errBody httputil.ErrorBody
		if json.Unmarshal(body, &errBody) == nil && errBody.Code != "" {
			return fmt.Errorf("%s: %s", errBody.Code, errBody.Message)
		}
		return fmt.Errorf("server error (status %d): %s", resp.StatusCode, string(body))
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

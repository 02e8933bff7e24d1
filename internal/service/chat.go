package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"matterdesk/internal/chatbackend"
	"matterdesk/internal/config"
	"matterdesk/internal/domain"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/sorting"
)

// PlaceholderChatName is shown until the naming provider returns a title.
const PlaceholderChatName = "New Chat"

// ChatService delegates the chat record lifecycle to the external
// backend-of-record, translating upstream failures into domain errors.
type ChatService struct {
	backend chatbackend.Client
	logger  *slog.Logger
}

// NewChatService creates a new chat service.
func NewChatService(backend chatbackend.Client, logger *slog.Logger) *ChatService {
	return &ChatService{backend: backend, logger: logger}
}

// CreateChat creates an empty chat, surfaced immediately under a placeholder
// name; the real name arrives asynchronously via GenerateChatName.
func (s *ChatService) CreateChat(ctx context.Context, uid string, parentID *string) (*models.TreeItem, error) {
	if uid == "" {
		return nil, domain.NewError(domain.CodeMissingProperty, "user is required")
	}

	chat, err := s.backend.CreateChat(ctx, uid, parentID)
	if err != nil {
		return nil, s.translateUpstream(err, "failed to create chat")
	}
	if chat.Name == "" {
		chat.Name = PlaceholderChatName
	}

	s.logger.Info("chat created", "id", chat.TreeItemID, "uid", uid, "parent_id", parentID)
	return chat, nil
}

// DeleteChat removes a chat from the backend-of-record.
func (s *ChatService) DeleteChat(ctx context.Context, chatID string) error {
	if err := s.backend.DeleteChat(ctx, chatID); err != nil {
		return s.translateUpstream(err, "failed to delete chat")
	}
	s.logger.Info("chat deleted", "id", chatID)
	return nil
}

// RenameChat updates a chat's display name.
func (s *ChatService) RenameChat(ctx context.Context, chatID, name string) error {
	if name == "" {
		return domain.NewError(domain.CodeMissingProperty, "name is required")
	}
	if len(name) > config.MaxChatNameLength {
		return domain.NewError(domain.CodeBadRequest, fmt.Sprintf("name exceeds %d characters", config.MaxChatNameLength))
	}
	if err := s.backend.RenameChat(ctx, chatID, name); err != nil {
		return s.translateUpstream(err, "failed to rename chat")
	}
	return nil
}

// GenerateChatName asks the naming provider for a title seeded with the chat
// history. Callers treat this as fire-and-forget; whether the result is still
// applicable is decided at resolution time by the caller's staleness guard.
func (s *ChatService) GenerateChatName(ctx context.Context, chatID string, history []chatbackend.Message) (string, error) {
	name, err := s.backend.GenerateName(ctx, chatID, history)
	if err != nil {
		return "", domain.WrapError(domain.CodeChatService, "failed to generate chat name", err)
	}
	return name, nil
}

// GetChats fetches the user's full chat set from the backend-of-record and
// applies the requested ordering: by_name, by_type (folders first), or the
// default descending date order with missing dates treated as epoch.
func (s *ChatService) GetChats(ctx context.Context, uid string, sortType sorting.SortType) ([]models.TreeItem, error) {
	chats, err := s.backend.ListChats(ctx, uid)
	if err != nil {
		return nil, s.translateUpstream(err, "failed to list chats")
	}

	switch sortType {
	case sorting.ByName:
		return sorting.SortByName(chats), nil
	case sorting.ByType:
		return sorting.SortByType(chats), nil
	default:
		return sorting.SortByDate(chats), nil
	}
}

// translateUpstream maps backend responses onto the domain taxonomy:
// 404 becomes not_found, any other failure a chat_service_error.
func (s *ChatService) translateUpstream(err error, message string) error {
	var upstream *chatbackend.UpstreamError
	if errors.As(err, &upstream) && upstream.Status == http.StatusNotFound {
		return domain.WrapError(domain.CodeNotFound, "chat not found", err)
	}
	return domain.WrapError(domain.CodeChatService, message, err)
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"matterdesk/internal/chatbackend"
	"matterdesk/internal/domain"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/httputil"
	"matterdesk/internal/sorting"
)

type chatService interface {
	CreateChat(ctx context.Context, uid string, parentID *string) (*models.TreeItem, error)
	DeleteChat(ctx context.Context, chatID string) error
	RenameChat(ctx context.Context, chatID, name string) error
	GenerateChatName(ctx context.Context, chatID string, history []chatbackend.Message) (string, error)
	GetChats(ctx context.Context, uid string, sortType sorting.SortType) ([]models.TreeItem, error)
}

// ChatHandler handles chat HTTP requests. The chat record lifecycle lives in
// the backend-of-record; these routes only front it.
type ChatHandler struct {
	chats  chatService
	logger *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chats chatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, logger: logger}
}

// CreateChat creates an empty chat, optionally under a folder.
// POST /chats {parentId?, user}
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ParentID *string `json:"parentId"`
		User     string  `json:"user"`
	}
	if err := httputil.ParseJSON(w, r, &payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}

	uid := payload.User
	if uid == "" {
		uid = httputil.GetUserID(r.Context())
	}

	chat, err := h.chats.CreateChat(r.Context(), uid, payload.ParentID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]interface{}{"newChat": chat})
}

// ListChats returns the user's full chat set from the backend-of-record,
// sorted as requested.
// GET /chats?sortType
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUserID(w, r)
	if !ok {
		return
	}

	chats, err := h.chats.GetChats(r.Context(), uid, sorting.ParseSortType(r.URL.Query().Get("sortType")))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if chats == nil {
		chats = []models.TreeItem{}
	}

	httputil.RespondJSON(w, http.StatusOK, chats)
}

// UpdateChat renames a chat via the generic updates payload.
// PATCH /chats {id, updates}
func (h *ChatHandler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID      string `json:"id"`
		Updates struct {
			Name *string `json:"name"`
		} `json:"updates"`
	}
	if err := httputil.ParseJSON(w, r, &payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}
	if payload.ID == "" {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeMissingProperty), "id is required")
		return
	}
	if payload.Updates.Name == nil {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeMissingProperty), "updates.name is required")
		return
	}

	if err := h.chats.RenameChat(r.Context(), payload.ID, *payload.Updates.Name); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"id": payload.ID})
}

// DeleteChat removes a chat.
// DELETE /chat/{chatId}
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("chatId")
	if chatID == "" {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeMissingProperty), "chatId is required")
		return
	}

	if err := h.chats.DeleteChat(r.Context(), chatID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"id": chatID})
}

// RenameChat updates a chat's display name.
// POST /chat/{chatId}/rename {updates:{name}}
func (h *ChatHandler) RenameChat(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("chatId")
	if chatID == "" {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeMissingProperty), "chatId is required")
		return
	}

	var payload struct {
		Updates struct {
			Name string `json:"name"`
		} `json:"updates"`
	}
	if err := httputil.ParseJSON(w, r, &payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}

	if err := h.chats.RenameChat(r.Context(), chatID, payload.Updates.Name); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"id": chatID})
}

// GenerateName asks the naming provider for a chat title.
// POST /generate-name {chatId, chat_history}
func (h *ChatHandler) GenerateName(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatID      string                `json:"chatId"`
		ChatHistory []chatbackend.Message `json:"chat_history"`
	}
	if err := httputil.ParseJSON(w, r, &payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}
	if payload.ChatID == "" {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeMissingProperty), "chatId is required")
		return
	}

	name, err := h.chats.GenerateChatName(r.Context(), payload.ChatID, payload.ChatHistory)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{"newName": name})
}

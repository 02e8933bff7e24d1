package handler

import (
	"context"
	"log/slog"
	"net/http"

	"matterdesk/internal/domain"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/domain/repositories"
	"matterdesk/internal/httputil"
	"matterdesk/internal/service"
)

type folderService interface {
	CreateFolder(ctx context.Context, uid string, req *service.CreateFolderRequest) (*models.TreeItem, error)
	UpdateFolder(ctx context.Context, uid, id string, upd repositories.FolderUpdate) (*models.TreeItem, error)
	DeleteFolder(ctx context.Context, uid, id string) error
}

// FolderHandler handles folder HTTP requests.
type FolderHandler struct {
	folders folderService
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder handler.
func NewFolderHandler(folders folderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, logger: logger}
}

// CreateFolder creates a new folder (matter).
// POST /folders {name, description?, matterId?}
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req service.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}

	folder, err := h.folders.CreateFolder(r.Context(), uid, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]interface{}{"newFolder": folder})
}

// folderUpdatePayload is the PATCH /folders body. The id travels in the body,
// not the path - the wire contract predates this server.
type folderUpdatePayload struct {
	ID      string `json:"id"`
	Updates struct {
		Name        *string                 `json:"name"`
		MatterID    *string                 `json:"matterId"`
		Description httputil.OptionalString `json:"description"`
		IsArchived  *bool                   `json:"isArchived"`
	} `json:"updates"`
}

// UpdateFolder applies a partial-field merge (rename, matter id, description,
// archive flag).
// PATCH /folders {id, updates}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var payload folderUpdatePayload
	if err := httputil.ParseJSON(w, r, &payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}
	if payload.ID == "" {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeMissingProperty), "id is required")
		return
	}

	folder, err := h.folders.UpdateFolder(r.Context(), uid, payload.ID, repositories.FolderUpdate{
		Name:        payload.Updates.Name,
		MatterID:    payload.Updates.MatterID,
		Description: payload.Updates.Description,
		IsArchived:  payload.Updates.IsArchived,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder hard-deletes a folder, cascading to child chats and the
// remote file collection.
// DELETE /folders {id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := httputil.ParseJSON(w, r, &payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}
	if payload.ID == "" {
		httputil.RespondError(w, http.StatusBadRequest, string(domain.CodeMissingProperty), "id is required")
		return
	}

	if err := h.folders.DeleteFolder(r.Context(), uid, payload.ID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

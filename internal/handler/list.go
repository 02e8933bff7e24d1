package handler

import (
	"context"
	"log/slog"
	"net/http"

	"matterdesk/internal/domain/models"
	"matterdesk/internal/httputil"
	"matterdesk/internal/service"
	"matterdesk/internal/sorting"
)

type listService interface {
	GetChatsAndFolders(ctx context.Context, q service.ListQuery) ([]models.TreeItem, error)
}

// ListHandler serves the merged chats+folders listing.
type ListHandler struct {
	lists  listService
	logger *slog.Logger
}

// NewListHandler creates a new list handler.
func NewListHandler(lists listService, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: lists, logger: logger}
}

// List returns the tree entries for a parent/archive scope.
// GET /list?sortType&parentId&onlyArchivedMatters&uid
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	// The uid query parameter is contractual and wins over the request identity.
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		var ok bool
		if uid, ok = requireUserID(w, r); !ok {
			return
		}
	}

	q := service.ListQuery{
		UID:                 uid,
		SortType:            sorting.ParseSortType(r.URL.Query().Get("sortType")),
		OnlyArchivedMatters: r.URL.Query().Get("onlyArchivedMatters") == "true",
	}
	if parentID := r.URL.Query().Get("parentId"); parentID != "" {
		q.ParentID = &parentID
	}

	items, err := h.lists.GetChatsAndFolders(r.Context(), q)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []models.TreeItem{}
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

package service

import (
	"context"
	"log/slog"

	"matterdesk/internal/domain"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/domain/repositories"
	"matterdesk/internal/sorting"
)

// ListQuery scopes a merged chats+folders listing.
type ListQuery struct {
	UID                 string
	SortType            sorting.SortType
	ParentID            *string
	OnlyArchivedMatters bool
}

// ListService is the read-side aggregator merging the two collections for a
// parent/archive scope.
type ListService struct {
	chats   repositories.ChatRepository
	folders repositories.FolderRepository
	logger  *slog.Logger
}

// NewListService creates a new list service.
func NewListService(
	chats repositories.ChatRepository,
	folders repositories.FolderRepository,
	logger *slog.Logger,
) *ListService {
	return &ListService{chats: chats, folders: folders, logger: logger}
}

// GetChatsAndFolders merges chats and folders for the query scope and sorts.
//
// Chats are skipped entirely in the top-level archived view (archived filter
// with no parent): loose chats must not surface as pseudo-archived entries.
// For by_type the chats-then-folders concatenation is returned untouched;
// that matches the long-standing behavior of this endpoint even though the
// client-side type sort is folders-first.
func (s *ListService) GetChatsAndFolders(ctx context.Context, q ListQuery) ([]models.TreeItem, error) {
	includeChats := !(q.OnlyArchivedMatters && q.ParentID == nil)

	var items []models.TreeItem
	if includeChats {
		chats, err := s.chats.Find(ctx, repositories.ChatFilter{UID: q.UID, ParentID: q.ParentID})
		if err != nil {
			s.logger.Error("chat lookup failed", "uid", q.UID, "error", err)
			return nil, domain.WrapError(domain.CodeDatabase, "failed to load chats", err)
		}
		items = append(items, chats...)
	}

	folders, err := s.folders.Find(ctx, repositories.FolderFilter{
		UID:          q.UID,
		ParentID:     q.ParentID,
		OnlyArchived: q.OnlyArchivedMatters,
	})
	if err != nil {
		s.logger.Error("folder lookup failed", "uid", q.UID, "error", err)
		return nil, domain.WrapError(domain.CodeDatabase, "failed to load folders", err)
	}
	items = append(items, folders...)

	switch q.SortType {
	case sorting.ByName:
		return sorting.SortByName(items), nil
	case sorting.ByType:
		return items, nil
	default:
		return sorting.SortByDate(items), nil
	}
}

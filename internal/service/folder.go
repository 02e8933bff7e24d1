package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"matterdesk/internal/config"
	"matterdesk/internal/domain"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/domain/repositories"
	"matterdesk/internal/filestore"
)

// CreateFolderRequest represents a folder (matter) creation request.
type CreateFolderRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	MatterID    *string `json:"matterId,omitempty"`
}

// FolderService owns the business rules for matters: creation is coupled to
// the external file-collection provider, deletion cascades across the two
// collections and the remote provider, archival is a soft flag.
type FolderService struct {
	folders repositories.FolderRepository
	chats   repositories.ChatRepository
	files   filestore.Client
	logger  *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(
	folders repositories.FolderRepository,
	chats repositories.ChatRepository,
	files filestore.Client,
	logger *slog.Logger,
) *FolderService {
	return &FolderService{
		folders: folders,
		chats:   chats,
		files:   files,
		logger:  logger,
	}
}

// CreateFolder provisions the remote file collection first, then persists the
// folder row. A provider failure aborts the whole operation; no folder row is
// ever written without a file collection id.
func (s *FolderService) CreateFolder(ctx context.Context, uid string, req *CreateFolderRequest) (*models.TreeItem, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxFolderNameLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
	); err != nil {
		return nil, domain.WrapError(domain.CodeMissingProperty, err.Error(), err)
	}

	fileCollectionID, err := s.files.CreateCollection(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.CodeFolderCreation, "failed to provision file collection", err)
	}

	folder := models.NewFolder(uid, req.Name, fileCollectionID, req.MatterID, req.Description)
	if err := s.folders.Insert(ctx, folder); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, domain.WrapError(domain.CodeDuplicateEntry, fmt.Sprintf("folder %s already exists", folder.TreeItemID), err)
		}
		return nil, domain.WrapError(domain.CodeDatabase, "failed to create folder", err)
	}

	s.logger.Info("folder created",
		"id", folder.TreeItemID,
		"name", folder.Name,
		"uid", uid,
		"file_collection_id", fileCollectionID,
	)

	return folder, nil
}

// DeleteFolder removes the folder row first; only after a confirmed
// single-row deletion does the cascade run: child chats one by one, then the
// remote file collection. Cascade failures surface as errors but never roll
// back the completed deletions, so a partial failure can leave orphaned
// dependents - accepted as best-effort compensation, not masked as atomic.
func (s *FolderService) DeleteFolder(ctx context.Context, uid, id string) error {
	// The file collection id must be read before the row is gone.
	folder, err := s.folders.GetByID(ctx, uid, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.WrapError(domain.CodeNotFound, fmt.Sprintf("folder %s not found", id), err)
		}
		return domain.WrapError(domain.CodeDatabase, "failed to load folder", err)
	}

	deleted, err := s.folders.Delete(ctx, uid, id)
	if err != nil {
		return domain.WrapError(domain.CodeDatabase, "failed to delete folder", err)
	}
	if deleted == 0 {
		return domain.NewError(domain.CodeNotFound, fmt.Sprintf("folder %s not found", id))
	}

	steps := []cascadeStep{
		{
			name: "delete child chats",
			run: func(ctx context.Context) error {
				return s.deleteChildChats(ctx, uid, id)
			},
			wrap: func(err error) error {
				return domain.WrapError(domain.CodeDatabase, "failed to delete folder chats", err)
			},
		},
	}
	if folder.FileCollectionID != "" {
		steps = append(steps, cascadeStep{
			name: "delete file collection",
			run: func(ctx context.Context) error {
				return s.files.DeleteCollection(ctx, folder.FileCollectionID)
			},
			wrap: func(err error) error {
				return domain.WrapError(domain.CodeFilestore, "failed to delete file collection", err)
			},
		})
	}

	if err := runCascade(ctx, s.logger, "delete folder", steps); err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"uid", uid,
		"file_collection_id", folder.FileCollectionID,
	)

	return nil
}

// deleteChildChats removes every chat parented by the deleted folder, one row
// at a time.
func (s *FolderService) deleteChildChats(ctx context.Context, uid, folderID string) error {
	children, err := s.chats.Find(ctx, repositories.ChatFilter{UID: uid, ParentID: &folderID})
	if err != nil {
		return fmt.Errorf("list child chats: %w", err)
	}

	for _, chat := range children {
		if _, err := s.chats.Delete(ctx, uid, chat.TreeItemID); err != nil {
			return fmt.Errorf("delete chat %s: %w", chat.TreeItemID, err)
		}
		s.logger.Debug("deleted child chat", "id", chat.TreeItemID, "folder_id", folderID)
	}

	return nil
}

// UpdateFolder applies a partial-field merge to a folder. An update that only
// flips the archive flag goes through the archive path so its state-change
// logging is not skipped.
func (s *FolderService) UpdateFolder(ctx context.Context, uid, id string, upd repositories.FolderUpdate) (*models.TreeItem, error) {
	if upd.IsEmpty() {
		return nil, domain.NewError(domain.CodeMissingProperty, "update payload must not be empty")
	}

	if upd.ArchiveOnly() {
		var err error
		if *upd.IsArchived {
			err = s.ArchiveFolder(ctx, uid, id)
		} else {
			err = s.UnarchiveFolder(ctx, uid, id)
		}
		if err != nil {
			return nil, err
		}
		return s.reloadFolder(ctx, uid, id)
	}

	modified, err := s.folders.Update(ctx, uid, id, upd)
	if err != nil {
		return nil, domain.WrapError(domain.CodeDatabase, "failed to update folder", err)
	}
	if modified == 0 {
		return nil, domain.NewError(domain.CodeNotFound, fmt.Sprintf("folder %s not found", id))
	}

	s.logger.Info("folder updated", "id", id, "uid", uid)
	return s.reloadFolder(ctx, uid, id)
}

func (s *FolderService) reloadFolder(ctx context.Context, uid, id string) (*models.TreeItem, error) {
	folder, err := s.folders.GetByID(ctx, uid, id)
	if err != nil {
		return nil, domain.WrapError(domain.CodeDatabase, "failed to reload folder", err)
	}
	return folder, nil
}

// ArchiveFolder soft-hides a folder from the default listing.
func (s *FolderService) ArchiveFolder(ctx context.Context, uid, id string) error {
	return s.setArchived(ctx, uid, id, true)
}

// UnarchiveFolder restores default visibility.
func (s *FolderService) UnarchiveFolder(ctx context.Context, uid, id string) error {
	return s.setArchived(ctx, uid, id, false)
}

func (s *FolderService) setArchived(ctx context.Context, uid, id string, archived bool) error {
	modified, err := s.folders.Update(ctx, uid, id, repositories.FolderUpdate{IsArchived: &archived})
	if err != nil {
		return domain.WrapError(domain.CodeDatabase, "failed to update archive state", err)
	}
	if modified == 0 {
		return domain.NewError(domain.CodeNotFound, fmt.Sprintf("folder %s not found", id))
	}

	s.logger.Info("folder archive state changed", "id", id, "archived", archived)
	return nil
}

package repositories

import (
	"context"

	"matterdesk/internal/domain/models"
	"matterdesk/internal/httputil"
)

// ChatFilter scopes chat lookups. A nil ParentID matches root-level chats only
// (rows with a parent are excluded unless one is explicitly requested).
type ChatFilter struct {
	UID      string
	ParentID *string
}

// FolderFilter scopes folder lookups. The default query excludes archived rows
// and rows with a parent; OnlyArchived flips to the complementary archived-only
// query over the same parent scope.
type FolderFilter struct {
	UID          string
	ParentID     *string
	OnlyArchived bool
}

// ChatUpdate is a partial-merge update for a chat row. Nil fields are ignored.
type ChatUpdate struct {
	Name     *string
	ParentID httputil.OptionalString
}

// IsEmpty reports whether the update would touch nothing.
func (u ChatUpdate) IsEmpty() bool {
	return u.Name == nil && !u.ParentID.Present
}

// FolderUpdate is a partial-merge update for a folder row. Nil fields are
// ignored; Description uses tri-state presence so JSON null clears it.
type FolderUpdate struct {
	Name        *string
	MatterID    *string
	Description httputil.OptionalString
	IsArchived  *bool
}

// IsEmpty reports whether the update would touch nothing.
func (u FolderUpdate) IsEmpty() bool {
	return u.Name == nil && u.MatterID == nil && !u.Description.Present && u.IsArchived == nil
}

// ArchiveOnly reports whether the update flips the archive flag and nothing
// else.
func (u FolderUpdate) ArchiveOnly() bool {
	return u.IsArchived != nil && u.Name == nil && u.MatterID == nil && !u.Description.Present
}

// ChatRepository is the persistence accessor for the chats collection.
// Insert surfaces unique-constraint violations as domain.ErrDuplicateEntry;
// Update and Delete return affected-row counts so callers can detect
// "not found" without a separate existence check.
type ChatRepository interface {
	Insert(ctx context.Context, chat *models.TreeItem) error
	Find(ctx context.Context, filter ChatFilter) ([]models.TreeItem, error)
	Update(ctx context.Context, uid, id string, upd ChatUpdate) (int64, error)
	Delete(ctx context.Context, uid, id string) (int64, error)
}

// FolderRepository is the persistence accessor for the folders collection.
type FolderRepository interface {
	Insert(ctx context.Context, folder *models.TreeItem) error
	Find(ctx context.Context, filter FolderFilter) ([]models.TreeItem, error)
	GetByID(ctx context.Context, uid, id string) (*models.TreeItem, error)
	Update(ctx context.Context, uid, id string, upd FolderUpdate) (int64, error)
	Delete(ctx context.Context, uid, id string) (int64, error)
}

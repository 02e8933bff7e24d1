package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemType discriminates the two kinds of tree entries. It is immutable after
// creation and decides which collection a row lives in.
type ItemType string

const (
	TypeChat   ItemType = "chat"
	TypeFolder ItemType = "folder"
)

// TreeItem is the tagged union covering both entry kinds of the matter tree.
// The base fields apply to every entry; MatterID, Description and IsArchived
// are folder-only and stay nil on chats (omitted from JSON), so a chat payload
// never carries isArchived. Code processing mixed lists switches on Type.
type TreeItem struct {
	TreeItemID       string    `json:"treeItemId" db:"tree_item_id"`
	UID              string    `json:"uid" db:"uid"`
	Name             string    `json:"name" db:"name"`
	Type             ItemType  `json:"type" db:"type"`
	ParentID         *string   `json:"parentId,omitempty" db:"parent_id"`
	FileCollectionID string    `json:"fileCollectionId" db:"file_collection_id"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`

	// Folder-only fields.
	MatterID    *string `json:"matterId,omitempty" db:"matter_id"`
	Description *string `json:"description,omitempty" db:"description"`
	IsArchived  *bool   `json:"isArchived,omitempty" db:"is_archived"`
}

// IsFolder reports whether the entry is a folder (matter).
func (t *TreeItem) IsFolder() bool { return t.Type == TypeFolder }

// Archived reports the archive state; chats and unflagged folders are not archived.
func (t *TreeItem) Archived() bool { return t.IsArchived != nil && *t.IsArchived }

// NewFolder builds a folder entry with a freshly generated id. The file
// collection id must already exist: a folder is never persisted without one.
func NewFolder(uid, name, fileCollectionID string, matterID, description *string) *TreeItem {
	now := time.Now()
	archived := false
	return &TreeItem{
		TreeItemID:       uuid.NewString(),
		UID:              uid,
		Name:             name,
		Type:             TypeFolder,
		FileCollectionID: fileCollectionID,
		CreatedAt:        now,
		UpdatedAt:        now,
		MatterID:         matterID,
		Description:      description,
		IsArchived:       &archived,
	}
}

// NewChat builds a chat entry with a freshly generated id.
func NewChat(uid, name string, parentID *string, fileCollectionID string) *TreeItem {
	now := time.Now()
	return &TreeItem{
		TreeItemID:       uuid.NewString(),
		UID:              uid,
		Name:             name,
		Type:             TypeChat,
		ParentID:         parentID,
		FileCollectionID: fileCollectionID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Package treestore holds the client-side view state for the chat and matter
// tree: the current listing, the active selections, the breadcrumb trail and
// the optimistic mutations behind every tree action in the UI shell.
package treestore

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"matterdesk/internal/chatbackend"
	"matterdesk/internal/client/alerts"
	"matterdesk/internal/client/breadcrumb"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/sorting"
)

const (
	defaultFetchDelay = 300 * time.Millisecond

	crumbArchivedMatters = "archived-matters"
	crumbMatterFiles     = "matter-files"
	crumbMatterSettings  = "matter-settings"
)

// Config wires a Store to its collaborators.
type Config struct {
	API     API
	Crumbs  *breadcrumb.Stack
	Alerter *alerts.Alerter
	Logger  *slog.Logger
	UID     string

	// FetchDelay is the debounce window for list refreshes. Zero means the
	// default.
	FetchDelay time.Duration
}

// Store is the single source of truth for the tree view. All reads and
// mutations go through it; it refreshes its listing from the server after
// every mutation and keeps the breadcrumb trail in sync with navigation.
type Store struct {
	mu      sync.Mutex
	api     API
	crumbs  *breadcrumb.Stack
	alerter *alerts.Alerter
	logger  *slog.Logger
	uid     string

	chatsAndFolders []models.TreeItem
	sortType        sorting.SortType
	activeFolder    *models.TreeItem
	activeChat      *models.TreeItem

	archivedMattersView bool
	loading             bool
	matterFilesOpen     bool
	matterSettingsOpen  bool

	// chatGeneration increments whenever the active chat changes, so a name
	// generated for an earlier chat is never applied to the current one.
	chatGeneration uint64

	fetch *debouncer
}

// NewStore creates an empty store rooted at the top of the tree.
func NewStore(cfg Config) *Store {
	delay := cfg.FetchDelay
	if delay <= 0 {
		delay = defaultFetchDelay
	}

	return &Store{
		api:      cfg.API,
		crumbs:   cfg.Crumbs,
		alerter:  cfg.Alerter,
		logger:   cfg.Logger,
		uid:      cfg.UID,
		sortType: sorting.ByDate,
		fetch:    newDebouncer(delay),
	}
}

// FetchChatList schedules a debounced refresh of the current listing. Rapid
// navigation collapses into a single server round trip.
func (s *Store) FetchChatList(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	s.fetch.trigger(func() { s.doFetch(ctx) })
}

func (s *Store) doFetch(ctx context.Context) {
	s.mu.Lock()
	opts := ListOptions{
		SortType:            s.sortType,
		OnlyArchivedMatters: s.archivedMattersView,
	}
	if s.activeFolder != nil {
		id := s.activeFolder.TreeItemID
		opts.ParentID = &id
	}
	s.mu.Unlock()

	items, err := s.api.List(ctx, opts)
	if err != nil {
		s.logger.Error("failed to fetch chats and folders", "uid", s.uid, "error", err)
		items = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if items == nil {
		items = []models.TreeItem{}
	}
	s.chatsAndFolders = items
	s.loading = false
}

// SetSortType changes the listing order and refreshes.
func (s *Store) SetSortType(ctx context.Context, sortType sorting.SortType) {
	s.mu.Lock()
	s.sortType = sortType
	s.mu.Unlock()

	s.FetchChatList(ctx)
}

// SetActiveFolder navigates into a folder, or back out when folder is nil.
// Leaving a folder also closes its files and settings panels.
func (s *Store) SetActiveFolder(ctx context.Context, folder *models.TreeItem) {
	s.mu.Lock()
	previous := s.activeFolder
	s.activeFolder = folder
	if folder == nil {
		s.matterFilesOpen = false
		s.matterSettingsOpen = false
	}
	s.mu.Unlock()

	if previous != nil && (folder == nil || folder.TreeItemID != previous.TreeItemID) {
		s.crumbs.Remove(previous.TreeItemID)
	}
	if folder == nil {
		// The panel crumbs mirror the sub-view flags cleared above.
		s.crumbs.Remove(crumbMatterFiles)
		s.crumbs.Remove(crumbMatterSettings)
	} else {
		s.crumbs.Add(breadcrumb.Entry{
			Label:  folder.Name,
			Icon:   "folder",
			TestID: folder.TreeItemID,
		})
	}

	s.FetchChatList(ctx)
}

// SetActiveChat selects a chat, or deselects when chat is nil. Changing the
// selection invalidates any pending generated name for the previous chat.
func (s *Store) SetActiveChat(chat *models.TreeItem) {
	s.mu.Lock()
	previous := s.activeChat
	s.activeChat = chat
	s.chatGeneration++
	if chat != nil {
		s.matterFilesOpen = false
		s.matterSettingsOpen = false
	}
	s.mu.Unlock()

	if previous != nil && (chat == nil || chat.TreeItemID != previous.TreeItemID) {
		s.crumbs.Remove(previous.TreeItemID)
	}
	if chat != nil {
		s.crumbs.Remove(crumbMatterFiles)
		s.crumbs.Remove(crumbMatterSettings)
		s.crumbs.Add(breadcrumb.Entry{
			Label:  chat.Name,
			Icon:   "chat",
			TestID: chat.TreeItemID,
		})
	}
}

// CreateChat starts a new chat under the given parent, makes it active and
// kicks off background name generation from the opening message.
func (s *Store) CreateChat(ctx context.Context, firstMessage string, parentID *string) (*models.TreeItem, error) {
	chat, err := s.api.CreateChat(ctx, parentID)
	if err != nil {
		s.logger.Error("failed to create chat", "error", err)
		s.alerter.Error("chat_create_failed")
		return nil, err
	}

	s.SetActiveChat(chat)

	s.mu.Lock()
	generation := s.chatGeneration
	s.mu.Unlock()

	if firstMessage != "" {
		go s.resolveGeneratedName(ctx, chat.TreeItemID, generation, firstMessage)
	}

	s.FetchChatList(ctx)
	s.alerter.Success("chat_created")
	return chat, nil
}

// resolveGeneratedName asks the server for a chat title and applies it only
// if the same chat is still active and nothing changed the selection since
// the request started.
func (s *Store) resolveGeneratedName(ctx context.Context, chatID string, generation uint64, firstMessage string) {
	history := []chatbackend.Message{{Role: "user", Content: firstMessage}}

	name, err := s.api.GenerateChatName(ctx, chatID, history)
	if err != nil {
		s.logger.Warn("failed to generate chat name", "chatId", chatID, "error", err)
		return
	}

	s.mu.Lock()
	stale := s.chatGeneration != generation ||
		s.activeChat == nil || s.activeChat.TreeItemID != chatID
	s.mu.Unlock()
	if stale {
		return
	}

	if err := s.api.RenameChat(ctx, chatID, name); err != nil {
		s.logger.Warn("failed to persist generated chat name", "chatId", chatID, "error", err)
		return
	}

	s.mu.Lock()
	if s.chatGeneration == generation && s.activeChat != nil && s.activeChat.TreeItemID == chatID {
		s.activeChat.Name = name
	}
	s.mu.Unlock()

	s.crumbs.Update(chatID, name)
	s.FetchChatList(ctx)
}

// UpdateChatName renames a chat and syncs the selection and breadcrumb.
func (s *Store) UpdateChatName(ctx context.Context, chatID, name string) error {
	if err := s.api.RenameChat(ctx, chatID, name); err != nil {
		s.logger.Error("failed to rename chat", "chatId", chatID, "error", err)
		s.alerter.Error("chat_rename_failed")
		return err
	}

	s.mu.Lock()
	if s.activeChat != nil && s.activeChat.TreeItemID == chatID {
		s.activeChat.Name = name
	}
	s.mu.Unlock()

	s.crumbs.Update(chatID, name)
	s.FetchChatList(ctx)
	s.alerter.Success("chat_renamed")
	return nil
}

// DeleteChat removes a chat. Deleting the active chat clears the selection.
func (s *Store) DeleteChat(ctx context.Context, chatID string) error {
	if err := s.api.DeleteChat(ctx, chatID); err != nil {
		s.logger.Error("failed to delete chat", "chatId", chatID, "error", err)
		s.alerter.Error("chat_delete_failed")
		return err
	}

	s.mu.Lock()
	active := s.activeChat != nil && s.activeChat.TreeItemID == chatID
	s.mu.Unlock()
	if active {
		s.SetActiveChat(nil)
	}

	s.FetchChatList(ctx)
	s.alerter.Success("chat_deleted")
	return nil
}

// CreateFolder creates a new matter folder and refreshes the listing.
func (s *Store) CreateFolder(ctx context.Context, draft FolderDraft) (*models.TreeItem, error) {
	folder, err := s.api.CreateFolder(ctx, draft)
	if err != nil {
		s.logger.Error("failed to create folder", "error", err)
		s.alerter.Error("folder_create_failed")
		return nil, err
	}

	s.FetchChatList(ctx)
	s.alerter.Success("folder_created")
	return folder, nil
}

// UpdateFolder applies a partial update and syncs the open folder view.
func (s *Store) UpdateFolder(ctx context.Context, folderID string, patch FolderPatch) (*models.TreeItem, error) {
	folder, err := s.api.UpdateFolder(ctx, folderID, patch)
	if err != nil {
		s.logger.Error("failed to update folder", "folderId", folderID, "error", err)
		s.alerter.Error("folder_update_failed")
		return nil, err
	}

	s.mu.Lock()
	if s.activeFolder != nil && s.activeFolder.TreeItemID == folderID {
		s.activeFolder = folder
	}
	s.mu.Unlock()

	s.crumbs.Update(folderID, folder.Name)
	s.FetchChatList(ctx)
	s.alerter.Success("folder_updated")
	return folder, nil
}

// DeleteFolder removes a matter and everything inside it. Deleting the open
// folder navigates back to the root.
func (s *Store) DeleteFolder(ctx context.Context, folderID string) error {
	if err := s.api.DeleteFolder(ctx, folderID); err != nil {
		s.logger.Error("failed to delete folder", "folderId", folderID, "error", err)
		s.alerter.Error("folder_delete_failed")
		return err
	}

	s.mu.Lock()
	open := s.activeFolder != nil && s.activeFolder.TreeItemID == folderID
	s.mu.Unlock()
	if open {
		s.SetActiveFolder(ctx, nil)
	} else {
		s.FetchChatList(ctx)
	}

	s.alerter.Success("folder_deleted")
	return nil
}

// ArchiveFolder moves a matter into the archive.
func (s *Store) ArchiveFolder(ctx context.Context, folderID string) error {
	archived := true
	_, err := s.api.UpdateFolder(ctx, folderID, FolderPatch{IsArchived: &archived})
	if err != nil {
		s.logger.Error("failed to archive folder", "folderId", folderID, "error", err)
		s.alerter.Error("folder_archive_failed")
		return err
	}

	s.mu.Lock()
	open := s.activeFolder != nil && s.activeFolder.TreeItemID == folderID
	s.mu.Unlock()
	if open {
		s.SetActiveFolder(ctx, nil)
	} else {
		s.FetchChatList(ctx)
	}

	s.alerter.Success("folder_archived")
	return nil
}

// UnarchiveFolder restores a matter from the archive.
func (s *Store) UnarchiveFolder(ctx context.Context, folderID string) error {
	archived := false
	folder, err := s.api.UpdateFolder(ctx, folderID, FolderPatch{IsArchived: &archived})
	if err != nil {
		s.logger.Error("failed to unarchive folder", "folderId", folderID, "error", err)
		s.alerter.Error("folder_unarchive_failed")
		return err
	}

	s.mu.Lock()
	if s.activeFolder != nil && s.activeFolder.TreeItemID == folderID {
		s.activeFolder = folder
	}
	s.mu.Unlock()

	s.FetchChatList(ctx)
	s.alerter.Success("folder_unarchived")
	return nil
}

// ToggleArchivedMattersView flips between the live tree and the archive.
func (s *Store) ToggleArchivedMattersView(ctx context.Context) {
	s.mu.Lock()
	s.archivedMattersView = !s.archivedMattersView
	showing := s.archivedMattersView
	s.mu.Unlock()

	if showing {
		s.crumbs.Add(breadcrumb.Entry{
			Label:  "Archived Matters",
			Icon:   "archive",
			TestID: crumbArchivedMatters,
		})
	} else {
		s.crumbs.Remove(crumbArchivedMatters)
	}

	s.FetchChatList(ctx)
}

// OpenMatterFiles shows the file panel for the open matter.
func (s *Store) OpenMatterFiles() {
	s.mu.Lock()
	if s.activeFolder == nil {
		s.mu.Unlock()
		return
	}
	s.matterFilesOpen = true
	s.matterSettingsOpen = false
	s.mu.Unlock()

	s.crumbs.Remove(crumbMatterSettings)
	s.crumbs.Add(breadcrumb.Entry{Label: "Files", Icon: "files", TestID: crumbMatterFiles})
}

// OpenMatterSettings shows the settings panel for the open matter.
func (s *Store) OpenMatterSettings() {
	s.mu.Lock()
	if s.activeFolder == nil {
		s.mu.Unlock()
		return
	}
	s.matterSettingsOpen = true
	s.matterFilesOpen = false
	s.mu.Unlock()

	s.crumbs.Remove(crumbMatterFiles)
	s.crumbs.Add(breadcrumb.Entry{Label: "Settings", Icon: "settings", TestID: crumbMatterSettings})
}

// Items returns the current listing.
func (s *Store) Items() []models.TreeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.chatsAndFolders)
}

// Loading reports whether a refresh is pending or in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ActiveChat returns a snapshot of the selected chat, or nil.
func (s *Store) ActiveChat() *models.TreeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeChat == nil {
		return nil
	}
	chat := *s.activeChat
	return &chat
}

// ActiveFolder returns a snapshot of the open folder, or nil for the root.
func (s *Store) ActiveFolder() *models.TreeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeFolder == nil {
		return nil
	}
	folder := *s.activeFolder
	return &folder
}

// ArchivedMattersView reports whether the archive is showing.
func (s *Store) ArchivedMattersView() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.archivedMattersView
}

// SortType returns the current listing order.
func (s *Store) SortType() sorting.SortType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortType
}

// Reset clears all view state on logout.
func (s *Store) Reset() {
	s.fetch.stop()

	s.mu.Lock()
	s.chatsAndFolders = nil
	s.activeFolder = nil
	s.activeChat = nil
	s.archivedMattersView = false
	s.loading = false
	s.matterFilesOpen = false
	s.matterSettingsOpen = false
	s.sortType = sorting.ByDate
	s.chatGeneration++
	s.mu.Unlock()

	s.crumbs.Reset()
}

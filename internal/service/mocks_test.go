package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"matterdesk/internal/chatbackend"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errBoom = errors.New("boom")

// mockChatRepo implements repositories.ChatRepository with overridable
// function fields. Unset fields succeed with zero values.
type mockChatRepo struct {
	insertFn func(ctx context.Context, chat *models.TreeItem) error
	findFn   func(ctx context.Context, filter repositories.ChatFilter) ([]models.TreeItem, error)
	updateFn func(ctx context.Context, uid, id string, upd repositories.ChatUpdate) (int64, error)
	deleteFn func(ctx context.Context, uid, id string) (int64, error)

	deleted []string
}

func (m *mockChatRepo) Insert(ctx context.Context, chat *models.TreeItem) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, chat)
	}
	return nil
}

func (m *mockChatRepo) Find(ctx context.Context, filter repositories.ChatFilter) ([]models.TreeItem, error) {
	if m.findFn != nil {
		return m.findFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockChatRepo) Update(ctx context.Context, uid, id string, upd repositories.ChatUpdate) (int64, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, uid, id, upd)
	}
	return 1, nil
}

func (m *mockChatRepo) Delete(ctx context.Context, uid, id string) (int64, error) {
	m.deleted = append(m.deleted, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, uid, id)
	}
	return 1, nil
}

// mockFolderRepo implements repositories.FolderRepository.
type mockFolderRepo struct {
	insertFn  func(ctx context.Context, folder *models.TreeItem) error
	findFn    func(ctx context.Context, filter repositories.FolderFilter) ([]models.TreeItem, error)
	getByIDFn func(ctx context.Context, uid, id string) (*models.TreeItem, error)
	updateFn  func(ctx context.Context, uid, id string, upd repositories.FolderUpdate) (int64, error)
	deleteFn  func(ctx context.Context, uid, id string) (int64, error)

	inserted []*models.TreeItem
	deleted  []string
}

func (m *mockFolderRepo) Insert(ctx context.Context, folder *models.TreeItem) error {
	if m.insertFn != nil {
		if err := m.insertFn(ctx, folder); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, folder)
	return nil
}

func (m *mockFolderRepo) Find(ctx context.Context, filter repositories.FolderFilter) ([]models.TreeItem, error) {
	if m.findFn != nil {
		return m.findFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockFolderRepo) GetByID(ctx context.Context, uid, id string) (*models.TreeItem, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, uid, id)
	}
	return &models.TreeItem{TreeItemID: id, UID: uid, Type: models.TypeFolder}, nil
}

func (m *mockFolderRepo) Update(ctx context.Context, uid, id string, upd repositories.FolderUpdate) (int64, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, uid, id, upd)
	}
	return 1, nil
}

func (m *mockFolderRepo) Delete(ctx context.Context, uid, id string) (int64, error) {
	m.deleted = append(m.deleted, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, uid, id)
	}
	return 1, nil
}

// mockFilestore implements filestore.Client.
type mockFilestore struct {
	createFn func(ctx context.Context) (string, error)
	deleteFn func(ctx context.Context, collectionID string) error

	created int
	deleted []string
}

func (m *mockFilestore) CreateCollection(ctx context.Context) (string, error) {
	m.created++
	if m.createFn != nil {
		return m.createFn(ctx)
	}
	return "collection-1", nil
}

func (m *mockFilestore) DeleteCollection(ctx context.Context, collectionID string) error {
	m.deleted = append(m.deleted, collectionID)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, collectionID)
	}
	return nil
}

// mockBackend implements chatbackend.Client.
type mockBackend struct {
	createFn   func(ctx context.Context, uid string, parentID *string) (*models.TreeItem, error)
	deleteFn   func(ctx context.Context, chatID string) error
	renameFn   func(ctx context.Context, chatID, name string) error
	generateFn func(ctx context.Context, chatID string, history []chatbackend.Message) (string, error)
	listFn     func(ctx context.Context, uid string) ([]models.TreeItem, error)
}

func (m *mockBackend) CreateChat(ctx context.Context, uid string, parentID *string) (*models.TreeItem, error) {
	if m.createFn != nil {
		return m.createFn(ctx, uid, parentID)
	}
	return &models.TreeItem{TreeItemID: "chat-1", UID: uid, Type: models.TypeChat, ParentID: parentID}, nil
}

func (m *mockBackend) DeleteChat(ctx context.Context, chatID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, chatID)
	}
	return nil
}

func (m *mockBackend) RenameChat(ctx context.Context, chatID, name string) error {
	if m.renameFn != nil {
		return m.renameFn(ctx, chatID, name)
	}
	return nil
}

func (m *mockBackend) GenerateName(ctx context.Context, chatID string, history []chatbackend.Message) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, chatID, history)
	}
	return "Generated Name", nil
}

func (m *mockBackend) ListChats(ctx context.Context, uid string) ([]models.TreeItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, uid)
	}
	return nil, nil
}

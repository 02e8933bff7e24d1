package service

import (
	"context"
	"testing"
	"time"

	"matterdesk/internal/domain"
	"matterdesk/internal/domain/models"
	"matterdesk/internal/domain/repositories"
	"matterdesk/internal/sorting"
)

func TestGetChatsAndFoldersMergesAndSortsByDate(t *testing.T) {
	chats := &mockChatRepo{
		findFn: func(ctx context.Context, filter repositories.ChatFilter) ([]models.TreeItem, error) {
			return []models.TreeItem{
				{TreeItemID: "chat-old", Name: "old chat", Type: models.TypeChat, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	folders := &mockFolderRepo{
		findFn: func(ctx context.Context, filter repositories.FolderFilter) ([]models.TreeItem, error) {
			return []models.TreeItem{
				{TreeItemID: "folder-new", Name: "new matter", Type: models.TypeFolder, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	svc := NewListService(chats, folders, testLogger())

	items, err := svc.GetChatsAndFolders(context.Background(), ListQuery{UID: "user-1", SortType: sorting.ByDate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].TreeItemID != "folder-new" {
		t.Errorf("expected newest item first, got %q", items[0].TreeItemID)
	}
}

func TestGetChatsAndFoldersTopLevelArchivedSkipsChats(t *testing.T) {
	chatCalls := 0
	chats := &mockChatRepo{
		findFn: func(ctx context.Context, filter repositories.ChatFilter) ([]models.TreeItem, error) {
			chatCalls++
			return []models.TreeItem{{TreeItemID: "loose-chat", Type: models.TypeChat}}, nil
		},
	}
	folders := &mockFolderRepo{
		findFn: func(ctx context.Context, filter repositories.FolderFilter) ([]models.TreeItem, error) {
			if !filter.OnlyArchived {
				t.Error("expected archived-only folder filter")
			}
			return []models.TreeItem{{TreeItemID: "archived-matter", Type: models.TypeFolder}}, nil
		},
	}
	svc := NewListService(chats, folders, testLogger())

	items, err := svc.GetChatsAndFolders(context.Background(), ListQuery{
		UID:                 "user-1",
		OnlyArchivedMatters: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chatCalls != 0 {
		t.Error("loose chats must not be queried in the top-level archived view")
	}
	if len(items) != 1 || items[0].TreeItemID != "archived-matter" {
		t.Fatalf("expected only the archived matter, got %+v", items)
	}
}

func TestGetChatsAndFoldersArchivedSubListKeepsChats(t *testing.T) {
	parent := "archived-matter"
	chats := &mockChatRepo{
		findFn: func(ctx context.Context, filter repositories.ChatFilter) ([]models.TreeItem, error) {
			if filter.ParentID == nil || *filter.ParentID != parent {
				t.Errorf("expected chat lookup scoped to %q, got %v", parent, filter.ParentID)
			}
			return []models.TreeItem{{TreeItemID: "child-chat", Type: models.TypeChat}}, nil
		},
	}
	folders := &mockFolderRepo{
		findFn: func(ctx context.Context, filter repositories.FolderFilter) ([]models.TreeItem, error) {
			return nil, nil
		},
	}
	svc := NewListService(chats, folders, testLogger())

	items, err := svc.GetChatsAndFolders(context.Background(), ListQuery{
		UID:                 "user-1",
		ParentID:            &parent,
		OnlyArchivedMatters: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].TreeItemID != "child-chat" {
		t.Fatalf("expected the child chat inside an archived matter, got %+v", items)
	}
}

func TestGetChatsAndFoldersByTypeKeepsConcatOrder(t *testing.T) {
	chats := &mockChatRepo{
		findFn: func(ctx context.Context, filter repositories.ChatFilter) ([]models.TreeItem, error) {
			return []models.TreeItem{{TreeItemID: "chat-1", Name: "zzz", Type: models.TypeChat}}, nil
		},
	}
	folders := &mockFolderRepo{
		findFn: func(ctx context.Context, filter repositories.FolderFilter) ([]models.TreeItem, error) {
			return []models.TreeItem{{TreeItemID: "folder-1", Name: "aaa", Type: models.TypeFolder}}, nil
		},
	}
	svc := NewListService(chats, folders, testLogger())

	items, err := svc.GetChatsAndFolders(context.Background(), ListQuery{UID: "user-1", SortType: sorting.ByType})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Chats-then-folders concatenation is returned as-is for by_type.
	if items[0].TreeItemID != "chat-1" || items[1].TreeItemID != "folder-1" {
		t.Errorf("expected concatenation order preserved, got %q then %q", items[0].TreeItemID, items[1].TreeItemID)
	}
}

func TestGetChatsAndFoldersRepoFailure(t *testing.T) {
	chats := &mockChatRepo{
		findFn: func(ctx context.Context, filter repositories.ChatFilter) ([]models.TreeItem, error) {
			return nil, errBoom
		},
	}
	svc := NewListService(chats, &mockFolderRepo{}, testLogger())

	_, err := svc.GetChatsAndFolders(context.Background(), ListQuery{UID: "user-1"})
	assertCode(t, err, domain.CodeDatabase)
}

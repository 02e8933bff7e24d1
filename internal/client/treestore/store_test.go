package treestore

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matterdesk/internal/chatbackend"
	"matterdesk/internal/client/alerts"
	"matterdesk/internal/client/breadcrumb"
	"matterdesk/internal/domain/models"
)

// fakeAPI implements API with overridable function fields and call counters.
type fakeAPI struct {
	mu sync.Mutex

	listCalls   int
	renameCalls []string

	listFn     func(ctx context.Context, opts ListOptions) ([]models.TreeItem, error)
	createChat func(ctx context.Context, parentID *string) (*models.TreeItem, error)
	generateFn func(ctx context.Context, id string, history []chatbackend.Message) (string, error)
	updateFn   func(ctx context.Context, id string, patch FolderPatch) (*models.TreeItem, error)
}

func (f *fakeAPI) List(ctx context.Context, opts ListOptions) ([]models.TreeItem, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	if f.listFn != nil {
		return f.listFn(ctx, opts)
	}
	return nil, nil
}

func (f *fakeAPI) CreateFolder(ctx context.Context, draft FolderDraft) (*models.TreeItem, error) {
	return &models.TreeItem{TreeItemID: "folder-1", Name: draft.Name, Type: models.TypeFolder}, nil
}

func (f *fakeAPI) UpdateFolder(ctx context.Context, id string, patch FolderPatch) (*models.TreeItem, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, patch)
	}
	return &models.TreeItem{TreeItemID: id, Type: models.TypeFolder}, nil
}

func (f *fakeAPI) DeleteFolder(ctx context.Context, id string) error { return nil }

func (f *fakeAPI) CreateChat(ctx context.Context, parentID *string) (*models.TreeItem, error) {
	if f.createChat != nil {
		return f.createChat(ctx, parentID)
	}
	return &models.TreeItem{TreeItemID: "chat-1", Name: "New Chat", Type: models.TypeChat, ParentID: parentID}, nil
}

func (f *fakeAPI) DeleteChat(ctx context.Context, id string) error { return nil }

func (f *fakeAPI) RenameChat(ctx context.Context, id, name string) error {
	f.mu.Lock()
	f.renameCalls = append(f.renameCalls, name)
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) GenerateChatName(ctx context.Context, id string, history []chatbackend.Message) (string, error) {
	if f.generateFn != nil {
		return f.generateFn(ctx, id, history)
	}
	return "Generated Name", nil
}

func (f *fakeAPI) renamed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.renameCalls))
	copy(out, f.renameCalls)
	return out
}

func (f *fakeAPI) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func newTestStore(t *testing.T, api API) *Store {
	t.Helper()

	catalog, err := alerts.NewCatalog("en")
	require.NoError(t, err)

	return NewStore(Config{
		API:        api,
		Crumbs:     breadcrumb.NewStack(breadcrumb.Entry{Label: "Home", TestID: "root"}),
		Alerter:    alerts.NewAlerter(catalog, alerts.NotifierFunc(func(alerts.Alert) {})),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		UID:        "user-1",
		FetchDelay: 20 * time.Millisecond,
	})
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestFetchChatListDebounces(t *testing.T) {
	api := &fakeAPI{
		listFn: func(ctx context.Context, opts ListOptions) ([]models.TreeItem, error) {
			return []models.TreeItem{{TreeItemID: "chat-1", Type: models.TypeChat}}, nil
		},
	}
	store := newTestStore(t, api)

	for range 5 {
		store.FetchChatList(context.Background())
	}
	assert.True(t, store.Loading(), "loading flag must be set while the fetch is pending")

	waitFor(t, func() bool { return !store.Loading() }, "fetch never completed")

	assert.Equal(t, 1, api.listCount(), "burst of refreshes must coalesce into one request")
	assert.Len(t, store.Items(), 1)
}

func TestFetchChatListFailureYieldsEmptyList(t *testing.T) {
	api := &fakeAPI{
		listFn: func(ctx context.Context, opts ListOptions) ([]models.TreeItem, error) {
			return nil, assert.AnError
		},
	}
	store := newTestStore(t, api)

	store.FetchChatList(context.Background())
	waitFor(t, func() bool { return !store.Loading() }, "fetch never completed")

	assert.NotNil(t, store.Items())
	assert.Empty(t, store.Items())
}

func TestSetActiveFolderManagesBreadcrumbs(t *testing.T) {
	api := &fakeAPI{}
	store := newTestStore(t, api)

	folder := &models.TreeItem{TreeItemID: "folder-1", Name: "Smith v. Jones", Type: models.TypeFolder}
	store.SetActiveFolder(context.Background(), folder)

	require.NotNil(t, store.ActiveFolder())
	assert.True(t, store.crumbs.Contains("folder-1"))

	store.SetActiveFolder(context.Background(), nil)
	assert.Nil(t, store.ActiveFolder())
	assert.False(t, store.crumbs.Contains("folder-1"))
}

func TestFetchScopedToActiveFolder(t *testing.T) {
	var gotParent *string
	api := &fakeAPI{
		listFn: func(ctx context.Context, opts ListOptions) ([]models.TreeItem, error) {
			gotParent = opts.ParentID
			return nil, nil
		},
	}
	store := newTestStore(t, api)

	folder := &models.TreeItem{TreeItemID: "folder-1", Name: "Smith v. Jones", Type: models.TypeFolder}
	store.SetActiveFolder(context.Background(), folder)
	waitFor(t, func() bool { return !store.Loading() }, "fetch never completed")

	require.NotNil(t, gotParent)
	assert.Equal(t, "folder-1", *gotParent)
}

func TestGeneratedNameAppliedToStillActiveChat(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{
		generateFn: func(ctx context.Context, id string, history []chatbackend.Message) (string, error) {
			<-release
			return "Discovery plan", nil
		},
	}
	store := newTestStore(t, api)

	chat, err := store.CreateChat(context.Background(), "let's plan discovery", nil)
	require.NoError(t, err)
	require.NotNil(t, chat)

	close(release)
	waitFor(t, func() bool { return len(api.renamed()) == 1 }, "generated name never persisted")

	waitFor(t, func() bool {
		active := store.ActiveChat()
		return active != nil && active.Name == "Discovery plan"
	}, "generated name never applied to the active chat")
	assert.Equal(t, []string{"Discovery plan"}, api.renamed())
}

func TestGeneratedNameDiscardedWhenSelectionChanged(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{
		generateFn: func(ctx context.Context, id string, history []chatbackend.Message) (string, error) {
			close(started)
			<-release
			return "Stale name", nil
		},
	}
	store := newTestStore(t, api)

	_, err := store.CreateChat(context.Background(), "first message", nil)
	require.NoError(t, err)
	<-started

	// The user switches chats while the name is still being generated.
	other := &models.TreeItem{TreeItemID: "chat-other", Name: "Other", Type: models.TypeChat}
	store.SetActiveChat(other)

	close(release)
	time.Sleep(100 * time.Millisecond)

	assert.Empty(t, api.renamed(), "a stale generated name must never be persisted")
	assert.Equal(t, "Other", store.ActiveChat().Name)
}

func TestUpdateChatNameSyncsSelection(t *testing.T) {
	api := &fakeAPI{}
	store := newTestStore(t, api)

	chat := &models.TreeItem{TreeItemID: "chat-1", Name: "New Chat", Type: models.TypeChat}
	store.SetActiveChat(chat)

	require.NoError(t, store.UpdateChatName(context.Background(), "chat-1", "Renamed"))

	assert.Equal(t, "Renamed", store.ActiveChat().Name)
	assert.Equal(t, []string{"Renamed"}, api.renamed())
}

func TestDeleteChatClearsActiveSelection(t *testing.T) {
	api := &fakeAPI{}
	store := newTestStore(t, api)

	chat := &models.TreeItem{TreeItemID: "chat-1", Name: "New Chat", Type: models.TypeChat}
	store.SetActiveChat(chat)

	require.NoError(t, store.DeleteChat(context.Background(), "chat-1"))

	assert.Nil(t, store.ActiveChat())
	assert.False(t, store.crumbs.Contains("chat-1"))
}

func TestToggleArchivedMattersView(t *testing.T) {
	var gotArchived bool
	api := &fakeAPI{
		listFn: func(ctx context.Context, opts ListOptions) ([]models.TreeItem, error) {
			gotArchived = opts.OnlyArchivedMatters
			return nil, nil
		},
	}
	store := newTestStore(t, api)

	store.ToggleArchivedMattersView(context.Background())
	assert.True(t, store.ArchivedMattersView())
	assert.True(t, store.crumbs.Contains("archived-matters"))

	waitFor(t, func() bool { return !store.Loading() }, "fetch never completed")
	assert.True(t, gotArchived)

	store.ToggleArchivedMattersView(context.Background())
	assert.False(t, store.ArchivedMattersView())
	assert.False(t, store.crumbs.Contains("archived-matters"))
}

func TestArchiveFolderClosesOpenFolder(t *testing.T) {
	var gotPatch FolderPatch
	api := &fakeAPI{
		updateFn: func(ctx context.Context, id string, patch FolderPatch) (*models.TreeItem, error) {
			gotPatch = patch
			return &models.TreeItem{TreeItemID: id, Type: models.TypeFolder}, nil
		},
	}
	store := newTestStore(t, api)

	folder := &models.TreeItem{TreeItemID: "folder-1", Name: "Smith v. Jones", Type: models.TypeFolder}
	store.SetActiveFolder(context.Background(), folder)

	require.NoError(t, store.ArchiveFolder(context.Background(), "folder-1"))

	require.NotNil(t, gotPatch.IsArchived)
	assert.True(t, *gotPatch.IsArchived)
	assert.Nil(t, store.ActiveFolder(), "archiving the open matter must navigate back out")
}

func TestMatterPanelsAreExclusive(t *testing.T) {
	store := newTestStore(t, &fakeAPI{})

	// Panels require an open matter.
	store.OpenMatterFiles()
	assert.False(t, store.crumbs.Contains("matter-files"))

	folder := &models.TreeItem{TreeItemID: "folder-1", Name: "Smith v. Jones", Type: models.TypeFolder}
	store.SetActiveFolder(context.Background(), folder)

	store.OpenMatterFiles()
	assert.True(t, store.crumbs.Contains("matter-files"))

	store.OpenMatterSettings()
	assert.True(t, store.crumbs.Contains("matter-settings"))
	assert.False(t, store.crumbs.Contains("matter-files"), "opening settings must close the files panel")
}

func TestLeavingFolderClosesPanelCrumbs(t *testing.T) {
	store := newTestStore(t, &fakeAPI{})

	folder := &models.TreeItem{TreeItemID: "folder-1", Name: "Smith v. Jones", Type: models.TypeFolder}
	store.SetActiveFolder(context.Background(), folder)
	store.OpenMatterFiles()
	require.True(t, store.crumbs.Contains("matter-files"))

	store.SetActiveFolder(context.Background(), nil)

	assert.False(t, store.crumbs.Contains("matter-files"), "leaving the matter must drop its panel crumb")
	assert.False(t, store.crumbs.Contains("matter-settings"))
}

func TestSelectingChatClosesPanelCrumbs(t *testing.T) {
	store := newTestStore(t, &fakeAPI{})

	folder := &models.TreeItem{TreeItemID: "folder-1", Name: "Smith v. Jones", Type: models.TypeFolder}
	store.SetActiveFolder(context.Background(), folder)
	store.OpenMatterSettings()
	require.True(t, store.crumbs.Contains("matter-settings"))

	chat := &models.TreeItem{TreeItemID: "chat-1", Name: "New Chat", Type: models.TypeChat}
	store.SetActiveChat(chat)

	assert.False(t, store.crumbs.Contains("matter-settings"), "opening a chat must drop the panel crumb")
	assert.True(t, store.crumbs.Contains("chat-1"))
}

func TestResetClearsEverything(t *testing.T) {
	store := newTestStore(t, &fakeAPI{})

	folder := &models.TreeItem{TreeItemID: "folder-1", Name: "Smith v. Jones", Type: models.TypeFolder}
	store.SetActiveFolder(context.Background(), folder)
	store.ToggleArchivedMattersView(context.Background())

	store.Reset()

	assert.Nil(t, store.ActiveFolder())
	assert.Nil(t, store.ActiveChat())
	assert.False(t, store.ArchivedMattersView())
	assert.Empty(t, store.Items())
	assert.Len(t, store.crumbs.Entries(), 1, "only the root crumb survives a reset")
}

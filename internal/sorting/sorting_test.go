package sorting

import (
	"testing"
	"time"

	"matterdesk/internal/domain/models"
)

func chatAt(name string, createdAt time.Time) models.TreeItem {
	return models.TreeItem{
		TreeItemID: name,
		Name:       name,
		Type:       models.TypeChat,
		CreatedAt:  createdAt,
	}
}

func folderAt(name string, createdAt time.Time) models.TreeItem {
	return models.TreeItem{
		TreeItemID: name,
		Name:       name,
		Type:       models.TypeFolder,
		CreatedAt:  createdAt,
	}
}

func names(items []models.TreeItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func assertOrder(t *testing.T, got []models.TreeItem, want []string) {
	t.Helper()
	gotNames := names(got)
	if len(gotNames) != len(want) {
		t.Fatalf("expected %d items, got %d (%v)", len(want), len(gotNames), gotNames)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q (full order %v)", i, want[i], gotNames[i], gotNames)
		}
	}
}

func TestParseSortType(t *testing.T) {
	tests := []struct {
		input string
		want  SortType
	}{
		{"by_date", ByDate},
		{"by_name", ByName},
		{"by_type", ByType},
		{"", ByDate},
		{"garbage", ByDate},
	}

	for _, tt := range tests {
		if got := ParseSortType(tt.input); got != tt.want {
			t.Errorf("ParseSortType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSortByDate(t *testing.T) {
	items := []models.TreeItem{
		chatAt("middle", time.Date(2024, 2, 23, 0, 0, 0, 0, time.UTC)),
		chatAt("newest", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		chatAt("oldest", time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC)),
	}

	sorted := SortByDate(items)
	assertOrder(t, sorted, []string{"newest", "middle", "oldest"})

	// Input must not be mutated.
	if items[0].Name != "middle" {
		t.Errorf("input slice was mutated: %v", names(items))
	}
}

func TestSortByDateMissingDatesSortOldest(t *testing.T) {
	items := []models.TreeItem{
		chatAt("undated", time.Time{}),
		chatAt("dated", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	sorted := SortByDate(items)
	assertOrder(t, sorted, []string{"dated", "undated"})
}

func TestSortByName(t *testing.T) {
	items := []models.TreeItem{
		chatAt("banana", time.Time{}),
		chatAt("Apple", time.Time{}),
		chatAt("cherry", time.Time{}),
	}

	sorted := SortByName(items)
	assertOrder(t, sorted, []string{"Apple", "banana", "cherry"})
}

func TestSortByTypeFoldersFirst(t *testing.T) {
	items := []models.TreeItem{
		chatAt("alpha chat", time.Time{}),
		folderAt("zulu matter", time.Time{}),
		chatAt("beta chat", time.Time{}),
		folderAt("Acme matter", time.Time{}),
	}

	sorted := SortByType(items)
	assertOrder(t, sorted, []string{"Acme matter", "zulu matter", "alpha chat", "beta chat"})
}

// Package sorting holds the pure ordering functions applied to mixed
// chat/folder collections. All functions return new slices; inputs are
// never mutated and ties keep their input order.
package sorting

import (
	"slices"
	"sort"
	"strings"

	"matterdesk/internal/domain/models"
)

// SortType selects the ordering applied to a listing.
type SortType string

const (
	ByDate SortType = "by_date"
	ByName SortType = "by_name"
	ByType SortType = "by_type"
)

// ParseSortType maps a client-supplied string to a SortType, defaulting to
// date ordering for unrecognized or absent values.
func ParseSortType(s string) SortType {
	switch SortType(s) {
	case ByName:
		return ByName
	case ByType:
		return ByType
	default:
		return ByDate
	}
}

// SortByDate orders items by descending createdAt. Missing dates (zero values)
// sort as the oldest. Ties are stable.
func SortByDate(items []models.TreeItem) []models.TreeItem {
	sorted := slices.Clone(items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// SortByName orders items by case-insensitive ascending name. Folders sort on
// name like everything else, never on matterId.
func SortByName(items []models.TreeItem) []models.TreeItem {
	sorted := slices.Clone(items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}

// SortByType orders folders before chats, then by case-insensitive name.
// This is the client-side type ordering; the list endpoint deliberately does
// not apply it (see service.ListService).
func SortByType(items []models.TreeItem) []models.TreeItem {
	sorted := slices.Clone(items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Type != sorted[j].Type {
			return sorted[i].Type == models.TypeFolder
		}
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}

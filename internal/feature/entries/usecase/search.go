package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"imagevault_backend/internal/feature/entries/domain/entity"
)

// SearchFilter describes a filtered view over a user's entries.
// Query matches case-insensitively as a substring against title,
// description, caption, file name, tags and notes. Category and Tag
// match as substrings of the serialized label string.
type SearchFilter struct {
	Username        string
	Query           string
	Category        string
	Tag             string
	FavoritesOnly   bool
	ExcludeArchived bool
}

// Sort orders applied client-side on top of the default
// most-recent-upload-first ordering.
const (
	SortRecent = "recent"
	SortTitle  = "title"
	SortSize   = "size"
)

// Search returns the entries matching the filter, re-sorted client-side
// when sortBy asks for title or size. A query execution fault yields an
// empty result set rather than an error, matching the store's local
// fault policy.
func (u *entriesUsecase) Search(ctx context.Context, f SearchFilter, sortBy string) []entity.Entry {
	out, err := u.entries.Search(ctx, f)
	if err != nil {
		slog.Error("entry search failed", "error", err, "username", f.Username)
		return []entity.Entry{}
	}
	SortEntries(out, sortBy)
	return out
}

// SortEntries re-sorts an already-fetched result set without re-querying:
// by title ascending, by file size descending, or left in the default
// recent-first order.
func SortEntries(entries []entity.Entry, sortBy string) {
	switch sortBy {
	case SortTitle:
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
		})
	case SortSize:
		sort.SliceStable(entries, func(i, j int) bool {
			return fileSize(&entries[i]) > fileSize(&entries[j])
		})
	}
}

func fileSize(e *entity.Entry) int64 {
	if e.FileSize == nil {
		return 0
	}
	return *e.FileSize
}

// ListDistinctLabels returns the distinct labels of one axis across a
// user's entries, trimmed, deduplicated and sorted ascending. The stored
// label strings are never rewritten to this canonical form.
func (u *entriesUsecase) ListDistinctLabels(ctx context.Context, username string, axis entity.LabelAxis) ([]string, error) {
	raw, err := u.entries.DistinctLabels(ctx, username, axis)
	if err != nil {
		slog.Error("failed to list labels", "error", err, "username", username, "axis", axis)
		return nil, ErrStore
	}
	return entity.DedupeLabels(raw), nil
}

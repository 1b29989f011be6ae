package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"imagevault_backend/internal/feature/entries/domain/entity"
	"imagevault_backend/internal/feature/entries/usecase"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&EntryModel{}))
	return db
}

func boolPtr(b bool) *bool { return &b }

func seedEntry(t *testing.T, repo *entryGorm, e entity.Entry) entity.Entry {
	t.Helper()
	if e.Username == "" {
		e.Username = "alice"
	}
	if e.UserID == 0 {
		e.UserID = 1
	}
	require.NoError(t, repo.Create(context.Background(), &e))
	return e
}

func TestEntryGormCreate(t *testing.T) {
	repo := NewEntryGorm(setupDB(t))
	ctx := context.Background()

	t.Run("fills in ID and upload time", func(t *testing.T) {
		e := entity.Entry{UserID: 1, Username: "alice", Title: "First"}
		require.NoError(t, repo.Create(ctx, &e))
		assert.NotZero(t, e.ID)
		assert.False(t, e.UploadedAt.IsZero())
	})

	t.Run("keeps an explicit upload time", func(t *testing.T) {
		at := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
		e := entity.Entry{UserID: 1, Username: "alice", UploadedAt: at}
		require.NoError(t, repo.Create(ctx, &e))

		got, err := repo.FindByID(ctx, e.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, at.Unix(), got.UploadedAt.Unix())
	})
}

func TestEntryGormFindByID(t *testing.T) {
	repo := NewEntryGorm(setupDB(t))
	ctx := context.Background()
	e := seedEntry(t, repo, entity.Entry{UserID: 1, Title: "Mine"})

	t.Run("found without ownership check", func(t *testing.T) {
		got, err := repo.FindByID(ctx, e.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "Mine", got.Title)
	})

	t.Run("found with matching owner", func(t *testing.T) {
		_, err := repo.FindByID(ctx, e.ID, 1)
		require.NoError(t, err)
	})

	t.Run("other owner sees not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, e.ID, 2)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 9999, 0)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestEntryGormListByUsername(t *testing.T) {
	repo := NewEntryGorm(setupDB(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedEntry(t, repo, entity.Entry{
			Title:      []string{"oldest", "middle", "newest"}[i],
			UploadedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	seedEntry(t, repo, entity.Entry{Username: "bob", UserID: 2, Title: "not mine"})

	t.Run("most recent upload first, scoped to the user", func(t *testing.T) {
		got, err := repo.ListByUsername(ctx, "alice", 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "newest", got[0].Title)
		assert.Equal(t, "oldest", got[2].Title)
	})

	t.Run("limit caps the result", func(t *testing.T) {
		got, err := repo.ListByUsername(ctx, "alice", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "newest", got[0].Title)
	})

	t.Run("unknown user yields empty list", func(t *testing.T) {
		got, err := repo.ListByUsername(ctx, "nobody", 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestEntryGormUpdate(t *testing.T) {
	repo := NewEntryGorm(setupDB(t))
	ctx := context.Background()
	e := seedEntry(t, repo, entity.Entry{UserID: 1, Title: "before"})

	t.Run("writes fields and reports a match", func(t *testing.T) {
		ok, err := repo.Update(ctx, e.ID, 1, map[string]any{
			"title":       "after",
			"is_favorite": true,
		})
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.FindByID(ctx, e.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "after", got.Title)
		assert.True(t, got.IsFavorite)
	})

	t.Run("ownership mismatch is a no-op", func(t *testing.T) {
		ok, err := repo.Update(ctx, e.ID, 2, map[string]any{"title": "hijacked"})
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.FindByID(ctx, e.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "after", got.Title)
	})

	t.Run("missing id reports no match", func(t *testing.T) {
		ok, err := repo.Update(ctx, 9999, 1, map[string]any{"title": "x"})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("refreshes the updated_at timestamp", func(t *testing.T) {
		before, err := repo.FindByID(ctx, e.ID, 0)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		ok, err := repo.Update(ctx, e.ID, 1, map[string]any{"notes": "touched"})
		require.NoError(t, err)
		require.True(t, ok)

		after, err := repo.FindByID(ctx, e.ID, 0)
		require.NoError(t, err)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})
}

func TestEntryGormDelete(t *testing.T) {
	repo := NewEntryGorm(setupDB(t))
	ctx := context.Background()

	t.Run("removes the row", func(t *testing.T) {
		e := seedEntry(t, repo, entity.Entry{UserID: 1})
		ok, err := repo.Delete(ctx, e.ID, 1)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = repo.FindByID(ctx, e.ID, 0)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("ownership mismatch is a no-op", func(t *testing.T) {
		e := seedEntry(t, repo, entity.Entry{UserID: 1})
		ok, err := repo.Delete(ctx, e.ID, 2)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repo.FindByID(ctx, e.ID, 0)
		require.NoError(t, err)
	})
}

func TestEntryGormSearch(t *testing.T) {
	repo := NewEntryGorm(setupDB(t))
	ctx := context.Background()

	seedEntry(t, repo, entity.Entry{
		Title: "Beach Sunset", Categories: "nature, travel", Tags: "sunset, sea",
		IsFavorite: true, IsArchived: boolPtr(false),
	})
	seedEntry(t, repo, entity.Entry{
		Title: "City at night", Notes: "taken near the beach hotel",
		Categories: "urban", IsArchived: boolPtr(false),
	})
	seedEntry(t, repo, entity.Entry{
		Title: "Old scan", Categories: "nature", IsArchived: nil,
	})
	seedEntry(t, repo, entity.Entry{
		Title: "Waterfall study", Description: "A long exposure of the river cascade at dawn",
		IsArchived: boolPtr(false),
	})
	seedEntry(t, repo, entity.Entry{
		Title: "Archived shot", Categories: "nature", IsArchived: boolPtr(true),
	})
	seedEntry(t, repo, entity.Entry{Username: "bob", UserID: 2, Title: "Beach but bobs"})

	search := func(t *testing.T, f usecase.SearchFilter) []entity.Entry {
		t.Helper()
		if f.Username == "" {
			f.Username = "alice"
		}
		got, err := repo.Search(ctx, f)
		require.NoError(t, err)
		return got
	}

	titles := func(entries []entity.Entry) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Title)
		}
		return out
	}

	t.Run("no filter returns all of the user's entries", func(t *testing.T) {
		assert.Len(t, search(t, usecase.SearchFilter{}), 5)
	})

	t.Run("query matches case-insensitively across fields", func(t *testing.T) {
		got := search(t, usecase.SearchFilter{Query: "BEACH"})
		assert.ElementsMatch(t, []string{"Beach Sunset", "City at night"}, titles(got))
	})

	t.Run("query matches notes", func(t *testing.T) {
		got := search(t, usecase.SearchFilter{Query: "hotel"})
		assert.Equal(t, []string{"City at night"}, titles(got))
	})

	t.Run("query matches descriptions case-insensitively", func(t *testing.T) {
		got := search(t, usecase.SearchFilter{Query: "CASCADE"})
		assert.Equal(t, []string{"Waterfall study"}, titles(got))
	})

	t.Run("category filter", func(t *testing.T) {
		got := search(t, usecase.SearchFilter{Category: "urban"})
		assert.Equal(t, []string{"City at night"}, titles(got))
	})

	t.Run("tag filter", func(t *testing.T) {
		got := search(t, usecase.SearchFilter{Tag: "sunset"})
		assert.Equal(t, []string{"Beach Sunset"}, titles(got))
	})

	t.Run("favorites only", func(t *testing.T) {
		got := search(t, usecase.SearchFilter{FavoritesOnly: true})
		assert.Equal(t, []string{"Beach Sunset"}, titles(got))
	})

	t.Run("exclude archived keeps NULL-flag rows", func(t *testing.T) {
		got := search(t, usecase.SearchFilter{ExcludeArchived: true})
		assert.ElementsMatch(t, []string{"Beach Sunset", "City at night", "Old scan", "Waterfall study"}, titles(got))
	})

	t.Run("combined filters intersect", func(t *testing.T) {
		got := search(t, usecase.SearchFilter{Query: "beach", Category: "nature", ExcludeArchived: true})
		assert.Equal(t, []string{"Beach Sunset"}, titles(got))
	})

	t.Run("never leaks another user's entries", func(t *testing.T) {
		got := search(t, usecase.SearchFilter{Query: "beach"})
		for _, e := range got {
			assert.Equal(t, "alice", e.Username)
		}
	})
}

func TestEntryGormDistinctLabels(t *testing.T) {
	repo := NewEntryGorm(setupDB(t))
	ctx := context.Background()

	seedEntry(t, repo, entity.Entry{Categories: "nature, travel", Tags: "sea"})
	seedEntry(t, repo, entity.Entry{Categories: "nature, travel", Tags: ""})
	seedEntry(t, repo, entity.Entry{Categories: "urban"})
	seedEntry(t, repo, entity.Entry{Username: "bob", UserID: 2, Categories: "bobs-only"})

	t.Run("returns the distinct raw strings, empties excluded", func(t *testing.T) {
		got, err := repo.DistinctLabels(ctx, "alice", entity.AxisCategories)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"nature, travel", "urban"}, got)
	})

	t.Run("tags axis", func(t *testing.T) {
		got, err := repo.DistinctLabels(ctx, "alice", entity.AxisTags)
		require.NoError(t, err)
		assert.Equal(t, []string{"sea"}, got)
	})
}

func TestEntryGormStats(t *testing.T) {
	repo := NewEntryGorm(setupDB(t))
	ctx := context.Background()

	t.Run("empty catalogue", func(t *testing.T) {
		stats, err := repo.Stats(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, stats.TotalEntries)
		assert.Zero(t, stats.TotalSizeBytes)
		assert.Nil(t, stats.LastUpload)
	})

	t.Run("aggregates count size and last upload", func(t *testing.T) {
		size1, size2 := int64(1000), int64(2500)
		last := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		seedEntry(t, repo, entity.Entry{FileSize: &size1, UploadedAt: last.Add(-time.Hour)})
		seedEntry(t, repo, entity.Entry{FileSize: &size2, UploadedAt: last})
		seedEntry(t, repo, entity.Entry{UploadedAt: last.Add(-2 * time.Hour)})

		stats, err := repo.Stats(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalEntries)
		assert.Equal(t, int64(3500), stats.TotalSizeBytes)
		require.NotNil(t, stats.LastUpload)
		assert.Equal(t, last.Unix(), stats.LastUpload.Unix())
	})
}

package usecase

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"imagevault_backend/internal/feature/entries/domain/entity"
)

// allowedPatchFields is the whitelist of entry columns an update may touch.
// Any other key in a patch is silently dropped.
var allowedPatchFields = map[string]struct{}{
	"title":         {},
	"description":   {},
	"image_caption": {},
	"link":          {},
	"link_summary":  {},
	"categories":    {},
	"tags":          {},
	"notes":         {},
	"is_favorite":   {},
	"is_archived":   {},
}

// EntryRepository abstracts persistence for entries.
// Following Go convention, the interface is defined by the consumer
// (usecase) rather than the provider (adapters).
type EntryRepository interface {
	// Create persists a new entry and fills in its ID.
	Create(ctx context.Context, e *entity.Entry) error

	// FindByID returns the entry with the given ID. When ownerID is
	// non-zero the entry must belong to that owner.
	FindByID(ctx context.Context, id, ownerID uint) (*entity.Entry, error)

	// ListByUsername returns a user's entries, most recent upload first,
	// capped at limit when limit > 0.
	ListByUsername(ctx context.Context, username string, limit int) ([]entity.Entry, error)

	// Update applies the given column values to an entry and refreshes
	// its updated_at timestamp. Returns false when no matching row exists.
	Update(ctx context.Context, id, ownerID uint, fields map[string]any) (bool, error)

	// Delete removes the entry row. Returns false when no matching row exists.
	Delete(ctx context.Context, id, ownerID uint) (bool, error)

	// Search returns entries matching the filter, most recent upload first.
	Search(ctx context.Context, f SearchFilter) ([]entity.Entry, error)

	// DistinctLabels returns the raw (still comma-joined) label strings
	// of one axis across a user's entries.
	DistinctLabels(ctx context.Context, username string, axis entity.LabelAxis) ([]string, error)

	// Stats aggregates a user's entry count, total bytes and last upload.
	Stats(ctx context.Context, username string) (*entity.UserStats, error)
}

// UserDirectory resolves usernames to user IDs.
type UserDirectory interface {
	FindIDByUsername(ctx context.Context, username string) (uint, error)
}

// FileStore abstracts storage of uploaded image files.
type FileStore interface {
	// Save writes the image under a collision-safe name for the owner and
	// returns the stored path and byte size.
	Save(ownerID uint, filename string, data []byte) (path string, size int64, err error)

	// Remove deletes a stored file.
	Remove(path string) error

	// Dimensions probes the pixel size of an encoded image.
	// ok is false when the format cannot be decoded.
	Dimensions(data []byte) (width, height int, ok bool)
}

// entriesUsecase implements the entry store and search operations.
type entriesUsecase struct {
	entries EntryRepository
	users   UserDirectory
	files   FileStore
}

// NewEntriesUsecase creates a new entriesUsecase.
func NewEntriesUsecase(entries EntryRepository, users UserDirectory, files FileStore) *entriesUsecase {
	return &entriesUsecase{entries: entries, users: users, files: files}
}

// CreateEntryInput carries the fields for a new entry. Categories and
// Tags may arrive as a collection or as already-joined text; the
// collection wins when both are set.
type CreateEntryInput struct {
	Username       string
	Title          string
	Description    string
	Caption        string
	Link           string
	LinkSummary    string
	Categories     []string
	CategoriesText string
	Tags           []string
	TagsText       string
	Notes          string
	IsFavorite     bool
	Filename       string
	Image          []byte
}

// serializeLabels joins a label collection, or passes already-serialized
// text through unchanged.
func serializeLabels(list []string, text string) string {
	if len(list) > 0 {
		return entity.JoinLabels(list)
	}
	return text
}

// defaultTitle derives a title from the file name (extension stripped),
// falling back to "Untitled" when there is no file name either.
func defaultTitle(filename string) string {
	if filename == "" {
		return "Untitled"
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// Create stores a new entry for the named owner, persisting the image
// bytes first when supplied. Pixel dimensions are probed best effort;
// a failed decode leaves them unset and is not an error.
func (u *entriesUsecase) Create(ctx context.Context, in CreateEntryInput) (uint, error) {
	ownerID, err := u.users.FindIDByUsername(ctx, in.Username)
	if err != nil {
		return 0, ErrOwnerNotFound
	}

	e := &entity.Entry{
		UserID:       ownerID,
		Username:     in.Username,
		Title:        in.Title,
		Filename:     in.Filename,
		Description:  in.Description,
		ImageCaption: in.Caption,
		Link:         in.Link,
		LinkSummary:  in.LinkSummary,
		Categories:   serializeLabels(in.Categories, in.CategoriesText),
		Tags:         serializeLabels(in.Tags, in.TagsText),
		Notes:        in.Notes,
		IsFavorite:   in.IsFavorite,
	}

	// New entries are never created archived.
	archived := false
	e.IsArchived = &archived

	if len(in.Image) > 0 {
		path, size, err := u.files.Save(ownerID, in.Filename, in.Image)
		if err != nil {
			slog.Error("failed to store uploaded image", "error", err, "username", in.Username)
			return 0, ErrStore
		}
		e.FilePath = path
		e.FileSize = &size
		if w, h, ok := u.files.Dimensions(in.Image); ok {
			e.ImageWidth = &w
			e.ImageHeight = &h
		}
	}

	if e.Title == "" {
		e.Title = defaultTitle(in.Filename)
	}

	if err := u.entries.Create(ctx, e); err != nil {
		slog.Error("failed to persist entry", "error", err, "username", in.Username)
		return 0, ErrStore
	}
	return e.ID, nil
}

// Update applies a partial patch to an entry. Only whitelisted fields are
// written; a patch with no recognized fields fails with ErrEmptyPatch.
// When ownerID is non-zero the entry must belong to that owner, otherwise
// the update is reported as not found.
func (u *entriesUsecase) Update(ctx context.Context, entryID, ownerID uint, patch map[string]any) error {
	fields := make(map[string]any, len(patch))
	for k, v := range patch {
		if _, ok := allowedPatchFields[k]; ok {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		return ErrEmptyPatch
	}

	ok, err := u.entries.Update(ctx, entryID, ownerID, fields)
	if err != nil {
		slog.Error("failed to update entry", "error", err, "entry_id", entryID)
		return ErrStore
	}
	if !ok {
		return ErrEntryNotFound
	}
	return nil
}

// Delete removes an entry row and then best-effort removes its stored
// file. File removal failure is logged but never fails the delete; the
// row deletion's outcome is authoritative.
func (u *entriesUsecase) Delete(ctx context.Context, entryID, ownerID uint) error {
	e, err := u.entries.FindByID(ctx, entryID, ownerID)
	if err != nil {
		return ErrEntryNotFound
	}

	ok, err := u.entries.Delete(ctx, entryID, ownerID)
	if err != nil {
		slog.Error("failed to delete entry", "error", err, "entry_id", entryID)
		return ErrStore
	}
	if !ok {
		return ErrEntryNotFound
	}

	if e.FilePath != "" {
		if err := u.files.Remove(e.FilePath); err != nil {
			slog.Warn("entry deleted but file removal failed", "error", err,
				"entry_id", entryID, "file_path", e.FilePath)
		}
	}
	return nil
}

// GetByID returns a single entry, honoring the optional ownership check.
func (u *entriesUsecase) GetByID(ctx context.Context, entryID, ownerID uint) (*entity.Entry, error) {
	e, err := u.entries.FindByID(ctx, entryID, ownerID)
	if err != nil {
		return nil, ErrEntryNotFound
	}
	return e, nil
}

// ListByOwner returns a user's entries, most recent upload first,
// optionally capped.
func (u *entriesUsecase) ListByOwner(ctx context.Context, username string, limit int) ([]entity.Entry, error) {
	out, err := u.entries.ListByUsername(ctx, username, limit)
	if err != nil {
		slog.Error("failed to list entries", "error", err, "username", username)
		return nil, ErrStore
	}
	return out, nil
}

// Stats returns the aggregate statistics for a user's catalogue.
func (u *entriesUsecase) Stats(ctx context.Context, username string) (*entity.UserStats, error) {
	stats, err := u.entries.Stats(ctx, username)
	if err != nil {
		slog.Error("failed to load user stats", "error", err, "username", username)
		return nil, ErrStore
	}
	return stats, nil
}

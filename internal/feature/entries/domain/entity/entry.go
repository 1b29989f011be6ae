// Package entity defines the domain entities for the entries feature.
package entity

import (
	"sort"
	"strings"
	"time"
)

// Entry represents one catalogued image and its metadata.
// An entry is owned by exactly one user; the username is a denormalized
// copy of the owner's name and must agree with UserID.
type Entry struct {
	// ID is the unique identifier for the entry.
	ID uint

	// UserID is the owning user's ID.
	UserID uint

	// Username is the cached copy of the owner's username.
	Username string

	// Title is the display title. Defaults to the file name (without
	// extension) or "Untitled" when neither is supplied.
	Title string

	// Filename is the original name of the uploaded file.
	Filename string

	// Description is the user- or AI-supplied free-text description.
	Description string

	// ImageCaption is the short AI-generated caption.
	ImageCaption string

	// Link is an optional reference URL.
	Link string

	// LinkSummary is the AI-produced summary of the linked page.
	LinkSummary string

	// Categories holds the category labels as a comma-joined string.
	Categories string

	// Tags holds the tag labels as a comma-joined string.
	Tags string

	// FilePath is where the uploaded image is stored. Empty when the
	// entry has no attached image.
	FilePath string

	// FileSize is the stored image size in bytes. Nil when no image
	// is attached.
	FileSize *int64

	// ImageWidth and ImageHeight are the pixel dimensions, best effort.
	// Nil when decoding failed or no image is attached.
	ImageWidth  *int
	ImageHeight *int

	// Notes is free-text user notes.
	Notes string

	// IsFavorite marks the entry as a favorite.
	IsFavorite bool

	// IsArchived marks the entry as archived. Nil means the entry
	// predates the archive flag and is treated as not archived.
	IsArchived *bool

	CreatedAt  time.Time
	UpdatedAt  time.Time
	UploadedAt time.Time
}

// Archived reports whether the entry is archived. An unset flag counts
// as not archived.
func (e *Entry) Archived() bool {
	return e.IsArchived != nil && *e.IsArchived
}

// UserStats aggregates a user's catalogue.
type UserStats struct {
	TotalEntries   int64
	TotalSizeBytes int64
	LastUpload     *time.Time
}

// LabelAxis selects which comma-joined label field an operation reads.
type LabelAxis string

const (
	AxisCategories LabelAxis = "categories"
	AxisTags       LabelAxis = "tags"
)

// JoinLabels serializes a label collection into the stored comma-joined
// form. Already-serialized strings are passed through by callers without
// going through this function.
func JoinLabels(labels []string) string {
	return strings.Join(labels, ", ")
}

// SplitLabels parses a comma-joined label string, dropping empty and
// whitespace-only items. The stored string itself is never rewritten.
func SplitLabels(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// DedupeLabels trims, deduplicates and sorts label strings ascending.
// This is the only place label deduplication happens.
func DedupeLabels(raw []string) []string {
	seen := map[string]struct{}{}
	for _, s := range raw {
		for _, label := range SplitLabels(s) {
			seen[label] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

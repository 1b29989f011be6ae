// Package adapters provides the GORM-backed repository for the entries feature.
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"imagevault_backend/internal/feature/entries/domain/entity"
	"imagevault_backend/internal/feature/entries/usecase"
)

// EntryModel is the GORM mapping of the entries table.
// is_archived is nullable: rows predating the archive flag carry NULL
// and are treated as not archived.
type EntryModel struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"index;not null"`
	Username     string `gorm:"size:64;index;not null"`
	Title        string `gorm:"size:255"`
	Filename     string `gorm:"size:255"`
	Description  string `gorm:"type:text"`
	ImageCaption string `gorm:"type:text"`
	Link         string `gorm:"size:2048"`
	LinkSummary  string `gorm:"type:text"`
	Categories   string `gorm:"type:text"`
	Tags         string `gorm:"type:text"`
	FilePath     string `gorm:"size:512"`
	FileSize     *int64
	ImageWidth   *int
	ImageHeight  *int
	Notes        string `gorm:"type:text"`
	IsFavorite   bool   `gorm:"not null;default:false"`
	IsArchived   *bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UploadedAt   time.Time `gorm:"index"`
}

func (EntryModel) TableName() string {
	return "entries"
}

func toModel(e *entity.Entry) EntryModel {
	return EntryModel{
		ID:           e.ID,
		UserID:       e.UserID,
		Username:     e.Username,
		Title:        e.Title,
		Filename:     e.Filename,
		Description:  e.Description,
		ImageCaption: e.ImageCaption,
		Link:         e.Link,
		LinkSummary:  e.LinkSummary,
		Categories:   e.Categories,
		Tags:         e.Tags,
		FilePath:     e.FilePath,
		FileSize:     e.FileSize,
		ImageWidth:   e.ImageWidth,
		ImageHeight:  e.ImageHeight,
		Notes:        e.Notes,
		IsFavorite:   e.IsFavorite,
		IsArchived:   e.IsArchived,
		UploadedAt:   e.UploadedAt,
	}
}

func toEntity(m *EntryModel) entity.Entry {
	return entity.Entry{
		ID:           m.ID,
		UserID:       m.UserID,
		Username:     m.Username,
		Title:        m.Title,
		Filename:     m.Filename,
		Description:  m.Description,
		ImageCaption: m.ImageCaption,
		Link:         m.Link,
		LinkSummary:  m.LinkSummary,
		Categories:   m.Categories,
		Tags:         m.Tags,
		FilePath:     m.FilePath,
		FileSize:     m.FileSize,
		ImageWidth:   m.ImageWidth,
		ImageHeight:  m.ImageHeight,
		Notes:        m.Notes,
		IsFavorite:   m.IsFavorite,
		IsArchived:   m.IsArchived,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		UploadedAt:   m.UploadedAt,
	}
}

// entryGorm implements usecase.EntryRepository on top of GORM.
type entryGorm struct {
	db *gorm.DB
}

var _ usecase.EntryRepository = (*entryGorm)(nil)

// NewEntryGorm creates the repository with the given gorm.DB connection.
func NewEntryGorm(db *gorm.DB) *entryGorm {
	return &entryGorm{db: db}
}

// Create inserts the entry and fills in its generated ID and timestamps.
func (r *entryGorm) Create(ctx context.Context, e *entity.Entry) error {
	m := toModel(e)
	if m.UploadedAt.IsZero() {
		m.UploadedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	e.UpdatedAt = m.UpdatedAt
	e.UploadedAt = m.UploadedAt
	return nil
}

// ownerScope narrows a query to an owner when ownerID is non-zero.
func ownerScope(q *gorm.DB, ownerID uint) *gorm.DB {
	if ownerID != 0 {
		return q.Where("user_id = ?", ownerID)
	}
	return q
}

// FindByID returns one entry. A non-zero ownerID that does not match the
// row's owner yields gorm.ErrRecordNotFound, not a distinct error.
func (r *entryGorm) FindByID(ctx context.Context, id, ownerID uint) (*entity.Entry, error) {
	var m EntryModel
	q := ownerScope(r.db.WithContext(ctx).Where("id = ?", id), ownerID)
	if err := q.First(&m).Error; err != nil {
		return nil, err
	}
	e := toEntity(&m)
	return &e, nil
}

// ListByUsername returns a user's entries ordered by upload time
// descending, capped at limit when positive.
func (r *entryGorm) ListByUsername(ctx context.Context, username string, limit int) ([]entity.Entry, error) {
	var rows []EntryModel
	q := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("uploaded_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// Update writes the whitelisted columns and refreshes updated_at.
// Returns false when no row matched the id (and owner, when given).
func (r *entryGorm) Update(ctx context.Context, id, ownerID uint, fields map[string]any) (bool, error) {
	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["updated_at"] = time.Now()

	q := ownerScope(r.db.WithContext(ctx).Model(&EntryModel{}).Where("id = ?", id), ownerID)
	res := q.Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the entry row. Returns false when no row matched.
func (r *entryGorm) Delete(ctx context.Context, id, ownerID uint) (bool, error) {
	q := ownerScope(r.db.WithContext(ctx).Where("id = ?", id), ownerID)
	res := q.Delete(&EntryModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Search applies the filter predicates. Substring matches go through
// LOWER() so behavior is identical on sqlite and postgres.
func (r *entryGorm) Search(ctx context.Context, f usecase.SearchFilter) ([]entity.Entry, error) {
	q := r.db.WithContext(ctx).Where("username = ?", f.Username)

	if f.Query != "" {
		pattern := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(image_caption) LIKE ?"+
				" OR LOWER(filename) LIKE ? OR LOWER(tags) LIKE ? OR LOWER(notes) LIKE ?",
			pattern, pattern, pattern, pattern, pattern, pattern)
	}
	if f.Category != "" {
		q = q.Where("LOWER(categories) LIKE ?", "%"+strings.ToLower(f.Category)+"%")
	}
	if f.Tag != "" {
		q = q.Where("LOWER(tags) LIKE ?", "%"+strings.ToLower(f.Tag)+"%")
	}
	if f.FavoritesOnly {
		q = q.Where("is_favorite = ?", true)
	}
	if f.ExcludeArchived {
		// Rows from before the archive flag carry NULL and count as not archived.
		q = q.Where("is_archived = ? OR is_archived IS NULL", false)
	}

	var rows []EntryModel
	if err := q.Order("uploaded_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// DistinctLabels returns the distinct raw label strings of one axis.
// Splitting and deduplication happen at the usecase boundary.
func (r *entryGorm) DistinctLabels(ctx context.Context, username string, axis entity.LabelAxis) ([]string, error) {
	column := "categories"
	if axis == entity.AxisTags {
		column = "tags"
	}
	var raw []string
	err := r.db.WithContext(ctx).Model(&EntryModel{}).
		Distinct(column).
		Where("username = ? AND "+column+" IS NOT NULL AND "+column+" <> ''", username).
		Pluck(column, &raw).Error
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Stats aggregates entry count, total stored bytes and the most recent
// upload time for a user.
func (r *entryGorm) Stats(ctx context.Context, username string) (*entity.UserStats, error) {
	var stats entity.UserStats

	if err := r.db.WithContext(ctx).Model(&EntryModel{}).
		Where("username = ?", username).
		Count(&stats.TotalEntries).Error; err != nil {
		return nil, err
	}

	var totalSize *int64
	if err := r.db.WithContext(ctx).Model(&EntryModel{}).
		Select("SUM(file_size)").
		Where("username = ? AND file_size IS NOT NULL", username).
		Scan(&totalSize).Error; err != nil {
		return nil, err
	}
	if totalSize != nil {
		stats.TotalSizeBytes = *totalSize
	}

	// Fetch the newest row instead of MAX(uploaded_at): expression columns
	// lose the declared type sqlite needs to scan into time.Time.
	var newest EntryModel
	err := r.db.WithContext(ctx).
		Select("uploaded_at").
		Where("username = ?", username).
		Order("uploaded_at DESC").
		First(&newest).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return nil, err
	default:
		last := newest.UploadedAt
		stats.LastUpload = &last
	}

	return &stats, nil
}

func toEntities(rows []EntryModel) []entity.Entry {
	out := make([]entity.Entry, 0, len(rows))
	for i := range rows {
		out = append(out, toEntity(&rows[i]))
	}
	return out
}

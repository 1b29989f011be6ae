// Package handler provides the HTTP handlers for the entries feature.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"imagevault_backend/internal/api"
	analysisentity "imagevault_backend/internal/feature/analysis/domain/entity"
	analysisusecase "imagevault_backend/internal/feature/analysis/usecase"
	"imagevault_backend/internal/feature/entries/domain/entity"
	"imagevault_backend/internal/feature/entries/usecase"
	jwtmw "imagevault_backend/internal/platform/jwt"
)

// EntriesUsecase defines the entry operations the handler depends on.
// Following Go convention, the interface is defined by the consumer
// (handler) rather than the provider (usecase).
type EntriesUsecase interface {
	Create(ctx context.Context, in usecase.CreateEntryInput) (uint, error)
	Update(ctx context.Context, entryID, ownerID uint, patch map[string]any) error
	Delete(ctx context.Context, entryID, ownerID uint) error
	GetByID(ctx context.Context, entryID, ownerID uint) (*entity.Entry, error)
	ListByOwner(ctx context.Context, username string, limit int) ([]entity.Entry, error)
	Search(ctx context.Context, f usecase.SearchFilter, sortBy string) []entity.Entry
	ListDistinctLabels(ctx context.Context, username string, axis entity.LabelAxis) ([]string, error)
	Stats(ctx context.Context, username string) (*entity.UserStats, error)
}

// Analyzer is the optional AI boundary used to enrich uploads.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, description, link string) *analysisentity.ImageAnalysis
	SummarizeLink(ctx context.Context, url string) string
}

// EntryHandler handles HTTP requests for the entry catalogue.
type EntryHandler struct {
	entries  EntriesUsecase
	analyzer Analyzer
}

// NewEntryHandler creates a new EntryHandler. analyzer may be nil, in
// which case uploads are stored without AI enrichment.
func NewEntryHandler(entries EntriesUsecase, analyzer Analyzer) *EntryHandler {
	return &EntryHandler{entries: entries, analyzer: analyzer}
}

// Create handles POST /entries.
//
// Content-Type: multipart/form-data with an optional "image" file
// (max 10MB) and text fields. With analyze=true and an image attached, missing
// description/caption/categories are filled from the AI analysis.
func (h *EntryHandler) Create(c *gin.Context) {
	username, ok := jwtmw.Username(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	in := usecase.CreateEntryInput{
		Username:       username,
		Title:          c.PostForm("title"),
		Description:    c.PostForm("description"),
		Caption:        c.PostForm("caption"),
		Link:           c.PostForm("link"),
		LinkSummary:    c.PostForm("link_summary"),
		CategoriesText: c.PostForm("categories"),
		TagsText:       c.PostForm("tags"),
		Notes:          c.PostForm("notes"),
		IsFavorite:     c.PostForm("is_favorite") == "true",
	}

	if file, err := c.FormFile("image"); err == nil {
		if file.Size > analysisusecase.MaxImageSize {
			c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "image exceeds 10MB"})
			return
		}
		f, err := file.Open()
		if err != nil {
			slog.Error("failed to open uploaded image", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read image"})
			return
		}
		defer func() {
			if err := f.Close(); err != nil {
				slog.Warn("failed to close uploaded image", "error", err)
			}
		}()

		data, err := io.ReadAll(f)
		if err != nil {
			slog.Error("failed to read uploaded image", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read image"})
			return
		}
		in.Filename = file.Filename
		in.Image = data
	}

	if h.analyzer != nil && c.PostForm("analyze") == "true" && len(in.Image) > 0 {
		result := h.analyzer.AnalyzeImage(c.Request.Context(), in.Image, in.Description, in.Link)
		if in.Description == "" {
			in.Description = result.Summary
		}
		if in.Caption == "" {
			in.Caption = result.Caption
		}
		if in.CategoriesText == "" {
			in.Categories = result.Categories
		}
		if in.Link != "" && in.LinkSummary == "" {
			in.LinkSummary = h.analyzer.SummarizeLink(c.Request.Context(), in.Link)
		}
	}

	id, err := h.entries.Create(c.Request.Context(), in)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrOwnerNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, api.CreateEntryResponse{ID: id, Message: "Entry saved successfully"})
}

// List handles GET /entries with an optional limit query parameter.
func (h *EntryHandler) List(c *gin.Context) {
	username, ok := jwtmw.Username(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	entries, err := h.entries.ListByOwner(c.Request.Context(), username, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toEntryResponses(entries))
}

// Get handles GET /entries/:id, scoped to the authenticated owner.
func (h *EntryHandler) Get(c *gin.Context) {
	userID, entryID, ok := h.ids(c)
	if !ok {
		return
	}

	e, err := h.entries.GetByID(c.Request.Context(), entryID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toEntryResponse(e))
}

// Update handles PATCH /entries/:id. The body is a free-form JSON
// object; unrecognized fields are silently dropped by the usecase.
func (h *EntryHandler) Update(c *gin.Context) {
	userID, entryID, ok := h.ids(c)
	if !ok {
		return
	}

	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	err := h.entries.Update(c.Request.Context(), entryID, userID, patch)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
	case errors.Is(err, usecase.ErrEmptyPatch):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
	}
}

// Delete handles DELETE /entries/:id.
func (h *EntryHandler) Delete(c *gin.Context) {
	userID, entryID, ok := h.ids(c)
	if !ok {
		return
	}

	err := h.entries.Delete(c.Request.Context(), entryID, userID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
	case errors.Is(err, usecase.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
	}
}

// Search handles GET /entries/search with the filter query parameters.
func (h *EntryHandler) Search(c *gin.Context) {
	username, ok := jwtmw.Username(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	f := usecase.SearchFilter{
		Username:        username,
		Query:           c.Query("q"),
		Category:        c.Query("category"),
		Tag:             c.Query("tag"),
		FavoritesOnly:   c.Query("favorites_only") == "true",
		ExcludeArchived: c.Query("exclude_archived") == "true",
	}
	entries := h.entries.Search(c.Request.Context(), f, c.DefaultQuery("sort_by", usecase.SortRecent))
	c.JSON(http.StatusOK, toEntryResponses(entries))
}

// Labels handles GET /labels?axis=categories|tags.
func (h *EntryHandler) Labels(c *gin.Context) {
	username, ok := jwtmw.Username(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	axis := entity.LabelAxis(c.DefaultQuery("axis", string(entity.AxisCategories)))
	if axis != entity.AxisCategories && axis != entity.AxisTags {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "axis must be categories or tags"})
		return
	}

	labels, err := h.entries.ListDistinctLabels(c.Request.Context(), username, axis)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.LabelListResponse{Axis: string(axis), Labels: labels})
}

// Stats handles GET /stats.
func (h *EntryHandler) Stats(c *gin.Context) {
	username, ok := jwtmw.Username(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	stats, err := h.entries.Stats(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp := api.StatsResponse{
		TotalEntries: stats.TotalEntries,
		LastUpload:   stats.LastUpload,
	}
	if stats.TotalSizeBytes > 0 {
		resp.TotalSizeMB = float64(stats.TotalSizeBytes) / (1024 * 1024)
	}
	c.JSON(http.StatusOK, resp)
}

// ids extracts the authenticated user ID and the :id path parameter,
// answering the request itself on failure.
func (h *EntryHandler) ids(c *gin.Context) (userID, entryID uint, ok bool) {
	userID, idOK := jwtmw.UserID(c)
	if !idOK {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return 0, 0, false
	}
	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid entry id"})
		return 0, 0, false
	}
	return userID, uint(raw), true
}

func toEntryResponse(e *entity.Entry) api.EntryResponse {
	return api.EntryResponse{
		ID:           e.ID,
		Username:     e.Username,
		Title:        e.Title,
		Filename:     e.Filename,
		Description:  e.Description,
		ImageCaption: e.ImageCaption,
		Link:         e.Link,
		LinkSummary:  e.LinkSummary,
		Categories:   entity.SplitLabels(e.Categories),
		Tags:         entity.SplitLabels(e.Tags),
		FilePath:     e.FilePath,
		FileSize:     e.FileSize,
		ImageWidth:   e.ImageWidth,
		ImageHeight:  e.ImageHeight,
		Notes:        e.Notes,
		IsFavorite:   e.IsFavorite,
		IsArchived:   e.Archived(),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		UploadedAt:   e.UploadedAt,
	}
}

func toEntryResponses(entries []entity.Entry) []api.EntryResponse {
	out := make([]api.EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryResponse(&entries[i]))
	}
	return out
}

// Package handler provides the HTTP handlers for the analysis feature.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"imagevault_backend/internal/api"
	"imagevault_backend/internal/feature/analysis/domain/entity"
	"imagevault_backend/internal/feature/analysis/usecase"
)

// AnalysisUsecase defines the analysis operations the handler depends on.
// Following Go convention, the interface is defined by the consumer
// (handler) rather than the provider (usecase).
type AnalysisUsecase interface {
	AnalyzeImage(ctx context.Context, image []byte, description, link string) *entity.ImageAnalysis
	SummarizeLink(ctx context.Context, url string) string
}

// AnalysisHandler handles HTTP requests for AI analysis.
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// AnalyzeImage analyzes an uploaded image.
//
// Endpoint: POST /analysis/image
// Content-Type: multipart/form-data
// Fields: image (required, max 10MB), description, link (both optional).
func (h *AnalysisHandler) AnalyzeImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		slog.Warn("missing image in analysis request", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "image file is required"})
		return
	}
	if file.Size > usecase.MaxImageSize {
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

	result := h.uc.AnalyzeImage(c.Request.Context(), data, c.PostForm("description"), c.PostForm("link"))
	c.JSON(http.StatusOK, api.AnalysisResponse{
		Summary:      result.Summary,
		Categories:   result.Categories,
		Caption:      result.Caption,
		FullAnalysis: result.FullAnalysis,
	})
}

// SummarizeLink summarizes the content of a reference link.
//
// Endpoint: POST /analysis/link
func (h *AnalysisHandler) SummarizeLink(c *gin.Context) {
	var req api.LinkSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "a valid url is required"})
		return
	}

	summary := h.uc.SummarizeLink(c.Request.Context(), req.URL)
	c.JSON(http.StatusOK, api.LinkSummaryResponse{URL: req.URL, Summary: summary})
}

// Package api defines the JSON request and response types shared by the
// HTTP handlers.
package api

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
)

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the generic success body.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries a signed JWT after a successful login.
type TokenResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id,omitempty"`
	Username  string `json:"username"`
}

// SignupRequest is the request body for POST /signup.
type SignupRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=64"`
	Email    types.Email `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	FullName string      `json:"full_name"`
}

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LogoutRequest identifies the session to revoke.
type LogoutRequest struct {
	SessionID string `json:"session_id"`
}

// EntryResponse is the JSON shape of one catalogue entry.
type EntryResponse struct {
	ID           uint       `json:"id"`
	Username     string     `json:"username"`
	Title        string     `json:"title"`
	Filename     string     `json:"filename,omitempty"`
	Description  string     `json:"description,omitempty"`
	ImageCaption string     `json:"image_caption,omitempty"`
	Link         string     `json:"link,omitempty"`
	LinkSummary  string     `json:"link_summary,omitempty"`
	Categories   []string   `json:"categories"`
	Tags         []string   `json:"tags"`
	FilePath     string     `json:"file_path,omitempty"`
	FileSize     *int64     `json:"file_size,omitempty"`
	ImageWidth   *int       `json:"image_width,omitempty"`
	ImageHeight  *int       `json:"image_height,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	IsFavorite   bool       `json:"is_favorite"`
	IsArchived   bool       `json:"is_archived"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	UploadedAt   time.Time  `json:"uploaded_at"`
}

// CreateEntryResponse returns the new entry's ID.
type CreateEntryResponse struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

// LabelListResponse carries the distinct labels of one axis.
type LabelListResponse struct {
	Axis   string   `json:"axis"`
	Labels []string `json:"labels"`
}

// StatsResponse summarizes a user's catalogue.
type StatsResponse struct {
	TotalEntries int64      `json:"total_entries"`
	TotalSizeMB  float64    `json:"total_size_mb"`
	LastUpload   *time.Time `json:"last_upload,omitempty"`
}

// AnalysisResponse is the structured result of an image analysis.
type AnalysisResponse struct {
	Summary      string   `json:"summary"`
	Categories   []string `json:"categories"`
	Caption      string   `json:"caption"`
	FullAnalysis string   `json:"full_analysis"`
}

// LinkSummaryRequest asks for an AI summary of a web page.
type LinkSummaryRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// LinkSummaryResponse carries the page summary.
type LinkSummaryResponse struct {
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"imagevault_backend/internal/api"
	"imagevault_backend/internal/feature/auth/usecase"
)

// AuthUsecase defines the auth operations the handler depends on.
// Following Go convention, the interface is defined by the consumer
// (handler) rather than the provider (usecase).
type AuthUsecase interface {
	// Signup registers a new user with the given credentials.
	Signup(ctx context.Context, username, email, password, fullName string) error
	// Login authenticates a user and returns a signed token on success.
	Login(ctx context.Context, username, password string, meta usecase.LoginMeta) (*usecase.LoginResult, error)
	// Logout revokes a login session record.
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup handles the user registration endpoint.
// Validation failures return 400; creation failures (duplicate username
// or email) return 409 without exposing which field collided.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.auth.Signup(c.Request.Context(), req.Username, string(req.Email), req.Password, req.FullName); err != nil {
		// Don't expose the underlying reason to prevent user enumeration
		slog.Warn("signup failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "signup failed"})
		return
	}
	slog.Info("user signup successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.MessageResponse{Message: "ok"})
}

// Login handles the user login endpoint.
// Invalid credentials and deactivated accounts both return 401 with a
// generic message.
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	meta := usecase.LoginMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, meta)
	if err != nil {
		slog.Warn("login failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid username or password"})
		return
	}
	slog.Info("user login successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenResponse{
		Token:     result.Token,
		SessionID: result.SessionID,
		Username:  result.Username,
	})
}

// Logout revokes the caller's session record. Always answers 200; a
// missing or already-revoked session is not an error to the client.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req api.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.auth.Logout(c.Request.Context(), req.SessionID); err != nil {
		slog.Warn("logout failed", "error", err, "remote_addr", c.ClientIP())
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}

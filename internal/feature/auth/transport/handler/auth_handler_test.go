package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagevault_backend/internal/api"
	"imagevault_backend/internal/feature/auth/usecase"
)

type fakeAuthUsecase struct {
	signupErr error
	loginErr  error
	logoutErr error

	loginMeta     usecase.LoginMeta
	loggedOut     []string
	signupArgs    []string
	loginUsername string
}

func (f *fakeAuthUsecase) Signup(_ context.Context, username, email, password, fullName string) error {
	f.signupArgs = []string{username, email, password, fullName}
	return f.signupErr
}

func (f *fakeAuthUsecase) Login(_ context.Context, username, _ string, meta usecase.LoginMeta) (*usecase.LoginResult, error) {
	f.loginUsername = username
	f.loginMeta = meta
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &usecase.LoginResult{Token: "signed-token", SessionID: "sid", Username: username}, nil
}

func (f *fakeAuthUsecase) Logout(_ context.Context, sessionID string) error {
	f.loggedOut = append(f.loggedOut, sessionID)
	return f.logoutErr
}

func setupAuthRouter(uc AuthUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(uc)
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignupHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		uc := &fakeAuthUsecase{}
		w := postJSON(t, setupAuthRouter(uc), "/signup", gin.H{
			"username":  "alice",
			"email":     "alice@example.com",
			"password":  "supersecret",
			"full_name": "Alice A.",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, []string{"alice", "alice@example.com", "supersecret", "Alice A."}, uc.signupArgs)
	})

	t.Run("missing fields", func(t *testing.T) {
		uc := &fakeAuthUsecase{}
		w := postJSON(t, setupAuthRouter(uc), "/signup", gin.H{"username": "alice"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, uc.signupArgs)
	})

	t.Run("invalid email", func(t *testing.T) {
		w := postJSON(t, setupAuthRouter(&fakeAuthUsecase{}), "/signup", gin.H{
			"username": "alice",
			"email":    "not-an-email",
			"password": "supersecret",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate answers 409 without detail", func(t *testing.T) {
		uc := &fakeAuthUsecase{signupErr: usecase.ErrUserAlreadyExists}
		w := postJSON(t, setupAuthRouter(uc), "/signup", gin.H{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "supersecret",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signup failed", resp.Error)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success returns the token", func(t *testing.T) {
		uc := &fakeAuthUsecase{}
		r := setupAuthRouter(uc)

		w := httptest.NewRecorder()
		body := bytes.NewReader([]byte(`{"username":"alice","password":"supersecret"}`))
		req := httptest.NewRequest(http.MethodPost, "/login", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "test-agent")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp api.TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
		assert.Equal(t, "sid", resp.SessionID)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, "test-agent", uc.loginMeta.UserAgent)
	})

	t.Run("bad credentials answer 401 with a generic message", func(t *testing.T) {
		uc := &fakeAuthUsecase{loginErr: usecase.ErrInvalidCredentials}
		w := postJSON(t, setupAuthRouter(uc), "/login", gin.H{"username": "alice", "password": "wrong"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid username or password")
	})

	t.Run("deactivated account is indistinguishable from bad credentials", func(t *testing.T) {
		uc := &fakeAuthUsecase{loginErr: usecase.ErrAccountDeactivated}
		w := postJSON(t, setupAuthRouter(uc), "/login", gin.H{"username": "alice", "password": "supersecret"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid username or password")
	})

	t.Run("missing body", func(t *testing.T) {
		w := postJSON(t, setupAuthRouter(&fakeAuthUsecase{}), "/login", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Run("revokes and answers ok", func(t *testing.T) {
		uc := &fakeAuthUsecase{}
		w := postJSON(t, setupAuthRouter(uc), "/logout", gin.H{"session_id": "sid"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"sid"}, uc.loggedOut)
	})

	t.Run("failure still answers ok", func(t *testing.T) {
		uc := &fakeAuthUsecase{logoutErr: errors.New("redis down")}
		w := postJSON(t, setupAuthRouter(uc), "/logout", gin.H{"session_id": "sid"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty body still answers ok", func(t *testing.T) {
		w := postJSON(t, setupAuthRouter(&fakeAuthUsecase{}), "/logout", gin.H{})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

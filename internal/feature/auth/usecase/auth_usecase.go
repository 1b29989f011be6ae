package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"imagevault_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength is the minimum accepted password length.
	minPasswordLength = 8

	// sessionTTL is how long a login session record is kept.
	sessionTTL = 7 * 24 * time.Hour
)

// UserRepository abstracts persistence for users.
// Following Go convention, the interface is defined by the consumer
// (usecase) rather than the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrUserAlreadyExists when
	// the username or email is taken.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername returns the user with the given login name.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID returns the user with the given ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// TouchLastLogin records a successful login time.
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

// SessionRepository stores login session records.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindByID(ctx context.Context, id string) (*entity.Session, error)
	Revoke(ctx context.Context, id string) error
}

// JWTGenerator creates signed tokens for authenticated users.
type JWTGenerator interface {
	GenerateToken(userID uint, username string) (string, error)
}

// LoginMeta carries request metadata recorded on the session.
type LoginMeta struct {
	UserAgent string
	IPAddress string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	SessionID string
	Username  string
}

// authUsecase implements signup, login and logout.
type authUsecase struct {
	users    UserRepository
	sessions SessionRepository
	tokens   JWTGenerator
}

// NewAuthUsecase creates a new authUsecase. sessions may be nil, in which
// case login sessions are not recorded.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, tokens JWTGenerator) *authUsecase {
	return &authUsecase{users: users, sessions: sessions, tokens: tokens}
}

// validatePassword checks the password against the security requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Signup registers a new user with a hashed password.
func (u *authUsecase) Signup(ctx context.Context, username, email, password, fullName string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     fullName,
		IsActive:     true,
	}
	return u.users.Create(ctx, user)
}

// Login authenticates a user by username and returns a signed token.
// bcrypt comparison always runs, even for unknown users, to keep response
// timing uniform. Deactivated accounts are rejected after the comparison.
func (u *authUsecase) Login(ctx context.Context, username, password string, meta LoginMeta) (*LoginResult, error) {
	user, err := u.users.FindByUsername(ctx, username)

	// Dummy hash keeps bcrypt.CompareHashAndPassword on the path when the
	// user does not exist.
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if err == nil {
		passwordHash = user.PasswordHash
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	now := time.Now()
	if err := u.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; the timestamp is informational.
		slog.Warn("failed to record last login", "error", err, "user_id", user.ID)
	}

	token, err := u.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	result := &LoginResult{Token: token, Username: user.Username}

	if u.sessions != nil {
		session := &entity.Session{
			ID:        newSessionID(),
			UserID:    user.ID,
			Username:  user.Username,
			UserAgent: meta.UserAgent,
			IPAddress: meta.IPAddress,
			CreatedAt: now,
			ExpiresAt: now.Add(sessionTTL),
		}
		if err := u.sessions.Create(ctx, session); err != nil {
			slog.Warn("failed to record login session", "error", err, "user_id", user.ID)
		} else {
			result.SessionID = session.ID
		}
	}

	return result, nil
}

// Logout revokes a login session record. Missing sessions are not an error.
func (u *authUsecase) Logout(ctx context.Context, sessionID string) error {
	if u.sessions == nil || sessionID == "" {
		return nil
	}
	if err := u.sessions.Revoke(ctx, sessionID); err != nil && err != ErrSessionNotFound {
		return err
	}
	return nil
}

// FindIDByUsername resolves a username to a user ID. It satisfies the
// entries feature's UserDirectory port.
func (u *authUsecase) FindIDByUsername(ctx context.Context, username string) (uint, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// newSessionID returns a 64-character hex token.
func newSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}

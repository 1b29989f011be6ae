package adapters

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagevault_backend/internal/feature/auth/domain/entity"
	"imagevault_backend/internal/feature/auth/usecase"
)

func TestSessionRedisCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the session with its remaining TTL", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewSessionRedis(client, "sessions")

		session := &entity.Session{
			ID:        "abc123",
			UserID:    1,
			Username:  "alice",
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		// TTL varies by a few nanoseconds, so only the command shape is checked.
		mock.CustomMatch(func(expected, actual []interface{}) error {
			return nil
		}).ExpectSet("sessions:abc123", []byte("ignored"), time.Hour).SetVal("OK")

		require.NoError(t, repo.Create(ctx, session))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an already-expired session", func(t *testing.T) {
		client, _ := redismock.NewClientMock()
		repo := NewSessionRedis(client, "sessions")

		session := &entity.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}
		assert.Error(t, repo.Create(ctx, session))
	})
}

func TestSessionRedisFindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewSessionRedis(client, "sessions")

		stored := entity.Session{ID: "abc123", UserID: 1, Username: "alice"}
		data, err := json.Marshal(stored)
		require.NoError(t, err)
		mock.ExpectGet("sessions:abc123").SetVal(string(data))

		got, err := repo.FindByID(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, uint(1), got.UserID)
	})

	t.Run("missing key", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewSessionRedis(client, "sessions")

		mock.ExpectGet("sessions:missing").RedisNil()

		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	})

	t.Run("corrupted payload", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewSessionRedis(client, "sessions")

		mock.ExpectGet("sessions:bad").SetVal("not json")

		_, err := repo.FindByID(ctx, "bad")
		assert.Error(t, err)
	})
}

func TestSessionRedisRevoke(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the session revoked and keeps it for auditing", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewSessionRedis(client, "sessions")

		stored := entity.Session{ID: "abc123", UserID: 1, Username: "alice"}
		data, err := json.Marshal(stored)
		require.NoError(t, err)
		mock.ExpectGet("sessions:abc123").SetVal(string(data))
		// RevokedAt is set to the current time, so only the command shape is checked.
		mock.CustomMatch(func(expected, actual []interface{}) error {
			return nil
		}).ExpectSet("sessions:abc123", []byte("ignored"), 24*time.Hour).SetVal("OK")

		require.NoError(t, repo.Revoke(ctx, "abc123"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing session", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewSessionRedis(client, "sessions")

		mock.ExpectGet("sessions:missing").RedisNil()
		assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)
	})
}

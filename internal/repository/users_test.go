package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetUserContact(t *testing.T) {
	mock, gw := setupMockGateway(t)
	repo := NewPostgresUsersRepository(gw)

	mock.ExpectQuery(`FROM users`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "first_name"}).
			AddRow("u-1", "mom@example.com", nil))

	got, err := repo.GetUserContact(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "mom@example.com", got.Email)
	assert.Equal(t, "", got.FirstName)
}

func TestGetUserContact_NotFound(t *testing.T) {
	mock, gw := setupMockGateway(t)
	repo := NewPostgresUsersRepository(gw)

	mock.ExpectQuery(`FROM users`).
		WithArgs("u-x").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "first_name"}))

	_, err := repo.GetUserContact(context.Background(), "u-x")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

type countingUsersRepo struct {
	calls   int
	contact *domain.UserContact
	err     error
}

func (c *countingUsersRepo) GetUserContact(ctx context.Context, userID string) (*domain.UserContact, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.contact, nil
}

func setupMiniredisKV(t *testing.T) (*miniredis.Miniredis, store.KV) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, store.NewRedisKV(client)
}

func TestCachedUsersRepository_CachesHits(t *testing.T) {
	mr, kv := setupMiniredisKV(t)
	next := &countingUsersRepo{contact: &domain.UserContact{UserID: "u-1", Email: "mom@example.com", FirstName: "Asha"}}
	repo := NewCachedUsersRepository(next, kv, time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := repo.GetUserContact(ctx, "u-1")
	require.NoError(t, err)
	second, err := repo.GetUserContact(ctx, "u-1")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("naricare:user-contact:u-1"))

	mr.FastForward(2 * time.Minute)
	_, err = repo.GetUserContact(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedUsersRepository_DoesNotCacheMissingUser(t *testing.T) {
	mr, kv := setupMiniredisKV(t)
	next := &countingUsersRepo{err: domain.ErrUserNotFound}
	repo := NewCachedUsersRepository(next, kv, time.Minute, zap.NewNop())

	_, err := repo.GetUserContact(context.Background(), "u-x")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	assert.False(t, mr.Exists("naricare:user-contact:u-x"))
}

func TestCachedUsersRepository_FallsThroughWhenRedisDown(t *testing.T) {
	mr, kv := setupMiniredisKV(t)
	next := &countingUsersRepo{contact: &domain.UserContact{UserID: "u-1", Email: "mom@example.com"}}
	repo := NewCachedUsersRepository(next, kv, time.Minute, zap.NewNop())
	mr.Close()

	got, err := repo.GetUserContact(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "mom@example.com", got.Email)
	assert.Equal(t, 1, next.calls)
}

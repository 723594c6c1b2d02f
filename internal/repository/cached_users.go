package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/store"

	"go.uber.org/zap"
)

const contactCacheKeyPrefix = "naricare:user-contact:"

// CachedUsersRepository 在 Redis 中缓存用户联系方式；缓存不可用时直接查库，
// 用户不存在的结果不缓存。
type CachedUsersRepository struct {
	next   UsersRepository
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedUsersRepository(next UsersRepository, kv store.KV, ttl time.Duration, logger *zap.Logger) *CachedUsersRepository {
	return &CachedUsersRepository{next: next, kv: kv, ttl: ttl, logger: logger}
}

var _ UsersRepository = (*CachedUsersRepository)(nil)

func (r *CachedUsersRepository) GetUserContact(ctx context.Context, userID string) (*domain.UserContact, error) {
	key := contactCacheKeyPrefix + userID

	raw, err := r.kv.Get(ctx, key)
	switch {
	case err == nil:
		var contact domain.UserContact
		if jsonErr := json.Unmarshal([]byte(raw), &contact); jsonErr == nil {
			return &contact, nil
		}
		r.logger.Warn("Discarding malformed cached contact", zap.String("user_id", userID))
	case !errors.Is(err, store.ErrMiss):
		r.logger.Warn("Contact cache read failed", zap.String("user_id", userID), zap.Error(err))
	}

	contact, err := r.next.GetUserContact(ctx, userID)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(contact); err == nil {
		if err := r.kv.Set(ctx, key, string(b), r.ttl); err != nil {
			r.logger.Warn("Contact cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return contact, nil
}

package repository

import (
	"context"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
)

// UsersRepository 用户联系方式查询（只读）
type UsersRepository interface {
	// 找不到用户时返回 domain.ErrUserNotFound
	GetUserContact(ctx context.Context, userID string) (*domain.UserContact, error)
}

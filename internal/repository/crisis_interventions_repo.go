package repository

import (
	"context"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
)

// CrisisInterventionsRepository 危机干预 Repository 接口
type CrisisInterventionsRepository interface {
	// 创建干预记录；checkin_id 唯一，重复时返回 domain.ErrInterventionExists
	CreateIntervention(ctx context.Context, intervention *domain.CrisisIntervention) error

	GetIntervention(ctx context.Context, userID, interventionID string) (*domain.CrisisIntervention, error)

	GetInterventionByCheckin(ctx context.Context, userID, checkinID string) (*domain.CrisisIntervention, error)

	// 条件更新 user_response：只有当前值等于 from 时才写入 to（from 为 nil 表示 NULL）。
	// 当前值已被并发修改时返回 domain.ErrInvalidTransition。
	UpdateUserResponse(ctx context.Context, interventionID string, from *domain.UserResponse, to domain.UserResponse) error
}

package repository

import (
	"context"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
)

// EmotionCheckinsRepository 情绪打卡 Repository 接口
type EmotionCheckinsRepository interface {
	// 创建打卡记录（checkin_id 由调用方生成）
	CreateCheckin(ctx context.Context, checkin *domain.EmotionCheckin) error

	// 获取单条打卡记录（只返回属于 userID 的记录）
	GetCheckin(ctx context.Context, userID, checkinID string) (*domain.EmotionCheckin, error)

	// 分页查询打卡记录，按 record_date/record_time 倒序
	ListCheckins(ctx context.Context, userID string, filters CheckinFilters, page, size int) ([]*domain.EmotionCheckin, int, error)
}

// CheckinFilters 打卡记录过滤条件
type CheckinFilters struct {
	StartDate  *string // YYYY-MM-DD，record_date >= StartDate
	EndDate    *string // YYYY-MM-DD，record_date <= EndDate
	CrisisOnly bool    // 只返回 crisis_alert_triggered = true
}

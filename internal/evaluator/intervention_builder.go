package evaluator

import (
	"time"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"

	"github.com/google/uuid"
)

// InterventionBuilder 危机干预记录构建器
type InterventionBuilder struct {
	userID    string
	checkinID string
}

// NewInterventionBuilder 创建危机干预记录构建器
func NewInterventionBuilder(userID, checkinID string) *InterventionBuilder {
	return &InterventionBuilder{
		userID:    userID,
		checkinID: checkinID,
	}
}

// Build 根据本次提交的担忧想法构建干预记录（user_response 初始为 nil）
func (b *InterventionBuilder) Build(thoughts []domain.ConcerningThought, c Classification, now time.Time) *domain.CrisisIntervention {
	return &domain.CrisisIntervention{
		InterventionID:      uuid.New().String(),
		UserID:              b.userID,
		CheckinID:           b.checkinID,
		InterventionType:    c.InterventionType,
		InterventionDetails: BuildInterventionDetails(thoughts, now),
		UserResponse:        nil,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// BuildInterventionDetails 构建时间点快照（保持提交顺序）
func BuildInterventionDetails(thoughts []domain.ConcerningThought, now time.Time) domain.InterventionDetails {
	levels := make([]domain.Severity, 0, len(thoughts))
	for _, t := range thoughts {
		levels = append(levels, t.Severity)
	}
	return domain.InterventionDetails{
		ConcerningThoughtsCount: len(thoughts),
		SeverityLevels:          levels,
		AutoTriggered:           true,
		Timestamp:               now.UTC(),
	}
}

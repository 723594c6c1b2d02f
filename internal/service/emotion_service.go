package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/evaluator"
	"github.com/NariCare/NariCare-App-sub000/internal/metrics"
	"github.com/NariCare/NariCare-App-sub000/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	exportMaxRows   = 10000
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
)

var checkinValidate = validator.New()

// EmotionService 情绪打卡服务接口
type EmotionService interface {
	// 只写入打卡记录（不做危机处理），返回回读后的记录
	CreateCheckin(ctx context.Context, userID string, req CreateCheckinRequest) (*domain.EmotionCheckin, error)

	// 提交打卡：打卡记录与危机干预记录在同一事务中写入，提交后发送邮件/推送事件
	SubmitCheckin(ctx context.Context, userID string, req CreateCheckinRequest) (*CheckinResult, error)

	GetCheckin(ctx context.Context, userID, checkinID string) (*domain.EmotionCheckin, error)

	ListCheckins(ctx context.Context, req ListCheckinsRequest) (*ListCheckinsResponse, error)

	// 查询某次打卡对应的干预记录
	GetIntervention(ctx context.Context, userID, checkinID string) (*domain.CrisisIntervention, error)

	// 用户对干预的响应（accepted | dismissed | completed）
	UpdateInterventionResponse(ctx context.Context, userID, interventionID, response string) (*domain.CrisisIntervention, error)

	// 导出打卡历史（xlsx）
	ExportCheckins(ctx context.Context, req ListCheckinsRequest) ([]byte, error)
}

// ============================================
// Request/Response DTOs
// ============================================

// CreateCheckinRequest 打卡请求体；列表缺省为空列表
type CreateCheckinRequest struct {
	SelectedStruggles          []string                   `json:"selectedStruggles" validate:"max=50,dive,required,max=64"`
	SelectedPositiveMoments    []string                   `json:"selectedPositiveMoments" validate:"max=50,dive,required,max=64"`
	SelectedConcerningThoughts []domain.ConcerningThought `json:"selectedConcerningThoughts" validate:"max=50,dive"`

	GratefulFor     *string `json:"gratefulFor" validate:"omitempty,max=2000"`
	ProudOfToday    *string `json:"proudOfToday" validate:"omitempty,max=2000"`
	TomorrowGoal    *string `json:"tomorrowGoal" validate:"omitempty,max=2000"`
	AdditionalNotes *string `json:"additionalNotes" validate:"omitempty,max=2000"`

	EnteredViaVoice bool `json:"enteredViaVoice"`
}

// CheckinResult 提交结果；Intervention 为 nil 表示没有触发干预
type CheckinResult struct {
	Checkin      *domain.EmotionCheckin
	Intervention *InterventionOutcome
}

// ListCheckinsRequest 打卡历史查询
type ListCheckinsRequest struct {
	UserID     string
	StartDate  *string // YYYY-MM-DD
	EndDate    *string // YYYY-MM-DD
	CrisisOnly bool

	Page     int // 默认 1
	PageSize int // 默认 20，最大 100
}

// ListCheckinsResponse 打卡历史
type ListCheckinsResponse struct {
	Items      []*domain.EmotionCheckin
	Pagination PaginationDTO
}

// PaginationDTO 分页信息
type PaginationDTO struct {
	Size  int `json:"size"`
	Page  int `json:"page"`
	Count int `json:"count"`
	Total int `json:"total"`
}

// emotionService 实现
type emotionService struct {
	checkinsRepo      repository.EmotionCheckinsRepository
	interventionsRepo repository.CrisisInterventionsRepository
	crisis            CrisisService
	transactor        Transactor
	now               func() time.Time
	logger            *zap.Logger
}

// NewEmotionService 创建 EmotionService 实例
func NewEmotionService(
	checkinsRepo repository.EmotionCheckinsRepository,
	interventionsRepo repository.CrisisInterventionsRepository,
	crisis CrisisService,
	transactor Transactor,
	logger *zap.Logger,
) EmotionService {
	return &emotionService{
		checkinsRepo:      checkinsRepo,
		interventionsRepo: interventionsRepo,
		crisis:            crisis,
		transactor:        transactor,
		now:               time.Now,
		logger:            logger,
	}
}

func (s *emotionService) CreateCheckin(ctx context.Context, userID string, req CreateCheckinRequest) (*domain.EmotionCheckin, error) {
	checkin, err := s.buildCheckin(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.checkinsRepo.CreateCheckin(ctx, checkin); err != nil {
		return nil, err
	}
	metrics.CheckinsSubmitted.Inc()
	return s.checkinsRepo.GetCheckin(ctx, userID, checkin.CheckinID)
}

func (s *emotionService) SubmitCheckin(ctx context.Context, userID string, req CreateCheckinRequest) (*CheckinResult, error) {
	checkin, err := s.buildCheckin(userID, req)
	if err != nil {
		return nil, err
	}

	var stored *domain.EmotionCheckin
	var pending *PendingIntervention
	err = s.transactor.ExecuteTransaction(ctx,
		func(ctx context.Context) error {
			return s.checkinsRepo.CreateCheckin(ctx, checkin)
		},
		func(ctx context.Context) error {
			c, err := s.checkinsRepo.GetCheckin(ctx, userID, checkin.CheckinID)
			stored = c
			return err
		},
		func(ctx context.Context) error {
			p, err := s.crisis.RecordIntervention(ctx, userID, stored.CheckinID, stored.SelectedConcerningThoughts)
			pending = p
			return err
		},
	)
	if err != nil {
		s.logger.Error("Emotion checkin submission failed",
			zap.String("user_id", userID),
			zap.String("checkin_id", checkin.CheckinID),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.CheckinsSubmitted.Inc()

	result := &CheckinResult{Checkin: stored}
	if pending != nil {
		result.Intervention = s.crisis.Dispatch(ctx, pending)
	}
	return result, nil
}

func (s *emotionService) GetCheckin(ctx context.Context, userID, checkinID string) (*domain.EmotionCheckin, error) {
	if userID == "" || checkinID == "" {
		return nil, fmt.Errorf("%w: user_id and checkin_id are required", domain.ErrValidation)
	}
	return s.checkinsRepo.GetCheckin(ctx, userID, checkinID)
}

func (s *emotionService) ListCheckins(ctx context.Context, req ListCheckinsRequest) (*ListCheckinsResponse, error) {
	filters, err := checkinFilters(req)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	items, total, err := s.checkinsRepo.ListCheckins(ctx, req.UserID, filters, page, size)
	if err != nil {
		return nil, err
	}

	return &ListCheckinsResponse{
		Items: items,
		Pagination: PaginationDTO{
			Size:  size,
			Page:  page,
			Count: len(items),
			Total: total,
		},
	}, nil
}

func (s *emotionService) GetIntervention(ctx context.Context, userID, checkinID string) (*domain.CrisisIntervention, error) {
	if userID == "" || checkinID == "" {
		return nil, fmt.Errorf("%w: user_id and checkin_id are required", domain.ErrValidation)
	}
	return s.interventionsRepo.GetInterventionByCheckin(ctx, userID, checkinID)
}

func (s *emotionService) UpdateInterventionResponse(ctx context.Context, userID, interventionID, response string) (*domain.CrisisIntervention, error) {
	if userID == "" || interventionID == "" {
		return nil, fmt.Errorf("%w: user_id and intervention_id are required", domain.ErrValidation)
	}
	to, ok := domain.ParseUserResponse(response)
	if !ok {
		return nil, fmt.Errorf("%w: userResponse must be one of accepted, dismissed, completed", domain.ErrValidation)
	}

	iv, err := s.interventionsRepo.GetIntervention(ctx, userID, interventionID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(iv.UserResponse, to) {
		from := "null"
		if iv.UserResponse != nil {
			from = string(*iv.UserResponse)
		}
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	if err := s.interventionsRepo.UpdateUserResponse(ctx, interventionID, iv.UserResponse, to); err != nil {
		return nil, err
	}

	s.logger.Info("Crisis intervention response updated",
		zap.String("user_id", userID),
		zap.String("intervention_id", interventionID),
		zap.String("user_response", string(to)),
	)

	iv.UserResponse = &to
	iv.UpdatedAt = s.now()
	return iv, nil
}

func (s *emotionService) ExportCheckins(ctx context.Context, req ListCheckinsRequest) ([]byte, error) {
	filters, err := checkinFilters(req)
	if err != nil {
		return nil, err
	}

	var all []*domain.EmotionCheckin
	for page := 1; len(all) < exportMaxRows; page++ {
		items, total, err := s.checkinsRepo.ListCheckins(ctx, req.UserID, filters, page, maxPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < maxPageSize || len(all) >= total {
			break
		}
	}
	if len(all) > exportMaxRows {
		all = all[:exportMaxRows]
	}

	return GenerateCheckinExport(all)
}

// buildCheckin 校验请求并构建待写入的打卡记录；日期时间取服务端时钟
func (s *emotionService) buildCheckin(userID string, req CreateCheckinRequest) (*domain.EmotionCheckin, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	if err := checkinValidate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	now := s.now()
	thoughts := nonNilThoughts(req.SelectedConcerningThoughts)

	return &domain.EmotionCheckin{
		CheckinID:                  uuid.New().String(),
		UserID:                     userID,
		RecordDate:                 now.Format(dateLayout),
		RecordTime:                 now.Format(timeLayout),
		SelectedStruggles:          nonNilStrings(req.SelectedStruggles),
		SelectedPositiveMoments:    nonNilStrings(req.SelectedPositiveMoments),
		SelectedConcerningThoughts: thoughts,
		GratefulFor:                trimmedOrNil(req.GratefulFor),
		ProudOfToday:               trimmedOrNil(req.ProudOfToday),
		TomorrowGoal:               trimmedOrNil(req.TomorrowGoal),
		AdditionalNotes:            trimmedOrNil(req.AdditionalNotes),
		CrisisAlertTriggered:       evaluator.CrisisAlert(thoughts),
		EnteredViaVoice:            req.EnteredViaVoice,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}, nil
}

func checkinFilters(req ListCheckinsRequest) (repository.CheckinFilters, error) {
	if req.UserID == "" {
		return repository.CheckinFilters{}, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	for _, d := range []*string{req.StartDate, req.EndDate} {
		if d == nil {
			continue
		}
		if _, err := time.Parse(dateLayout, *d); err != nil {
			return repository.CheckinFilters{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", domain.ErrValidation, *d)
		}
	}
	return repository.CheckinFilters{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CrisisOnly: req.CrisisOnly,
	}, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilThoughts(t []domain.ConcerningThought) []domain.ConcerningThought {
	if t == nil {
		return []domain.ConcerningThought{}
	}
	return t
}

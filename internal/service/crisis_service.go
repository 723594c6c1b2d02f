package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/evaluator"
	"github.com/NariCare/NariCare-App-sub000/internal/metrics"
	"github.com/NariCare/NariCare-App-sub000/internal/notify"
	"github.com/NariCare/NariCare-App-sub000/internal/repository"
	"github.com/NariCare/NariCare-App-sub000/internal/store"

	"go.uber.org/zap"
)

// Transactor 多步骤事务（store.Gateway 实现）
type Transactor interface {
	ExecuteTransaction(ctx context.Context, steps ...store.TxStep) error
}

// CrisisService 危机干预服务接口
type CrisisService interface {
	// 在独立事务中写入干预记录，提交后发送邮件/推送事件。
	// thoughts 为空时不做任何事，返回 nil, nil。
	MaybeIntervene(ctx context.Context, userID, checkinID string, thoughts []domain.ConcerningThought) (*InterventionOutcome, error)

	// 在调用方的事务中写入干预记录（不发送邮件）；thoughts 为空时返回 nil, nil
	RecordIntervention(ctx context.Context, userID, checkinID string, thoughts []domain.ConcerningThought) (*PendingIntervention, error)

	// 事务提交后执行：critical 时发送邮件，推送危机事件。失败只记录日志。
	Dispatch(ctx context.Context, pending *PendingIntervention) *InterventionOutcome
}

// PendingIntervention 已写入但尚未完成通知的干预
type PendingIntervention struct {
	Intervention   *domain.CrisisIntervention
	Contact        *domain.UserContact
	Classification evaluator.Classification
}

// InterventionOutcome 干预结果（返回给调用方的资源包）
type InterventionOutcome struct {
	Triggered        bool
	InterventionID   string
	InterventionType domain.InterventionType
	Resources        domain.CrisisResources
	EmailSent        bool
}

type crisisService struct {
	interventionsRepo repository.CrisisInterventionsRepository
	usersRepo         repository.UsersRepository
	transactor        Transactor
	notifier          notify.CrisisNotifier
	publisher         notify.EventPublisher
	now               func() time.Time
	logger            *zap.Logger
}

// NewCrisisService 创建 CrisisService 实例；publisher 可为 nil
func NewCrisisService(
	interventionsRepo repository.CrisisInterventionsRepository,
	usersRepo repository.UsersRepository,
	transactor Transactor,
	notifier notify.CrisisNotifier,
	publisher notify.EventPublisher,
	logger *zap.Logger,
) CrisisService {
	return &crisisService{
		interventionsRepo: interventionsRepo,
		usersRepo:         usersRepo,
		transactor:        transactor,
		notifier:          notifier,
		publisher:         publisher,
		now:               time.Now,
		logger:            logger,
	}
}

func (s *crisisService) MaybeIntervene(ctx context.Context, userID, checkinID string, thoughts []domain.ConcerningThought) (*InterventionOutcome, error) {
	if len(thoughts) == 0 {
		return nil, nil
	}

	var pending *PendingIntervention
	err := s.transactor.ExecuteTransaction(ctx, func(ctx context.Context) error {
		p, err := s.RecordIntervention(ctx, userID, checkinID, thoughts)
		pending = p
		return err
	})
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, nil
	}
	return s.Dispatch(ctx, pending), nil
}

func (s *crisisService) RecordIntervention(ctx context.Context, userID, checkinID string, thoughts []domain.ConcerningThought) (*PendingIntervention, error) {
	if len(thoughts) == 0 {
		return nil, nil
	}

	// 1. 用户联系方式；找不到用户时整个操作失败
	contact, err := s.usersRepo.GetUserContact(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("crisis intervention for checkin %s: %w", checkinID, err)
	}

	// 2. 分级
	classification := evaluator.Classify(thoughts)

	// 3-4. 快照 + 写入（user_response = NULL）
	intervention := evaluator.NewInterventionBuilder(userID, checkinID).Build(thoughts, classification, s.now())
	if err := s.interventionsRepo.CreateIntervention(ctx, intervention); err != nil {
		return nil, err
	}

	s.logger.Info("Crisis intervention recorded",
		zap.String("user_id", userID),
		zap.String("checkin_id", checkinID),
		zap.String("intervention_id", intervention.InterventionID),
		zap.String("intervention_type", string(intervention.InterventionType)),
	)

	return &PendingIntervention{
		Intervention:   intervention,
		Contact:        contact,
		Classification: classification,
	}, nil
}

func (s *crisisService) Dispatch(ctx context.Context, pending *PendingIntervention) *InterventionOutcome {
	iv := pending.Intervention
	resources := domain.DefaultCrisisResources()
	metrics.CrisisInterventions.WithLabelValues(string(iv.InterventionType)).Inc()

	emailSent := false
	if pending.Classification.HasCritical {
		emailSent = s.sendCrisisEmail(ctx, pending, resources)
	}

	if s.publisher != nil {
		event := domain.CrisisEvent{
			InterventionID:   iv.InterventionID,
			UserID:           iv.UserID,
			CheckinID:        iv.CheckinID,
			InterventionType: iv.InterventionType,
			SeverityLevels:   iv.InterventionDetails.SeverityLevels,
			EmailSent:        emailSent,
			OccurredAt:       iv.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish crisis event",
				zap.String("intervention_id", iv.InterventionID),
				zap.Error(err),
			)
		}
	}

	return &InterventionOutcome{
		Triggered:        true,
		InterventionID:   iv.InterventionID,
		InterventionType: iv.InterventionType,
		Resources:        resources,
		EmailSent:        emailSent,
	}
}

// sendCrisisEmail 失败只记录日志，干预记录保持 user_response = NULL
func (s *crisisService) sendCrisisEmail(ctx context.Context, pending *PendingIntervention, resources domain.CrisisResources) bool {
	iv := pending.Intervention
	if err := s.notifier.SendCrisisEmail(ctx, pending.Contact.Email, pending.Contact.FirstName, resources); err != nil {
		metrics.CrisisEmails.WithLabelValues("failed").Inc()
		s.logger.Error("Failed to send crisis email",
			zap.String("user_id", iv.UserID),
			zap.String("intervention_id", iv.InterventionID),
			zap.Error(err),
		)
		return false
	}
	metrics.CrisisEmails.WithLabelValues("sent").Inc()

	sent := domain.UserResponseEmailSent
	if err := s.interventionsRepo.UpdateUserResponse(ctx, iv.InterventionID, nil, sent); err != nil {
		s.logger.Error("Failed to mark crisis email sent",
			zap.String("intervention_id", iv.InterventionID),
			zap.Error(err),
		)
		return true
	}
	iv.UserResponse = &sent
	return true
}

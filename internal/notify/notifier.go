package notify

import (
	"context"
	"errors"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"

	"go.uber.org/zap"
)

// ErrNotificationDisabled 邮件通道未启用
var ErrNotificationDisabled = errors.New("crisis notification disabled")

// CrisisNotifier 危机邮件发送接口
type CrisisNotifier interface {
	SendCrisisEmail(ctx context.Context, toEmail, firstName string, resources domain.CrisisResources) error
}

// NoopNotifier MAIL_ENABLED=false 时使用；不发送，只记录日志
type NoopNotifier struct {
	logger *zap.Logger
}

func NewNoopNotifier(logger *zap.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

func (n *NoopNotifier) SendCrisisEmail(ctx context.Context, toEmail, firstName string, resources domain.CrisisResources) error {
	n.logger.Warn("Crisis email skipped, mail channel disabled")
	return ErrNotificationDisabled
}

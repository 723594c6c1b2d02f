package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/metrics"
)

// EventPublisher 危机事件下游推送
type EventPublisher interface {
	Publish(ctx context.Context, event domain.CrisisEvent) error
	Name() string
}

// MultiPublisher 依次推送到所有 sink；某个 sink 失败不影响其它 sink
type MultiPublisher struct {
	publishers []EventPublisher
}

func NewMultiPublisher(publishers ...EventPublisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

func (m *MultiPublisher) Name() string { return "multi" }

func (m *MultiPublisher) Len() int { return len(m.publishers) }

func (m *MultiPublisher) Publish(ctx context.Context, event domain.CrisisEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			metrics.CrisisEventsPublished.WithLabelValues(p.Name(), "error").Inc()
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		metrics.CrisisEventsPublished.WithLabelValues(p.Name(), "ok").Inc()
	}
	return errors.Join(errs...)
}

package notify

import (
	"context"
	"fmt"

	"github.com/NariCare/NariCare-App-sub000/common/redis"
	"github.com/NariCare/NariCare-App-sub000/internal/domain"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StreamPublisher 将危机事件写入 Redis Stream（data + timestamp 字段）
type StreamPublisher struct {
	client *goredis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

func NewStreamPublisher(client *goredis.Client, stream string, maxLen int64, logger *zap.Logger) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream, maxLen: maxLen, logger: logger}
}

func (p *StreamPublisher) Name() string { return "redis_stream" }

func (p *StreamPublisher) Publish(ctx context.Context, event domain.CrisisEvent) error {
	id, err := redis.PublishJSONToStream(ctx, p.client, p.stream, p.maxLen, event)
	if err != nil {
		return fmt.Errorf("failed to publish crisis event to stream %s: %w", p.stream, err)
	}
	p.logger.Debug("Crisis event published to stream",
		zap.String("stream", p.stream),
		zap.String("message_id", id),
		zap.String("intervention_id", event.InterventionID),
	)
	return nil
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"

	"go.uber.org/zap"
)

// messagePublisher common/mqtt.Client 满足该接口
type messagePublisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher 发布到 <prefix>/<intervention_type>
type MQTTPublisher struct {
	client      messagePublisher
	topicPrefix string
	qos         byte
	logger      *zap.Logger
}

func NewMQTTPublisher(client messagePublisher, topicPrefix string, qos byte, logger *zap.Logger) *MQTTPublisher {
	return &MQTTPublisher{client: client, topicPrefix: topicPrefix, qos: qos, logger: logger}
}

func (p *MQTTPublisher) Name() string { return "mqtt" }

func (p *MQTTPublisher) Topic(t domain.InterventionType) string {
	return fmt.Sprintf("%s/%s", p.topicPrefix, t)
}

func (p *MQTTPublisher) Publish(ctx context.Context, event domain.CrisisEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal crisis event: %w", err)
	}

	topic := p.Topic(event.InterventionType)
	if err := p.client.Publish(topic, p.qos, false, payload); err != nil {
		return err
	}
	p.logger.Debug("Crisis event published to MQTT",
		zap.String("topic", topic),
		zap.String("intervention_id", event.InterventionID),
	)
	return nil
}

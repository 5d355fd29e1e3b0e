package repository

import (
	"context"

	"BreakScan/internal/domain/models"
	pkgkafka "BreakScan/pkg/kafka"
	applogger "BreakScan/pkg/logger"
)

// KafkaAlertPublisher emits break alerts to a Kafka topic. Alerts are
// keyed by asset name so consumers see one asset's alerts in order.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string, l *applogger.Logger) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic, l: l}
}

func (p *KafkaAlertPublisher) Publish(ctx context.Context, alert *models.BreakAlert) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(alert.Asset), alert); err != nil {
		return err
	}
	p.l.Debug("break alert published",
		applogger.String("asset", alert.Asset),
		applogger.String("signal", alert.Signal),
		applogger.Float64("score", alert.Score),
	)
	return nil
}

func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}

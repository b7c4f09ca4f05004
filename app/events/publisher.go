package events

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/metrics"
)

// Publisher sends payment events onto the bus. Delivery is at-least-once;
// consumers must tolerate duplicates.
type Publisher struct {
	producer sarama.SyncProducer
	logger   logrus.FieldLogger
}

func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return NewPublisherWithProducer(producer), nil
}

func NewPublisherWithProducer(producer sarama.SyncProducer) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   factory.NewModuleLogger("event-publisher"),
	}
}

func (p *Publisher) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.logger.WithError(err).WithField("topic", topic).Error("Failed to publish event")
		return err
	}

	metrics.EventsPublished.WithLabelValues(topic).Inc()
	p.logger.WithField("topic", topic).Debug("Published event")
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

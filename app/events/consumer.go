package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/service"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

type sagaStarter interface {
	StartPaymentProcess(ctx context.Context, order types.OrderContext) error
}

type paymentInformationProvisioner interface {
	AddDefaultPaymentInformations(ctx context.Context, userID string) error
}

// Consumer subscribes to the order-validation and user-creation topics and
// feeds them into the saga coordinator. Malformed or duplicate events are
// logged and dropped so a poison message cannot wedge the partition.
type Consumer struct {
	group       sarama.ConsumerGroup
	saga        sagaStarter
	provisioner paymentInformationProvisioner
	logger      logrus.FieldLogger
}

func NewConsumer(brokers []string, groupID string, saga sagaStarter, provisioner paymentInformationProvisioner) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:       group,
		saga:        saga,
		provisioner: provisioner,
		logger:      factory.NewModuleLogger("event-consumer"),
	}, nil
}

// Run blocks until ctx is canceled, rejoining the group after rebalances.
func (c *Consumer) Run(ctx context.Context) error {
	topics := []string{types.TopicOrderValidationSucceeded, types.TopicUserCreated}

	for {
		if err := c.group.Consume(ctx, topics, c); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.logger.WithError(err).Error("Consumer group session failed")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		c.handleMessage(session.Context(), message.Topic, message.Value)
		session.MarkMessage(message, "")
	}
	return nil
}

func (c *Consumer) handleMessage(ctx context.Context, topic string, value []byte) {
	switch topic {
	case types.TopicOrderValidationSucceeded:
		c.handleOrderValidationSucceeded(ctx, value)
	case types.TopicUserCreated:
		c.handleUserCreated(ctx, value)
	default:
		c.logger.WithField("topic", topic).Warn("Received event on unexpected topic")
	}
}

func (c *Consumer) handleOrderValidationSucceeded(ctx context.Context, value []byte) {
	var event types.OrderValidationSucceededEvent
	if err := json.Unmarshal(value, &event); err != nil {
		c.logger.WithError(err).Error("Failed to decode order validation event")
		return
	}
	if event.Order.ID == "" {
		c.logger.Error("Order validation event without order id")
		return
	}

	logger := c.logger.WithField("order_id", event.Order.ID)
	logger.Info("Received order validation succeeded event")

	if err := c.saga.StartPaymentProcess(ctx, event.Order); err != nil {
		if errors.Is(err, service.ErrDuplicateOrder) {
			// At-least-once delivery: the first saga for this order is
			// already in flight.
			logger.Warn("Dropping duplicate order validation event")
			return
		}
		logger.WithError(err).Error("Failed to start payment process")
	}
}

func (c *Consumer) handleUserCreated(ctx context.Context, value []byte) {
	var event types.UserCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		c.logger.WithError(err).Error("Failed to decode user created event")
		return
	}
	if event.ID == "" {
		c.logger.Error("User created event without user id")
		return
	}

	if err := c.provisioner.AddDefaultPaymentInformations(ctx, event.ID); err != nil {
		c.logger.WithError(err).WithField("user_id", event.ID).Error("Failed to provision default payment informations")
	}
}

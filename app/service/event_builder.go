package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/repository"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

type openOrderRepository interface {
	Create(ctx context.Context, openOrder *entity.OpenOrder) error
	FindByPaymentID(ctx context.Context, paymentID string) (*entity.OpenOrder, error)
	ExistsByOrderID(ctx context.Context, orderID string) (bool, error)
	DeleteByPaymentID(ctx context.Context, paymentID string) error
	DeleteByOrderID(ctx context.Context, orderID string) error
}

type eventPublisher interface {
	Publish(topic string, payload interface{}) error
}

// EventBuilder resolves a payment id back to its order context via the
// open-order record and publishes the payment events. It has no dependency
// on the router or the strategies, which is what keeps the wiring acyclic:
// strategies talk to the EventBuilder, the coordinator talks to the router.
type EventBuilder struct {
	openOrders openOrderRepository
	publisher  eventPublisher
	logger     logrus.FieldLogger
}

func NewEventBuilder(openOrders openOrderRepository, publisher eventPublisher) *EventBuilder {
	return &EventBuilder{
		openOrders: openOrders,
		publisher:  publisher,
		logger:     factory.NewModuleLogger("event-builder"),
	}
}

// BuildPaymentEnabledEvent signals that downstream fulfillment steps may
// proceed for the order that originated the payment.
func (b *EventBuilder) BuildPaymentEnabledEvent(ctx context.Context, paymentID string) error {
	openOrder, err := b.getOpenOrder(ctx, paymentID)
	if err != nil {
		return err
	}
	return b.PublishPaymentEnabled(openOrder.Order)
}

// BuildPaymentFailedEvent publishes the compensation signal for the order
// owner. It does not retire the open-order record itself; terminal callers
// retire explicitly via RetireSaga after emitting.
func (b *EventBuilder) BuildPaymentFailedEvent(ctx context.Context, paymentID string) error {
	openOrder, err := b.getOpenOrder(ctx, paymentID)
	if err != nil {
		return err
	}
	return b.PublishPaymentFailed(openOrder.Order)
}

// BuildPaymentProcessedEvent marks the saga as terminally succeeded: the
// open-order record is deleted and the processed event published. A second
// call for the same payment fails with ErrOpenOrderNotFound.
func (b *EventBuilder) BuildPaymentProcessedEvent(ctx context.Context, paymentID string) error {
	openOrder, err := b.getOpenOrder(ctx, paymentID)
	if err != nil {
		return err
	}

	if err := b.openOrders.DeleteByPaymentID(ctx, paymentID); err != nil {
		if errors.Is(err, repository.ErrOpenOrderNotFound) {
			return ErrOpenOrderNotFound
		}
		return err
	}

	return b.publisher.Publish(types.TopicPaymentProcessed, &types.PaymentEventPayload{Order: openOrder.Order})
}

func (b *EventBuilder) PublishPaymentEnabled(order types.OrderContext) error {
	return b.publisher.Publish(types.TopicPaymentEnabled, &types.PaymentEventPayload{Order: order})
}

func (b *EventBuilder) PublishPaymentFailed(order types.OrderContext) error {
	return b.publisher.Publish(types.TopicPaymentFailed, &types.PaymentEventPayload{Order: order})
}

// RetireSaga deletes the open-order record on a terminal failure path. A
// record that is already gone is not an error: the saga may have been retired
// concurrently.
func (b *EventBuilder) RetireSaga(ctx context.Context, paymentID string) error {
	if err := b.openOrders.DeleteByPaymentID(ctx, paymentID); err != nil {
		if errors.Is(err, repository.ErrOpenOrderNotFound) {
			return nil
		}
		return err
	}

	b.logger.WithField("payment_id", paymentID).Info("Retired open order")
	return nil
}

func (b *EventBuilder) getOpenOrder(ctx context.Context, paymentID string) (*entity.OpenOrder, error) {
	openOrder, err := b.openOrders.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if openOrder == nil {
		b.logger.WithField("payment_id", paymentID).Error("No open order for payment")
		return nil, ErrOpenOrderNotFound
	}
	return openOrder, nil
}

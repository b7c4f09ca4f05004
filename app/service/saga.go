package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/metrics"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/repository"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

type methodStarter interface {
	StartPaymentProcess(ctx context.Context, method types.PaymentMethod, paymentID string, amount int64) error
}

// SagaCoordinator is the transaction boundary of the payment saga. It reacts
// to validated orders, creates the payment together with its correlation
// record and hands off to the method router. It is the only component that
// converts a failure into a compensating event instead of propagating it.
type SagaCoordinator struct {
	payments     *PaymentService
	openOrders   openOrderRepository
	paymentInfos paymentInformationRepository
	events       *EventBuilder
	router       methodStarter
	logger       logrus.FieldLogger
}

func NewSagaCoordinator(
	payments *PaymentService,
	openOrders openOrderRepository,
	paymentInfos paymentInformationRepository,
	events *EventBuilder,
	router methodStarter,
) *SagaCoordinator {
	return &SagaCoordinator{
		payments:     payments,
		openOrders:   openOrders,
		paymentInfos: paymentInfos,
		events:       events,
		router:       router,
		logger:       factory.NewModuleLogger("saga-coordinator"),
	}
}

// StartPaymentProcess starts the saga for a validated order. On any failure
// after entry the correlation record is removed again and exactly one
// payment-failed event is published, carrying the original order context.
// A duplicate start for an order whose saga is still in flight is surfaced
// as ErrDuplicateOrder and not compensated: the first saga keeps running.
func (c *SagaCoordinator) StartPaymentProcess(ctx context.Context, order types.OrderContext) error {
	logger := c.logger.WithField("order_id", order.ID)
	logger.Info("Starting payment process")

	err := c.start(ctx, order)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDuplicateOrder) {
		logger.WithError(err).Warn("Payment process already in flight for order")
		return err
	}

	logger.WithError(err).Error("Payment process failed, compensating")

	exists, existsErr := c.openOrders.ExistsByOrderID(ctx, order.ID)
	if existsErr != nil {
		logger.WithError(existsErr).Error("Failed to check open order during compensation")
	} else if exists {
		if deleteErr := c.openOrders.DeleteByOrderID(ctx, order.ID); deleteErr != nil {
			logger.WithError(deleteErr).Error("Failed to delete open order during compensation")
		}
	}

	return c.events.PublishPaymentFailed(order)
}

func (c *SagaCoordinator) start(ctx context.Context, order types.OrderContext) error {
	info, err := c.paymentInfos.FindByID(ctx, order.PaymentInformationID)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("%w: %s", ErrPaymentInformationNotFound, order.PaymentInformationID)
	}

	payment, err := c.payments.CreatePayment(ctx, info.ID, order.CompensatableOrderAmount)
	if err != nil {
		return err
	}

	if err := c.openOrders.Create(ctx, &entity.OpenOrder{
		PaymentID: payment.ID,
		OrderID:   order.ID,
		Order:     order,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		if errors.Is(err, repository.ErrOpenOrderAlreadyExists) {
			return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.ID)
		}
		return err
	}

	metrics.SagasStarted.WithLabelValues(string(info.PaymentMethod)).Inc()

	return c.router.StartPaymentProcess(ctx, info.PaymentMethod, payment.ID, payment.TotalAmount)
}

// AddDefaultPaymentInformations provisions the payment informations every new
// user gets without entering any payment details.
func (c *SagaCoordinator) AddDefaultPaymentInformations(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	for _, method := range []types.PaymentMethod{types.PaymentMethodPrepayment, types.PaymentMethodInvoice} {
		if err := c.paymentInfos.Create(ctx, &entity.PaymentInformation{
			ID:            uuid.NewString(),
			UserID:        userID,
			PaymentMethod: method,
			MethodDetails: map[string]string{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}); err != nil {
			return err
		}
	}

	c.logger.WithField("user_id", userID).Info("Provisioned default payment informations")
	return nil
}

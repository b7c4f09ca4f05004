package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/provider"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

// PrepaymentStrategy gates fulfillment on the money actually arriving:
// enablement is only emitted once the provider reports SUCCEEDED.
type PrepaymentStrategy struct {
	payments  *PaymentService
	connector providerConnector
	events    eventBuilder
	logger    logrus.FieldLogger
}

func NewPrepaymentStrategy(payments *PaymentService, connector providerConnector, events eventBuilder) *PrepaymentStrategy {
	return &PrepaymentStrategy{
		payments:  payments,
		connector: connector,
		events:    events,
		logger:    factory.NewModuleLogger("prepayment-strategy"),
	}
}

func (s *PrepaymentStrategy) Method() types.PaymentMethod {
	return types.PaymentMethodPrepayment
}

func (s *PrepaymentStrategy) Create(ctx context.Context, paymentID string, amount int64) error {
	s.logger.WithField("payment_id", paymentID).Info("Creating prepaid payment")

	if err := s.connector.Send(ctx, &provider.RegisterPayment{
		PaymentID:   paymentID,
		Amount:      amount,
		PaymentType: "prepayment",
	}); err != nil {
		return err
	}

	_, err := s.payments.UpdatePaymentStatus(ctx, paymentID, types.PaymentStatusPending)
	return err
}

func (s *PrepaymentStrategy) Update(ctx context.Context, paymentID string, status types.PaymentStatus) (*entity.Payment, error) {
	s.logger.WithFields(logrus.Fields{
		"payment_id": paymentID,
		"status":     status,
	}).Info("Updating prepaid payment")

	payment, err := s.payments.UpdatePaymentStatus(ctx, paymentID, status)
	if err != nil {
		return nil, err
	}

	if status == types.PaymentStatusSucceeded {
		// Funds arrived, fulfillment may proceed.
		if err := s.events.BuildPaymentEnabledEvent(ctx, paymentID); err != nil {
			return nil, err
		}
	}

	return payment, nil
}

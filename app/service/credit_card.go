package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/provider"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

// creditCardMaxRetries is the strategy-level resubmission budget. It is
// independent of the connector's transport retry.
const creditCardMaxRetries = 3

type eventBuilder interface {
	BuildPaymentEnabledEvent(ctx context.Context, paymentID string) error
	BuildPaymentFailedEvent(ctx context.Context, paymentID string) error
	RetireSaga(ctx context.Context, paymentID string) error
}

type providerConnector interface {
	Send(ctx context.Context, payload *provider.RegisterPayment) error
}

// CreditCardStrategy handles pre-authorized card payments. Shipment may
// proceed before the charge settles, so enablement fires at creation time.
// Failed charges are resubmitted up to creditCardMaxRetries times before the
// saga is compensated.
type CreditCardStrategy struct {
	payments  *PaymentService
	connector providerConnector
	events    eventBuilder
	logger    logrus.FieldLogger
}

func NewCreditCardStrategy(payments *PaymentService, connector providerConnector, events eventBuilder) *CreditCardStrategy {
	return &CreditCardStrategy{
		payments:  payments,
		connector: connector,
		events:    events,
		logger:    factory.NewModuleLogger("credit-card-strategy"),
	}
}

func (s *CreditCardStrategy) Method() types.PaymentMethod {
	return types.PaymentMethodCreditCard
}

func (s *CreditCardStrategy) Create(ctx context.Context, paymentID string, amount int64) error {
	s.logger.WithField("payment_id", paymentID).Info("Creating credit card payment")

	// Authorization already happened upstream, downstream steps may proceed.
	if err := s.events.BuildPaymentEnabledEvent(ctx, paymentID); err != nil {
		return err
	}

	if err := s.connector.Send(ctx, &provider.RegisterPayment{
		PaymentID:   paymentID,
		Amount:      amount,
		PaymentType: "credit-card",
	}); err != nil {
		return err
	}

	_, err := s.payments.UpdatePaymentStatus(ctx, paymentID, types.PaymentStatusPending)
	return err
}

func (s *CreditCardStrategy) Update(ctx context.Context, paymentID string, status types.PaymentStatus) (*entity.Payment, error) {
	logger := s.logger.WithFields(logrus.Fields{
		"payment_id": paymentID,
		"status":     status,
	})
	logger.Info("Updating credit card payment")

	if status != types.PaymentStatusFailed {
		return s.payments.UpdatePaymentStatus(ctx, paymentID, status)
	}

	retries, err := s.payments.IncrementRetries(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if retries < creditCardMaxRetries {
		// Resubmit the charge without touching the status.
		payment, err := s.payments.GetPayment(ctx, paymentID)
		if err != nil {
			return nil, err
		}

		logger.WithField("retries", retries).Info("Resubmitting failed credit card charge")
		if err := s.connector.Send(ctx, &provider.RegisterPayment{
			PaymentID:   paymentID,
			Amount:      payment.TotalAmount,
			PaymentType: "credit-card",
		}); err != nil {
			return nil, err
		}
		return payment, nil
	}

	if retries > creditCardMaxRetries {
		// Budget was exhausted on an earlier callback and the saga is
		// already compensated; just record the terminal status.
		return s.payments.UpdatePaymentStatus(ctx, paymentID, status)
	}

	logger.Warn("Credit card retry budget exhausted, compensating")

	if err := s.events.BuildPaymentFailedEvent(ctx, paymentID); err != nil {
		return nil, err
	}

	payment, err := s.payments.UpdatePaymentStatus(ctx, paymentID, status)
	if err != nil {
		return nil, err
	}

	if err := s.events.RetireSaga(ctx, paymentID); err != nil {
		return nil, err
	}

	return payment, nil
}

package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/provider"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

// InvoiceStrategy ships before payment is due, so enablement fires at
// creation time and callbacks are applied without gating.
type InvoiceStrategy struct {
	payments  *PaymentService
	connector providerConnector
	events    eventBuilder
	logger    logrus.FieldLogger
}

func NewInvoiceStrategy(payments *PaymentService, connector providerConnector, events eventBuilder) *InvoiceStrategy {
	return &InvoiceStrategy{
		payments:  payments,
		connector: connector,
		events:    events,
		logger:    factory.NewModuleLogger("invoice-strategy"),
	}
}

func (s *InvoiceStrategy) Method() types.PaymentMethod {
	return types.PaymentMethodInvoice
}

func (s *InvoiceStrategy) Create(ctx context.Context, paymentID string, amount int64) error {
	s.logger.WithField("payment_id", paymentID).Info("Creating invoice payment")

	if err := s.events.BuildPaymentEnabledEvent(ctx, paymentID); err != nil {
		return err
	}

	if err := s.connector.Send(ctx, &provider.RegisterPayment{
		PaymentID:   paymentID,
		Amount:      amount,
		PaymentType: "invoice",
	}); err != nil {
		return err
	}

	_, err := s.payments.UpdatePaymentStatus(ctx, paymentID, types.PaymentStatusPending)
	return err
}

func (s *InvoiceStrategy) Update(ctx context.Context, paymentID string, status types.PaymentStatus) (*entity.Payment, error) {
	s.logger.WithFields(logrus.Fields{
		"payment_id": paymentID,
		"status":     status,
	}).Info("Updating invoice payment")

	return s.payments.UpdatePaymentStatus(ctx, paymentID, status)
}

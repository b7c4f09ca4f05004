package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

type paymentInformationRepository interface {
	Create(ctx context.Context, info *entity.PaymentInformation) error
	FindByID(ctx context.Context, id string) (*entity.PaymentInformation, error)
}

// Strategy is the method-specific saga sub-protocol. Create starts the
// provider registration for a fresh payment, Update consumes an asynchronous
// status callback.
type Strategy interface {
	Method() types.PaymentMethod
	Create(ctx context.Context, paymentID string, amount int64) error
	Update(ctx context.Context, paymentID string, status types.PaymentStatus) (*entity.Payment, error)
}

// MethodRouter dispatches saga operations to the strategy owning the
// payment's method.
type MethodRouter struct {
	strategies   map[types.PaymentMethod]Strategy
	payments     *PaymentService
	paymentInfos paymentInformationRepository
	logger       logrus.FieldLogger
}

func NewMethodRouter(payments *PaymentService, paymentInfos paymentInformationRepository, strategies ...Strategy) *MethodRouter {
	items := make(map[types.PaymentMethod]Strategy, len(strategies))
	for _, strategy := range strategies {
		items[strategy.Method()] = strategy
	}

	return &MethodRouter{
		strategies:   items,
		payments:     payments,
		paymentInfos: paymentInfos,
		logger:       factory.NewModuleLogger("method-router"),
	}
}

// StartPaymentProcess dispatches the initial registration. An unknown method
// is a configuration defect, not a retry case.
func (r *MethodRouter) StartPaymentProcess(ctx context.Context, method types.PaymentMethod, paymentID string, amount int64) error {
	strategy, ok := r.strategies[method]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMethodNotImplemented, method)
	}

	r.logger.WithFields(logrus.Fields{
		"payment_id": paymentID,
		"method":     method,
	}).Info("Starting payment process")

	return strategy.Create(ctx, paymentID, amount)
}

// UpdatePaymentStatus resolves the owning payment method from the payment
// record and dispatches the callback to that strategy.
func (r *MethodRouter) UpdatePaymentStatus(ctx context.Context, paymentID string, status types.PaymentStatus) (*entity.Payment, error) {
	payment, err := r.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	info, err := r.paymentInfos.FindByID(ctx, payment.PaymentInformationID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrPaymentInformationNotFound
	}

	strategy, ok := r.strategies[info.PaymentMethod]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotImplemented, info.PaymentMethod)
	}

	r.logger.WithFields(logrus.Fields{
		"payment_id": paymentID,
		"method":     info.PaymentMethod,
		"status":     status,
	}).Info("Dispatching payment status update")

	return strategy.Update(ctx, paymentID, status)
}

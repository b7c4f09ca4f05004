package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/repository"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id string) (*entity.Payment, error)
	UpdateStatus(ctx context.Context, id string, status types.PaymentStatus, payedAt *time.Time, now time.Time) error
	UpdateStatusIfPending(ctx context.Context, id string, status types.PaymentStatus, now time.Time) (bool, error)
	IncrementRetries(ctx context.Context, id string, now time.Time) (int32, error)
	ListOverduePending(ctx context.Context, method types.PaymentMethod, cutoff time.Time, limit int32) ([]*entity.Payment, error)
}

// PaymentService owns the payment lifecycle. UpdatePaymentStatus is the
// single mutation point for the status column; everything above it (the
// strategies) only decides which transitions to request.
type PaymentService struct {
	paymentRepo paymentRepository
	logger      logrus.FieldLogger
}

func NewPaymentService(paymentRepo paymentRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		logger:      factory.NewModuleLogger("payment-service"),
	}
}

func (s *PaymentService) CreatePayment(ctx context.Context, paymentInformationID string, amount int64) (*entity.Payment, error) {
	if paymentInformationID == "" || amount < 0 {
		return nil, ErrInvalidRequest
	}

	now := time.Now().UTC()
	payment := &entity.Payment{
		ID:                   uuid.NewString(),
		PaymentInformationID: paymentInformationID,
		TotalAmount:          amount,
		Status:               types.PaymentStatusOpen,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"amount":     amount,
	}).Info("Created payment")

	return payment, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (*entity.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// UpdatePaymentStatus applies the requested transition. Transitioning into
// SUCCEEDED stamps payedAt; no other transition touches it. The primitive
// itself allows any target status, method-specific legality is enforced by
// the strategies.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, id string, status types.PaymentStatus) (*entity.Payment, error) {
	if !status.Valid() {
		return nil, ErrInvalidRequest
	}

	now := time.Now().UTC()
	var payedAt *time.Time
	if status == types.PaymentStatusSucceeded {
		payedAt = &now
	}

	if err := s.paymentRepo.UpdateStatus(ctx, id, status, payedAt, now); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": id,
		"status":     status,
	}).Info("Updated payment status")

	return s.GetPayment(ctx, id)
}

// FailIfPending is the compare-and-set transition used by the sweep. Returns
// false without error when a concurrent callback already moved the payment
// out of PENDING.
func (s *PaymentService) FailIfPending(ctx context.Context, id string) (bool, error) {
	return s.paymentRepo.UpdateStatusIfPending(ctx, id, types.PaymentStatusFailed, time.Now().UTC())
}

func (s *PaymentService) IncrementRetries(ctx context.Context, id string) (int32, error) {
	retries, err := s.paymentRepo.IncrementRetries(ctx, id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return 0, ErrPaymentNotFound
		}
		return 0, err
	}
	return retries, nil
}

func (s *PaymentService) ListOverduePending(ctx context.Context, method types.PaymentMethod, cutoff time.Time, limit int32) ([]*entity.Payment, error) {
	return s.paymentRepo.ListOverduePending(ctx, method, cutoff, limit)
}

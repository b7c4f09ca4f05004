package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/metrics"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

// SweepPolicy is the timeout policy of one method strategy: payments of the
// method still PENDING after Threshold are considered stale.
type SweepPolicy struct {
	Method    types.PaymentMethod
	Threshold time.Duration
	BatchSize int32
}

// Sweeper is the system's only timeout mechanism. There is no per-payment
// timer; staleness is detected by the periodic scan, so worst-case detection
// latency equals the sweep interval.
type Sweeper struct {
	payments *PaymentService
	events   eventBuilder
	logger   logrus.FieldLogger
}

func NewSweeper(payments *PaymentService, events eventBuilder) *Sweeper {
	return &Sweeper{
		payments: payments,
		events:   events,
		logger:   factory.NewModuleLogger("overdue-sweeper"),
	}
}

// RunSweepBatch forces overdue PENDING payments of the policy's method to
// FAILED and publishes one payment-failed event per swept payment. The
// transition is a compare-and-set: a payment a concurrent callback already
// resolved is skipped without emitting.
func (s *Sweeper) RunSweepBatch(ctx context.Context, policy SweepPolicy) error {
	now := time.Now().UTC()
	cutoff := now.Add(-policy.Threshold)

	items, err := s.payments.ListOverduePending(ctx, policy.Method, cutoff, policy.BatchSize)
	if err != nil {
		return err
	}

	logger := s.logger.WithField("method", policy.Method)
	if len(items) > 0 {
		logger.WithField("count", len(items)).Info("Sweeping overdue pending payments")
	}

	var firstErr error
	for _, payment := range items {
		if payment == nil {
			continue
		}

		applied, err := s.payments.FailIfPending(ctx, payment.ID)
		if err != nil {
			firstErr = keepFirstErr(firstErr, err)
			continue
		}
		if !applied {
			// A callback won the race and resolved the payment.
			continue
		}

		metrics.SweptPayments.WithLabelValues(string(policy.Method)).Inc()
		logger.WithField("payment_id", payment.ID).Info("Payment overdue, set to failed")

		if err := s.events.BuildPaymentFailedEvent(ctx, payment.ID); err != nil {
			firstErr = keepFirstErr(firstErr, err)
			continue
		}

		if err := s.events.RetireSaga(ctx, payment.ID); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}

	return firstErr
}

func keepFirstErr(current error, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

type sweepFixture struct {
	paymentRepo *fakePaymentRepo
	openOrders  *fakeOpenOrderRepo
	publisher   *fakePublisher
	payments    *PaymentService
	sweeper     *Sweeper
}

func newSweepFixture() *sweepFixture {
	paymentRepo := newFakePaymentRepo()
	openOrders := newFakeOpenOrderRepo()
	publisher := &fakePublisher{}
	payments := NewPaymentService(paymentRepo)

	return &sweepFixture{
		paymentRepo: paymentRepo,
		openOrders:  openOrders,
		publisher:   publisher,
		payments:    payments,
		sweeper:     NewSweeper(payments, NewEventBuilder(openOrders, publisher)),
	}
}

func (f *sweepFixture) seedPendingPayment(t *testing.T, orderID string, method types.PaymentMethod, age time.Duration) string {
	t.Helper()

	infoID := "info-" + orderID
	f.paymentRepo.methods[infoID] = method

	payment, err := f.payments.CreatePayment(context.Background(), infoID, 2500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.payments.UpdatePaymentStatus(context.Background(), payment.ID, types.PaymentStatusPending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.paymentRepo.payments[payment.ID].CreatedAt = time.Now().UTC().Add(-age)
	seedOpenOrder(f.openOrders, payment.ID, orderID)
	return payment.ID
}

func prepaymentPolicy() SweepPolicy {
	return SweepPolicy{
		Method:    types.PaymentMethodPrepayment,
		Threshold: 7 * 24 * time.Hour,
		BatchSize: 100,
	}
}

func TestSweepFailsOverduePendingPayment(t *testing.T) {
	f := newSweepFixture()
	paymentID := f.seedPendingPayment(t, "o-1", types.PaymentMethodPrepayment, 8*24*time.Hour)

	if err := f.sweeper.RunSweepBatch(context.Background(), prepaymentPolicy()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, err := f.payments.GetPayment(context.Background(), paymentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != types.PaymentStatusFailed {
		t.Fatalf("expected FAILED, got %s", item.Status)
	}
	if f.publisher.countByTopic(types.TopicPaymentFailed) != 1 {
		t.Fatal("expected exactly one payment-failed event")
	}
	if _, ok := f.openOrders.byPaymentID[paymentID]; ok {
		t.Fatal("expected saga to be retired")
	}
}

func TestSweepLeavesRecentPaymentAlone(t *testing.T) {
	f := newSweepFixture()
	paymentID := f.seedPendingPayment(t, "o-1", types.PaymentMethodPrepayment, 6*24*time.Hour)

	if err := f.sweeper.RunSweepBatch(context.Background(), prepaymentPolicy()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, err := f.payments.GetPayment(context.Background(), paymentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != types.PaymentStatusPending {
		t.Fatalf("expected PENDING, got %s", item.Status)
	}
	if len(f.publisher.published) != 0 {
		t.Fatal("expected no events for a payment inside the threshold")
	}
}

func TestSweepIgnoresOtherMethods(t *testing.T) {
	f := newSweepFixture()
	paymentID := f.seedPendingPayment(t, "o-1", types.PaymentMethodInvoice, 8*24*time.Hour)

	if err := f.sweeper.RunSweepBatch(context.Background(), prepaymentPolicy()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, err := f.payments.GetPayment(context.Background(), paymentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != types.PaymentStatusPending {
		t.Fatalf("expected PENDING, got %s", item.Status)
	}
}

func TestSweepSkipsConcurrentlyResolvedPayment(t *testing.T) {
	f := newSweepFixture()
	paymentID := f.seedPendingPayment(t, "o-1", types.PaymentMethodPrepayment, 8*24*time.Hour)

	batch, err := f.payments.ListOverduePending(context.Background(), types.PaymentMethodPrepayment, time.Now().UTC(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("expected one overdue payment, got %d", len(batch))
	}
	if _, err := f.payments.UpdatePaymentStatus(context.Background(), paymentID, types.PaymentStatusSucceeded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.sweeper.RunSweepBatch(context.Background(), prepaymentPolicy()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, err := f.payments.GetPayment(context.Background(), paymentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != types.PaymentStatusSucceeded {
		t.Fatalf("expected SUCCEEDED to survive the sweep, got %s", item.Status)
	}
	if f.publisher.countByTopic(types.TopicPaymentFailed) != 0 {
		t.Fatal("expected no payment-failed event for a resolved payment")
	}
}

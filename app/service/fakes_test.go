package service

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/provider"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/repository"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

type fakePaymentRepo struct {
	payments map[string]*entity.Payment
	methods  map[string]types.PaymentMethod
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: map[string]*entity.Payment{},
		methods:  map[string]types.PaymentMethod{},
	}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	if _, ok := r.payments[payment.ID]; ok {
		return repository.ErrPaymentAlreadyExists
	}
	copyItem := *payment
	r.payments[payment.ID] = &copyItem
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id string) (*entity.Payment, error) {
	item, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, id string, status types.PaymentStatus, payedAt *time.Time, now time.Time) error {
	item, ok := r.payments[id]
	if !ok {
		return repository.ErrPaymentNotFound
	}
	item.Status = status
	if payedAt != nil {
		stamp := *payedAt
		item.PayedAt = &stamp
	}
	item.UpdatedAt = now
	return nil
}

func (r *fakePaymentRepo) UpdateStatusIfPending(_ context.Context, id string, status types.PaymentStatus, now time.Time) (bool, error) {
	item, ok := r.payments[id]
	if !ok || item.Status != types.PaymentStatusPending {
		return false, nil
	}
	item.Status = status
	item.UpdatedAt = now
	return true, nil
}

func (r *fakePaymentRepo) IncrementRetries(_ context.Context, id string, now time.Time) (int32, error) {
	item, ok := r.payments[id]
	if !ok {
		return 0, repository.ErrPaymentNotFound
	}
	item.NumberOfRetries++
	item.UpdatedAt = now
	return item.NumberOfRetries, nil
}

func (r *fakePaymentRepo) ListOverduePending(_ context.Context, method types.PaymentMethod, cutoff time.Time, limit int32) ([]*entity.Payment, error) {
	items := make([]*entity.Payment, 0)
	for _, item := range r.payments {
		if item.Status != types.PaymentStatusPending {
			continue
		}
		if r.methods[item.PaymentInformationID] != method {
			continue
		}
		if item.CreatedAt.After(cutoff) {
			continue
		}
		copyItem := *item
		items = append(items, &copyItem)
		if limit > 0 && int32(len(items)) >= limit {
			break
		}
	}
	return items, nil
}

type fakeOpenOrderRepo struct {
	byPaymentID map[string]*entity.OpenOrder
	createErr   error
}

func newFakeOpenOrderRepo() *fakeOpenOrderRepo {
	return &fakeOpenOrderRepo{byPaymentID: map[string]*entity.OpenOrder{}}
}

func (r *fakeOpenOrderRepo) Create(_ context.Context, openOrder *entity.OpenOrder) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, item := range r.byPaymentID {
		if item.OrderID == openOrder.OrderID || item.PaymentID == openOrder.PaymentID {
			return repository.ErrOpenOrderAlreadyExists
		}
	}
	copyItem := *openOrder
	r.byPaymentID[openOrder.PaymentID] = &copyItem
	return nil
}

func (r *fakeOpenOrderRepo) FindByPaymentID(_ context.Context, paymentID string) (*entity.OpenOrder, error) {
	item, ok := r.byPaymentID[paymentID]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (r *fakeOpenOrderRepo) ExistsByOrderID(_ context.Context, orderID string) (bool, error) {
	for _, item := range r.byPaymentID {
		if item.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOpenOrderRepo) DeleteByPaymentID(_ context.Context, paymentID string) error {
	if _, ok := r.byPaymentID[paymentID]; !ok {
		return repository.ErrOpenOrderNotFound
	}
	delete(r.byPaymentID, paymentID)
	return nil
}

func (r *fakeOpenOrderRepo) DeleteByOrderID(_ context.Context, orderID string) error {
	for paymentID, item := range r.byPaymentID {
		if item.OrderID == orderID {
			delete(r.byPaymentID, paymentID)
			return nil
		}
	}
	return repository.ErrOpenOrderNotFound
}

type fakePaymentInfoRepo struct {
	infos map[string]*entity.PaymentInformation
}

func newFakePaymentInfoRepo() *fakePaymentInfoRepo {
	return &fakePaymentInfoRepo{infos: map[string]*entity.PaymentInformation{}}
}

func (r *fakePaymentInfoRepo) Create(_ context.Context, info *entity.PaymentInformation) error {
	if _, ok := r.infos[info.ID]; ok {
		return repository.ErrPaymentInformationAlreadyExists
	}
	copyItem := *info
	r.infos[info.ID] = &copyItem
	return nil
}

func (r *fakePaymentInfoRepo) FindByID(_ context.Context, id string) (*entity.PaymentInformation, error) {
	item, ok := r.infos[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

type fakePublisher struct {
	published  []publishedEvent
	publishErr error
}

type publishedEvent struct {
	topic string
	order types.OrderContext
}

func (p *fakePublisher) Publish(topic string, payload interface{}) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	event := publishedEvent{topic: topic}
	if item, ok := payload.(*types.PaymentEventPayload); ok {
		event.order = item.Order
	}
	p.published = append(p.published, event)
	return nil
}

func (p *fakePublisher) countByTopic(topic string) int {
	count := 0
	for _, item := range p.published {
		if item.topic == topic {
			count++
		}
	}
	return count
}

type fakeConnector struct {
	sends   []*provider.RegisterPayment
	sendErr error
}

func (c *fakeConnector) Send(_ context.Context, payload *provider.RegisterPayment) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sends = append(c.sends, payload)
	return nil
}

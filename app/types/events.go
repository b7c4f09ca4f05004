package types

import "time"

// Bus topics. Inbound topics are owned by the emitting service, outbound
// topics by this one.
const (
	TopicOrderValidationSucceeded = "discount.order.validation-succeeded"
	TopicUserCreated              = "user.user.created"

	TopicPaymentEnabled   = "payment.payment.payment-enabled"
	TopicPaymentProcessed = "payment.payment.payment-processed"
	TopicPaymentFailed    = "payment.payment.payment-failed"
)

// OrderItem is a single position of an order, forwarded untouched.
type OrderItem struct {
	ID                 string `json:"id"`
	ProductVariantID   string `json:"productVariantId"`
	Count              int32  `json:"count"`
	CompensatablePrice int64  `json:"compensatablePrice"`
}

// OrderContext is the read-only snapshot of an order owned by the order
// service. The saga never mutates it, it only carries it through events.
type OrderContext struct {
	ID                       string      `json:"id"`
	UserID                   string      `json:"userId"`
	CreatedAt                time.Time   `json:"createdAt"`
	OrderStatus              string      `json:"orderStatus"`
	CompensatableOrderAmount int64       `json:"compensatableOrderAmount"`
	PlacedAt                 *time.Time  `json:"placedAt,omitempty"`
	RejectionReason          string      `json:"rejectionReason,omitempty"`
	OrderItems               []OrderItem `json:"orderItems"`
	ShipmentAddressID        string      `json:"shipmentAddressId"`
	InvoiceAddressID         string      `json:"invoiceAddressId"`
	PaymentInformationID     string      `json:"paymentInformationId"`
}

// OrderValidationSucceededEvent is consumed from the discount service and
// starts the payment saga.
type OrderValidationSucceededEvent struct {
	Order OrderContext `json:"order"`
}

// UserCreatedEvent triggers provisioning of default payment informations.
type UserCreatedEvent struct {
	ID string `json:"id"`
}

// PaymentEventPayload is the payload of every outbound payment event. The
// order-owning service only needs its own context back.
type PaymentEventPayload struct {
	Order OrderContext `json:"order"`
}

package types

// PaymentStatus is the lifecycle state of a payment.
//
// OPEN is the creation state, PENDING means the provider registration is in
// flight, SUCCEEDED and FAILED are terminal. INKASSO is reached from FAILED
// when a credit-card debt is handed to an external collections service.
type PaymentStatus string

const (
	PaymentStatusOpen      PaymentStatus = "OPEN"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusInkasso   PaymentStatus = "INKASSO"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusOpen, PaymentStatusPending, PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusInkasso:
		return true
	default:
		return false
	}
}

// PaymentMethod selects the strategy that drives a payment's saga.
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodPrepayment PaymentMethod = "PREPAYMENT"
	PaymentMethodInvoice    PaymentMethod = "INVOICE"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodPrepayment, PaymentMethodInvoice:
		return true
	default:
		return false
	}
}

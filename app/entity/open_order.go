package entity

import (
	"time"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

// OpenOrder correlates a payment with the order context that originated it.
// A row exists exactly while the saga for that payment is in flight; it is
// created together with the payment and deleted on the terminal transition.
type OpenOrder struct {
	PaymentID string
	OrderID   string

	Order types.OrderContext

	CreatedAt time.Time
}

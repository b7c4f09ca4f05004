package entity

import (
	"time"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

type PaymentInformation struct {
	ID string

	UserID        string
	PaymentMethod types.PaymentMethod

	// Method-specific public details, e.g. masked card number or IBAN.
	MethodDetails map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

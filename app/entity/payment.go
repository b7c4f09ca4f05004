package entity

import (
	"time"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

type Payment struct {
	ID string

	PaymentInformationID string

	TotalAmount int64

	Status  types.PaymentStatus
	PayedAt *time.Time

	NumberOfRetries int32

	CreatedAt time.Time
	UpdatedAt time.Time
}

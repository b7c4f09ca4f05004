package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-payment-orchestration/app/entity"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

func PaymentToResponse(item *entity.Payment) *types.PaymentResponse {
	if item == nil {
		return nil
	}

	payedAt := ""
	if item.PayedAt != nil {
		payedAt = item.PayedAt.UTC().Format(time.RFC3339)
	}

	return &types.PaymentResponse{
		ID:                   item.ID,
		PaymentInformationID: item.PaymentInformationID,
		TotalAmount:          item.TotalAmount,
		Status:               item.Status,
		PayedAt:              payedAt,
		NumberOfRetries:      item.NumberOfRetries,
		CreatedAt:            item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

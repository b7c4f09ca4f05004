package types

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type AckResponse struct {
	Status string `json:"status"`
}

type PaymentResponse struct {
	ID                   string        `json:"id"`
	PaymentInformationID string        `json:"paymentInformationId"`
	TotalAmount          int64         `json:"totalAmount"`
	Status               PaymentStatus `json:"status"`
	PayedAt              string        `json:"payedAt,omitempty"`
	NumberOfRetries      int32         `json:"numberOfRetries"`
	CreatedAt            string        `json:"createdAt"`
	UpdatedAt            string        `json:"updatedAt"`
}

type PaymentEnvelopeResponse struct {
	Payment *PaymentResponse `json:"payment"`
}

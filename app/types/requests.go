package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

type UpdatePaymentStatusRequest struct {
	PaymentID string        `json:"paymentId"`
	Status    PaymentStatus `json:"status"`
}

func NewUpdatePaymentStatusRequestFromContext(ctx echo.Context) (*UpdatePaymentStatusRequest, error) {
	var body UpdatePaymentStatusRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.PaymentID = strings.TrimSpace(body.PaymentID)
	body.Status = PaymentStatus(strings.ToUpper(strings.TrimSpace(string(body.Status))))

	return &body, nil
}

func (r *UpdatePaymentStatusRequest) Validate() error {
	if r.PaymentID == "" {
		return errors.New("paymentId is required")
	}
	if !r.Status.Valid() {
		return errors.New("status is invalid")
	}
	return nil
}

type PaymentCapturedRequest struct {
	PaymentID string `json:"paymentId"`
}

func NewPaymentCapturedRequestFromContext(ctx echo.Context) (*PaymentCapturedRequest, error) {
	var body PaymentCapturedRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.PaymentID = strings.TrimSpace(body.PaymentID)

	return &body, nil
}

func (r *PaymentCapturedRequest) Validate() error {
	if r.PaymentID == "" {
		return errors.New("paymentId is required")
	}
	return nil
}

type GetPaymentRequest struct {
	ID string
}

func NewGetPaymentRequestFromContext(ctx echo.Context) (*GetPaymentRequest, error) {
	return &GetPaymentRequest{ID: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *GetPaymentRequest) Validate() error {
	if r.ID == "" {
		return errors.New("invalid payment id")
	}
	return nil
}

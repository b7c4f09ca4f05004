package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/factory"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/mapper"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/provider"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/service"
	"github.com/vibast-solutions/ms-go-payment-orchestration/app/types"
)

// ProviderConnectionController is the HTTP surface the payment provider calls
// back into. It translates callbacks into method-strategy dispatches and maps
// service errors to status codes.
type ProviderConnectionController struct {
	router   *service.MethodRouter
	payments *service.PaymentService
	events   *service.EventBuilder
	logger   logrus.FieldLogger
}

func NewProviderConnectionController(router *service.MethodRouter, payments *service.PaymentService, events *service.EventBuilder) *ProviderConnectionController {
	return &ProviderConnectionController{
		router:   router,
		payments: payments,
		events:   events,
		logger:   factory.NewModuleLogger("provider-connection-controller"),
	}
}

func (c *ProviderConnectionController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

// UpdatePaymentStatus receives asynchronous status callbacks from the
// provider and routes them through the payment's method strategy.
func (c *ProviderConnectionController) UpdatePaymentStatus(ctx echo.Context) error {
	req, err := types.NewUpdatePaymentStatusRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.router.UpdatePaymentStatus(ctx.Request().Context(), req.PaymentID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPaymentNotFound), errors.Is(err, service.ErrPaymentInformationNotFound), errors.Is(err, service.ErrOpenOrderNotFound):
			return c.writeError(ctx, http.StatusNotFound, "payment not found")
		case errors.Is(err, service.ErrMethodNotImplemented):
			return c.writeError(ctx, http.StatusNotImplemented, err.Error())
		case errors.Is(err, provider.ErrProviderUnavailable):
			return c.writeError(ctx, http.StatusBadGateway, "payment provider unavailable")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Update payment status failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.PaymentEnvelopeResponse{Payment: mapper.PaymentToResponse(item)})
}

// PaymentCaptured confirms that the provider captured the amount, which
// releases the order to invoicing via the payment-processed event.
func (c *ProviderConnectionController) PaymentCaptured(ctx echo.Context) error {
	req, err := types.NewPaymentCapturedRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.events.BuildPaymentProcessedEvent(ctx.Request().Context(), req.PaymentID); err != nil {
		if errors.Is(err, service.ErrOpenOrderNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "open order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Payment captured handling failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.AckResponse{Status: "processed"})
}

func (c *ProviderConnectionController) GetPayment(ctx echo.Context) error {
	req, err := types.NewGetPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.payments.GetPayment(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "payment not found")
		}
		c.logger.WithError(err).Error("Get payment failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.PaymentEnvelopeResponse{Payment: mapper.PaymentToResponse(item)})
}

func (c *ProviderConnectionController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}

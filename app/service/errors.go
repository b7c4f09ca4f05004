package service

import "errors"

var (
	ErrInvalidRequest             = errors.New("invalid request")
	ErrPaymentNotFound            = errors.New("payment not found")
	ErrPaymentInformationNotFound = errors.New("payment information not found")
	ErrOpenOrderNotFound          = errors.New("open order not found")
	ErrMethodNotImplemented       = errors.New("payment method not implemented")
	ErrDuplicateOrder             = errors.New("payment process already started for order")
)

package payment

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrForbidden          = errors.New("forbidden")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrFetchFailed      = errors.New("could not load data from catalog")
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProductId = errors.New("invalid product id")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrQuantityTooLarge = errors.New("quantity is too large")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCartChanged      = errors.New("cart changed during checkout, please review it")
	ErrValidation       = errors.New("please fix the errors in the form")
	ErrInvalidTheme     = errors.New("theme must be light or dark")
	ErrCorruptState     = errors.New("stored state is corrupt")
	ErrStateNotFound    = errors.New("stored state not found")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
)

var statusBySentinel = []struct {
	err        error
	statusCode int
}{
	{inErrors.ErrProductNotFound, http.StatusNotFound},
	{inErrors.ErrInvalidProductId, http.StatusNotFound},
	{inErrors.ErrInvalidQuantity, http.StatusBadRequest},
	{inErrors.ErrQuantityTooLarge, http.StatusBadRequest},
	{inErrors.ErrInvalidTheme, http.StatusBadRequest},
	{inErrors.ErrEmptyCart, http.StatusConflict},
	{inErrors.ErrCartChanged, http.StatusConflict},
	{inErrors.ErrValidation, http.StatusUnprocessableEntity},
	{inErrors.ErrFetchFailed, http.StatusBadGateway},
}

// StatusCode classifies err by the sentinel it wraps. The message is the
// sentinel's, so wrapped causes never reach the client.
func StatusCode(err error) (int, string) {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return s.statusCode, s.err.Error()
		}
	}
	return http.StatusInternalServerError, constants.MSG_GENERIC_ERROR
}

func WriteError(c context.Context, w http.ResponseWriter, err error) {
	statusCode, message := StatusCode(err)
	WriteFailed(c, w, statusCode, message)
}

// WriteView writes a failed envelope carrying a view document, used for the
// empty-state and not-found views.
func WriteView(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	message string,
	data map[string]interface{},
) {
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     STATUS_FAILED,
		"statusCode": statusCode,
		"message":    message,
		"data":       data,
	})
}

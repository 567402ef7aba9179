package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/domain"
	cartRes "github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/checkout/pkg/request"
	"github.com/Alturino/storefront/checkout/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/format"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/otel"
)

var formFields = []string{
	format.FieldEmail,
	format.FieldFirstName,
	format.FieldLastName,
	format.FieldAddress,
	format.FieldCity,
	format.FieldPostalCode,
	format.FieldCardNumber,
	format.FieldExpiryDate,
	format.FieldCVV,
}

type CheckoutService interface {
	Submit(c context.Context, form request.Form) (response.Checkout, error)
}

type CartReader interface {
	Cart() domain.Cart
	GetTotalPrice() decimal.Decimal
}

type CheckoutController struct {
	checkout CheckoutService
	cart     CartReader
}

func AttachCheckoutController(mux *mux.Router, checkout CheckoutService, cart CartReader) {
	controller := CheckoutController{checkout: checkout, cart: cart}

	mux.HandleFunc("/checkout", controller.GetCheckout).Methods(http.MethodGet)
	mux.HandleFunc("/checkout", controller.Submit).Methods(http.MethodPost)
}

func (ctrl CheckoutController) GetCheckout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController GetCheckout")
	defer span.End()

	cart := ctrl.cart.Cart()
	cart.Total = ctrl.cart.GetTotalPrice()
	zerolog.Ctx(c).
		Trace().
		Str(constants.KEY_TAG, "CheckoutController GetCheckout").
		Object(constants.KEY_CART, cart).
		Msg("got cart")
	if cart.IsEmpty() {
		writeEmptyCheckout(c, w, http.StatusOK)
		return
	}
	inHttp.WriteSuccess(c, w, "checkout summary", map[string]interface{}{
		"view":   inHttp.VIEW_CHECKOUT,
		"state":  response.StateIdle,
		"cart":   cartRes.NewCart(cart),
		"fields": formFields,
	})
}

func (ctrl CheckoutController) Submit(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Submit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CheckoutController Submit").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	values := map[string]string{}
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	form := request.NewForm(values)
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "submitting checkout").Logger()
	logger.Info().Msg("submitting checkout")
	c = logger.WithContext(c)
	result, err := ctrl.checkout.Submit(c, form)
	if err != nil {
		err = fmt.Errorf("failed submitting checkout with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		switch {
		case errors.Is(err, inErrors.ErrEmptyCart):
			writeEmptyCheckout(c, w, http.StatusConflict)
		case errors.Is(err, inErrors.ErrCartChanged):
			cart := ctrl.cart.Cart()
			cart.Total = ctrl.cart.GetTotalPrice()
			inHttp.WriteView(c, w, http.StatusConflict, inErrors.ErrCartChanged.Error(), map[string]interface{}{
				"view":  inHttp.VIEW_CHECKOUT,
				"state": result.State,
				"cart":  cartRes.NewCart(cart),
			})
		case errors.Is(err, inErrors.ErrValidation):
			form.Errors = result.Errors
			inHttp.WriteView(c, w, http.StatusUnprocessableEntity, inErrors.ErrValidation.Error(), map[string]interface{}{
				"view":   inHttp.VIEW_CHECKOUT,
				"state":  result.State,
				"form":   form,
				"errors": result.Errors,
			})
		default:
			inHttp.WriteError(c, w, err)
		}
		return
	}
	logger.Info().Object(constants.KEY_ORDER, result.Order).Msg("submitted checkout")

	inHttp.WriteSuccess(c, w, constants.MSG_ORDER_PLACED, map[string]interface{}{
		"view":  inHttp.VIEW_ORDER_COMPLETE,
		"state": result.State,
		"order": result.Order,
	})
}

func writeEmptyCheckout(c context.Context, w http.ResponseWriter, statusCode int) {
	data := map[string]interface{}{"view": inHttp.VIEW_CHECKOUT_EMPTY}
	if statusCode == http.StatusOK {
		inHttp.WriteSuccess(c, w, constants.MSG_CART_EMPTY, data)
		return
	}
	inHttp.WriteView(c, w, statusCode, constants.MSG_CART_EMPTY, data)
}

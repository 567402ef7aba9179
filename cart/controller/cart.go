package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/domain"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	catalogRes "github.com/Alturino/storefront/catalog/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	notification "github.com/Alturino/storefront/notification/pkg/response"
)

type CartService interface {
	AddItem(c context.Context, product catalogRes.Product, quantity int) (domain.Cart, error)
	RemoveItem(c context.Context, productID int) domain.Cart
	UpdateQuantity(c context.Context, productID int, quantity int) (domain.Cart, error)
	ClearCart(c context.Context) domain.Cart
	Cart() domain.Cart
	GetTotalPrice() decimal.Decimal
}

type ProductFinder interface {
	GetProduct(c context.Context, id int) (catalogRes.Product, error)
}

type Notifier interface {
	Success(c context.Context, message string, description ...string) notification.Notification
	Info(c context.Context, message string, description ...string) notification.Notification
}

type CartController struct {
	cart     CartService
	catalog  ProductFinder
	notifier Notifier
	validate *validator.Validate
}

func AttachCartController(
	mux *mux.Router,
	cart CartService,
	catalog ProductFinder,
	notifier Notifier,
) {
	controller := CartController{cart: cart, catalog: catalog, notifier: notifier, validate: validate.New()}

	router := mux.PathPrefix("/cart").Subrouter()
	router.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	router.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{productId}", controller.UpdateQuantity).Methods(http.MethodPut)
	router.HandleFunc("/items/{productId}", controller.RemoveItem).Methods(http.MethodDelete)
}

func (ctrl CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	cart := ctrl.cart.Cart()
	cart.Total = ctrl.cart.GetTotalPrice()
	zerolog.Ctx(c).
		Trace().
		Str(constants.KEY_TAG, "CartController GetCart").
		Object(constants.KEY_CART, cart).
		Msg("got cart")
	writeCart(c, w, "found cart", cart)
}

func (ctrl CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController AddItem").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.AddCartItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().
		Str(constants.KEY_PROCESS, "validating request body").
		Int(constants.KEY_PRODUCT_ID, reqBody.ProductId).
		Int(constants.KEY_QUANTITY, reqBody.Quantity).
		Logger()
	logger.Trace().Msg("validating request body")
	if err := ctrl.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "getting product").Logger()
	logger.Info().Msg("getting product")
	c = logger.WithContext(c)
	product, err := ctrl.catalog.GetProduct(c, reqBody.ProductId)
	if err != nil {
		err = fmt.Errorf("failed getting product with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Object(constants.KEY_PRODUCT, product).Msg("got product")

	logger = logger.With().Str(constants.KEY_PROCESS, "adding item to cart").Logger()
	logger.Info().Msg("adding item to cart")
	quantity := reqBody.QuantityOrDefault()
	cart, err := ctrl.cart.AddItem(c, product, quantity)
	if err != nil {
		err = fmt.Errorf("failed adding item to cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("added item to cart")

	ctrl.notifier.Success(c, constants.MSG_PRODUCT_ADDED, fmt.Sprintf("%d x %q", quantity, product.Title))
	writeCart(c, w, "added item to cart", cart)
}

func (ctrl CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController UpdateQuantity").
		Any(constants.KEY_PATH_VALUES, mux.Vars(r)).
		Logger()

	productID, ok := parseProductID(c, w, r)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	reqBody := request.UpdateCartItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	if err := ctrl.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}

	quantity := *reqBody.Quantity
	logger = logger.With().
		Str(constants.KEY_PROCESS, "updating quantity").
		Int(constants.KEY_QUANTITY, quantity).
		Logger()
	logger.Info().Msg("updating quantity")
	cart, err := ctrl.cart.UpdateQuantity(logger.WithContext(c), productID, quantity)
	if err != nil {
		err = fmt.Errorf("failed updating quantity with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("updated quantity")

	if quantity <= 0 {
		ctrl.notifier.Info(c, constants.MSG_PRODUCT_REMOVED)
	}
	writeCart(c, w, constants.MSG_CART_UPDATED, cart)
}

func (ctrl CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	productID, ok := parseProductID(c, w, r)
	if !ok {
		return
	}

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController RemoveItem").
		Str(constants.KEY_PROCESS, "removing item").
		Int(constants.KEY_PRODUCT_ID, productID).
		Logger()
	logger.Info().Msg("removing item")
	cart := ctrl.cart.RemoveItem(logger.WithContext(c), productID)
	logger.Info().Msg("removed item")

	ctrl.notifier.Info(c, constants.MSG_PRODUCT_REMOVED)
	writeCart(c, w, constants.MSG_PRODUCT_REMOVED, cart)
}

func (ctrl CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController ClearCart").
		Str(constants.KEY_PROCESS, "clearing cart").
		Logger()
	logger.Info().Msg("clearing cart")
	cart := ctrl.cart.ClearCart(logger.WithContext(c))
	logger.Info().Msg("cleared cart")

	ctrl.notifier.Info(c, constants.MSG_CART_CLEARED)
	writeCart(c, w, constants.MSG_CART_CLEARED, cart)
}

func parseProductID(c context.Context, w http.ResponseWriter, r *http.Request) (int, bool) {
	span := otel.SpanFromContext(c)
	raw := mux.Vars(r)["productId"]
	productID, err := strconv.Atoi(raw)
	if err != nil || productID <= 0 {
		err = fmt.Errorf("productId=%s: %w", raw, inErrors.ErrInvalidProductId)
		inErrors.HandleError(err, span)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return productID, true
}

// writeCart renders the cart view, or the empty-state view when there are no
// lines.
func writeCart(c context.Context, w http.ResponseWriter, message string, cart domain.Cart) {
	if cart.IsEmpty() {
		inHttp.WriteSuccess(c, w, constants.MSG_CART_EMPTY, map[string]interface{}{
			"view": inHttp.VIEW_CART_EMPTY,
			"cart": response.NewCart(cart),
		})
		return
	}
	inHttp.WriteSuccess(c, w, message, map[string]interface{}{
		"view": inHttp.VIEW_CART,
		"cart": response.NewCart(cart),
	})
}

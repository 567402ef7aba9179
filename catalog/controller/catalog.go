package controller

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/domain"
	"github.com/Alturino/storefront/catalog/pkg/request"
	"github.com/Alturino/storefront/catalog/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/format"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
)

type CatalogService interface {
	ListProducts(c context.Context, filter request.ProductFilter) ([]response.Product, error)
	GetProduct(c context.Context, id int) (response.Product, error)
	GetCategories(c context.Context) ([]string, error)
}

type CartReader interface {
	GetItemQuantity(productID int) int
}

type CatalogController struct {
	catalog  CatalogService
	cart     CartReader
	validate *validator.Validate
}

func AttachCatalogController(router *mux.Router, catalog CatalogService, cart CartReader) {
	controller := CatalogController{catalog: catalog, cart: cart, validate: validate.New()}

	router.HandleFunc("/", controller.GetCatalog).Methods(http.MethodGet)
	router.HandleFunc("/product/{productId}", controller.GetProduct).Methods(http.MethodGet)
}

func (ctrl CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController GetCatalog")
	defer span.End()

	query := r.URL.Query()
	filter := request.ProductFilter{Category: query.Get("category"), Search: query.Get("search")}

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController GetCatalog").
		Str(constants.KEY_CATEGORY, filter.Category).
		Str(constants.KEY_SEARCH, filter.Search).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating filter").Logger()
	logger.Trace().Msg("validating filter")
	if err := ctrl.validate.StructCtx(c, filter); err != nil {
		err = fmt.Errorf("failed validating filter with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Trace().Msg("validated filter")

	logger = logger.With().Str(constants.KEY_PROCESS, "listing products").Logger()
	logger.Info().Msg("listing products")
	c = logger.WithContext(c)
	products, err := ctrl.catalog.ListProducts(c, filter)
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Int(constants.KEY_PRODUCTS, len(products)).Msg("listed products")

	logger = logger.With().Str(constants.KEY_PROCESS, "getting categories").Logger()
	logger.Info().Msg("getting categories")
	categories, err := ctrl.catalog.GetCategories(c)
	if err != nil {
		err = fmt.Errorf("failed getting categories with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("got categories")

	message := fmt.Sprintf("found %d products", len(products))
	if len(products) == 0 {
		message = "no products match the filters"
	}
	inHttp.WriteSuccess(c, w, message, map[string]interface{}{
		"view":       inHttp.VIEW_CATALOG,
		"products":   response.NewProductCards(products),
		"categories": categories,
		"count":      len(products),
		"filters":    filter,
	})
}

func (ctrl CatalogController) GetProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController GetProduct")
	defer span.End()

	pathValues := mux.Vars(r)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController GetProduct").
		Any(constants.KEY_PATH_VALUES, pathValues).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing productId").Logger()
	productID, err := strconv.Atoi(pathValues["productId"])
	if err != nil || productID <= 0 {
		err = fmt.Errorf("productId=%s: %w", pathValues["productId"], inErrors.ErrInvalidProductId)
		inErrors.HandleError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		writeProductNotFound(c, w, r)
		return
	}

	logger = logger.With().
		Int(constants.KEY_PRODUCT_ID, productID).
		Str(constants.KEY_PROCESS, "getting product").
		Logger()
	logger.Info().Msg("getting product")
	c = logger.WithContext(c)
	product, err := ctrl.catalog.GetProduct(c, productID)
	if err != nil {
		err = fmt.Errorf("failed getting product with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		if statusCode, _ := inHttp.StatusCode(err); statusCode == http.StatusNotFound {
			writeProductNotFound(c, w, r)
			return
		}
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Object(constants.KEY_PRODUCT, product).Msg("got product")

	inHttp.WriteSuccess(c, w, "found product", map[string]interface{}{
		"view": inHttp.VIEW_PRODUCT,
		"product": response.ProductDetail{
			Product:        product,
			FormattedPrice: format.FormatPrice(product.Price),
			InCart:         ctrl.cart.GetItemQuantity(product.ID),
			MaxQuantity:    domain.MaxQuantity,
		},
	})
}

func writeProductNotFound(c context.Context, w http.ResponseWriter, r *http.Request) {
	inHttp.WriteView(c, w, http.StatusNotFound, constants.MSG_PRODUCT_NOT_FOUND, map[string]interface{}{
		"view": inHttp.VIEW_NOT_FOUND,
		"path": r.URL.Path,
	})
}

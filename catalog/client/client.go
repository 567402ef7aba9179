package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/storefront/catalog/pkg/response"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
)

const (
	pathProducts          = "/products"
	pathProductById       = "/products/{id}"
	pathProductByCategory = "/products/category/{category}"
	pathCategories        = "/products/categories"
)

const (
	queryProducts   = "products"
	queryProduct    = "product"
	queryCategory   = "category"
	queryCategories = "categories"
)

// Client issues the four read-only catalog queries. It never retries.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(cfg config.Catalog) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetHeader(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        constants.APP_CATALOG_CLIENT,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(constants.APP_CATALOG_CLIENT).Set(0)

	return &Client{http: httpClient, breaker: breaker}
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

func (cl *Client) GetAllProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogClient GetAllProducts")
	defer span.End()

	products := []response.Product{}
	if _, err := cl.get(c, queryProducts, pathProducts, nil, &products); err != nil {
		inErrors.HandleError(err, span)
		return nil, err
	}
	if products == nil {
		products = []response.Product{}
	}
	return products, nil
}

// GetProductByID returns ErrProductNotFound on a 404 and on an empty or null
// body, which is how the public catalog answers unknown ids.
func (cl *Client) GetProductByID(c context.Context, id int) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogClient GetProductByID")
	defer span.End()

	var product *response.Product
	found, err := cl.get(
		c,
		queryProduct,
		pathProductById,
		map[string]string{"id": strconv.Itoa(id)},
		&product,
	)
	if err != nil {
		inErrors.HandleError(err, span)
		return response.Product{}, err
	}
	if !found || product == nil {
		err = fmt.Errorf("productId=%d: %w", id, inErrors.ErrProductNotFound)
		inErrors.HandleError(err, span)
		return response.Product{}, err
	}
	return *product, nil
}

func (cl *Client) GetProductsByCategory(
	c context.Context,
	category string,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogClient GetProductsByCategory")
	defer span.End()

	products := []response.Product{}
	_, err := cl.get(
		c,
		queryCategory,
		pathProductByCategory,
		map[string]string{"category": category},
		&products,
	)
	if err != nil {
		inErrors.HandleError(err, span)
		return nil, err
	}
	if products == nil {
		products = []response.Product{}
	}
	return products, nil
}

func (cl *Client) GetCategories(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "CatalogClient GetCategories")
	defer span.End()

	categories := []string{}
	if _, err := cl.get(c, queryCategories, pathCategories, nil, &categories); err != nil {
		inErrors.HandleError(err, span)
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// get reports found=false for a 404 or an empty/null body. Transport errors,
// 5xx and other non-2xx statuses become ErrFetchFailed.
func (cl *Client) get(
	c context.Context,
	query string,
	path string,
	pathParams map[string]string,
	result interface{},
) (found bool, err error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogClient get").
		Str(constants.KEY_QUERY, query).
		Str(constants.KEY_CATALOG_URL, cl.http.BaseURL+path).
		Any(constants.KEY_PATH_VALUES, pathParams).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "fetching catalog").Logger()
	logger.Info().Msg("fetching catalog")
	start := time.Now()
	res, err := cl.breaker.Execute(func() (interface{}, error) {
		req := cl.http.R().SetContext(c).SetPathParams(pathParams)
		if requestId := log.RequestIDFromContext(c); requestId != "" {
			req.SetHeader(inHttp.KEY_HEADER_REQUEST_ID, requestId)
		}
		resp, err := req.Get(path)
		if err != nil && c.Err() != nil {
			// a cancelled caller says nothing about catalog health
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return nil, fmt.Errorf("catalog responded with statusCode=%d", resp.StatusCode())
		}
		return resp, nil
	})
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(query, "error").Inc()
		err = fmt.Errorf("%w: failed fetching %s with error=%w", inErrors.ErrFetchFailed, path, err)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	resp, ok := res.(*resty.Response)
	if !ok || resp == nil {
		metrics.CatalogRequestsTotal.WithLabelValues(query, "cancelled").Inc()
		err = fmt.Errorf("%w: fetching %s cancelled with error=%w", inErrors.ErrFetchFailed, path, c.Err())
		logger.Warn().Err(err).Msg(err.Error())
		return false, err
	}
	logger = logger.With().
		Int(constants.KEY_STATUS_CODE, resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Logger()

	if resp.StatusCode() == http.StatusNotFound {
		metrics.CatalogRequestsTotal.WithLabelValues(query, "not_found").Inc()
		logger.Info().Msg("catalog responded not found")
		return false, nil
	}
	if !resp.IsSuccess() {
		metrics.CatalogRequestsTotal.WithLabelValues(query, "error").Inc()
		err = fmt.Errorf(
			"%w: catalog responded with statusCode=%d for %s",
			inErrors.ErrFetchFailed,
			resp.StatusCode(),
			path,
		)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}

	body := resp.Body()
	if len(body) == 0 || string(body) == "null" {
		metrics.CatalogRequestsTotal.WithLabelValues(query, "not_found").Inc()
		logger.Info().Msg("catalog responded with empty body")
		return false, nil
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding catalog response").Logger()
	if err = json.Unmarshal(body, result); err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(query, "error").Inc()
		err = fmt.Errorf("%w: failed decoding %s with error=%w", inErrors.ErrFetchFailed, path, err)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	metrics.CatalogRequestsTotal.WithLabelValues(query, "success").Inc()
	logger.Info().Msg("fetched catalog")

	return true, nil
}

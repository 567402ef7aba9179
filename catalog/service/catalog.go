package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Alturino/storefront/catalog/cache"
	"github.com/Alturino/storefront/catalog/pkg/request"
	"github.com/Alturino/storefront/catalog/pkg/response"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
)

type CatalogClient interface {
	GetAllProducts(c context.Context) ([]response.Product, error)
	GetProductByID(c context.Context, id int) (response.Product, error)
	GetProductsByCategory(c context.Context, category string) ([]response.Product, error)
	GetCategories(c context.Context) ([]string, error)
}

// CatalogService is the calling layer of the catalog client: it keeps query
// results fresh for a configured window and collapses identical in-flight
// queries. Caching is a convenience; cache failures fall through to the client.
type CatalogService struct {
	client CatalogClient
	cache  cache.QueryCache
	group  singleflight.Group
	cfg    config.Catalog
}

func NewCatalogService(
	client CatalogClient,
	cache cache.QueryCache,
	cfg config.Catalog,
) *CatalogService {
	return &CatalogService{client: client, cache: cache, cfg: cfg}
}

func (s *CatalogService) GetProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogService GetProducts")
	defer span.End()

	products, err := cached(c, s, cache.KEY_PRODUCTS, s.cfg.ProductsStaleTime, s.client.GetAllProducts)
	if err != nil {
		inErrors.HandleError(err, span)
		return nil, err
	}
	return products, nil
}

func (s *CatalogService) GetProductsByCategory(
	c context.Context,
	category string,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogService GetProductsByCategory")
	defer span.End()

	key := fmt.Sprintf(cache.KEY_PRODUCTS_BY_CATEGORY, category)
	products, err := cached(
		c,
		s,
		key,
		s.cfg.ProductsStaleTime,
		func(c context.Context) ([]response.Product, error) {
			return s.client.GetProductsByCategory(c, category)
		},
	)
	if err != nil {
		inErrors.HandleError(err, span)
		return nil, err
	}
	return products, nil
}

func (s *CatalogService) GetProduct(c context.Context, id int) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogService GetProduct")
	defer span.End()

	if id <= 0 {
		err := fmt.Errorf("productId=%d: %w", id, inErrors.ErrProductNotFound)
		inErrors.HandleError(err, span)
		return response.Product{}, err
	}

	key := fmt.Sprintf(cache.KEY_PRODUCT, id)
	product, err := cached(
		c,
		s,
		key,
		s.cfg.ProductStaleTime,
		func(c context.Context) (response.Product, error) {
			return s.client.GetProductByID(c, id)
		},
	)
	if err != nil {
		inErrors.HandleError(err, span)
		return response.Product{}, err
	}
	return product, nil
}

func (s *CatalogService) GetCategories(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "CatalogService GetCategories")
	defer span.End()

	categories, err := cached(c, s, cache.KEY_CATEGORIES, s.cfg.CategoryStaleTime, s.client.GetCategories)
	if err != nil {
		inErrors.HandleError(err, span)
		return nil, err
	}
	return categories, nil
}

// ListProducts queries by category when one is set, then narrows the result
// with FilterProducts.
func (s *CatalogService) ListProducts(
	c context.Context,
	filter request.ProductFilter,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogService ListProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogService ListProducts").
		Str(constants.KEY_CATEGORY, filter.Category).
		Str(constants.KEY_SEARCH, filter.Search).
		Logger()

	var (
		products []response.Product
		err      error
	)
	c = logger.WithContext(c)
	if filter.Category != "" {
		logger = logger.With().Str(constants.KEY_PROCESS, "getting products by category").Logger()
		logger.Info().Msg("getting products by category")
		products, err = s.GetProductsByCategory(c, filter.Category)
	} else {
		logger = logger.With().Str(constants.KEY_PROCESS, "getting products").Logger()
		logger.Info().Msg("getting products")
		products, err = s.GetProducts(c)
	}
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	filtered := FilterProducts(products, filter)
	logger.Info().Int("found", len(filtered)).Msg("listed products")
	return filtered, nil
}

// FilterProducts keeps products whose category equals filter.Category and
// whose title or description contains filter.Search, case-insensitively.
func FilterProducts(products []response.Product, filter request.ProductFilter) []response.Product {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	filtered := make([]response.Product, 0, len(products))
	for _, product := range products {
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(product.Title), search) &&
			!strings.Contains(strings.ToLower(product.Description), search) {
			continue
		}
		filtered = append(filtered, product)
	}
	return filtered
}

func cached[T any](
	c context.Context,
	s *CatalogService,
	key string,
	ttl time.Duration,
	fetch func(context.Context) (T, error),
) (T, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogService cached").
		Str(constants.KEY_CACHE_KEY, key).
		Logger()

	var value T
	logger = logger.With().Str(constants.KEY_PROCESS, "finding query in cache").Logger()
	err := s.cache.Get(c, key, &value)
	switch {
	case err == nil:
		metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
		logger.Debug().Msg("found query in cache")
		return value, nil
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		logger.Debug().Msg("query not in cache")
	default:
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		logger.Warn().Err(err).Msg("failed reading query cache, falling through to catalog")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "fetching query").Logger()
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		fetched, err := fetch(c)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(c, key, fetched, ttl); err != nil {
			logger.Warn().Err(err).Msg("failed writing query cache")
		}
		return fetched, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	logger.Debug().Bool("shared", shared).Msg("fetched query")
	return v.(T), nil
}

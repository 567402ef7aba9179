package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/catalog/pkg/request"
	"github.com/Alturino/storefront/catalog/pkg/response"
	"github.com/Alturino/storefront/catalog/service"
	inErrors "github.com/Alturino/storefront/internal/errors"
)

var seedProducts = []response.Product{
	{ID: 1, Title: "Backpack", Description: "Fits 15 inch laptops", Category: "men's clothing", Price: decimal.RequireFromString("1234.5")},
	{ID: 2, Title: "Silver Ring", Description: "Dragon", Category: "jewelery", Price: decimal.RequireFromString("9.99")},
}

type fakeCatalog struct {
	err error
}

func (f fakeCatalog) ListProducts(c context.Context, filter request.ProductFilter) ([]response.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return service.FilterProducts(seedProducts, filter), nil
}

func (f fakeCatalog) GetProduct(c context.Context, id int) (response.Product, error) {
	if f.err != nil {
		return response.Product{}, f.err
	}
	for _, product := range seedProducts {
		if product.ID == id {
			return product, nil
		}
	}
	return response.Product{}, inErrors.ErrProductNotFound
}

func (f fakeCatalog) GetCategories(c context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"jewelery", "men's clothing"}, nil
}

type fakeCart map[int]int

func (f fakeCart) GetItemQuantity(productID int) int {
	return f[productID]
}

type envelope struct {
	Status     string                 `json:"status"`
	StatusCode int                    `json:"statusCode"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data"`
}

func serve(t *testing.T, catalog CatalogService, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	router := mux.NewRouter()
	AttachCatalogController(router, catalog, fakeCart{2: 3})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	body := envelope{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

func TestGetCatalog(t *testing.T) {
	rec, body := serve(t, fakeCatalog{}, "/?search=RING")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "catalog", body.Data["view"])
	assert.Equal(t, float64(1), body.Data["count"])
	products := body.Data["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "$9.99", products[0].(map[string]interface{})["formattedPrice"])
	assert.Equal(t, "Jewelery", products[0].(map[string]interface{})["category"])
	assert.Len(t, body.Data["categories"], 2)
	assert.Equal(t, "RING", body.Data["filters"].(map[string]interface{})["search"])
}

func TestGetCatalogNoMatches(t *testing.T) {
	rec, body := serve(t, fakeCatalog{}, "/?category=electronics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body.Data["count"])
	assert.Equal(t, "no products match the filters", body.Message)
}

func TestGetCatalogRejectsLongSearch(t *testing.T) {
	rec, _ := serve(t, fakeCatalog{}, "/?search="+strings.Repeat("a", 201))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCatalogFetchFailure(t *testing.T) {
	rec, body := serve(t, fakeCatalog{err: inErrors.ErrFetchFailed}, "/")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "failed", body.Status)
	assert.Equal(t, inErrors.ErrFetchFailed.Error(), body.Message)
}

func TestGetProduct(t *testing.T) {
	tests := []struct {
		name               string
		catalog            fakeCatalog
		target             string
		expectedStatusCode int
		expectedView       string
	}{
		{name: "given existing product should return detail", target: "/product/2", expectedStatusCode: http.StatusOK, expectedView: "product"},
		{name: "given unknown product should return not found view", target: "/product/99", expectedStatusCode: http.StatusNotFound, expectedView: "not-found"},
		{name: "given non numeric id should return not found view", target: "/product/abc", expectedStatusCode: http.StatusNotFound, expectedView: "not-found"},
		{name: "given zero id should return not found view", target: "/product/0", expectedStatusCode: http.StatusNotFound, expectedView: "not-found"},
		{name: "given catalog failure should return bad gateway", catalog: fakeCatalog{err: inErrors.ErrFetchFailed}, target: "/product/1", expectedStatusCode: http.StatusBadGateway},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec, body := serve(t, test.catalog, test.target)
			assert.Equal(t, test.expectedStatusCode, rec.Code)
			if test.expectedView != "" {
				assert.Equal(t, test.expectedView, body.Data["view"])
			}
		})
	}
}

func TestGetProductIncludesCartQuantity(t *testing.T) {
	_, body := serve(t, fakeCatalog{}, "/product/2")

	product := body.Data["product"].(map[string]interface{})
	assert.Equal(t, float64(3), product["inCart"])
	assert.Equal(t, float64(10), product["maxQuantity"])
	assert.Equal(t, "Silver Ring", product["title"])
}

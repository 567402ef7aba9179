package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/cart/domain"
	cartService "github.com/Alturino/storefront/cart/service"
	catalogRes "github.com/Alturino/storefront/catalog/pkg/response"
	"github.com/Alturino/storefront/checkout/pkg/request"
	"github.com/Alturino/storefront/checkout/pkg/response"
	"github.com/Alturino/storefront/checkout/service"
	inErrors "github.com/Alturino/storefront/internal/errors"
	notificationService "github.com/Alturino/storefront/notification/service"
)

type memoryRepository struct{}

func (memoryRepository) Load(c context.Context) (domain.Cart, error) {
	return domain.Cart{}, inErrors.ErrStateNotFound
}

func (memoryRepository) Save(c context.Context, cart domain.Cart) error { return nil }

type envelope struct {
	Status     string                 `json:"status"`
	StatusCode int                    `json:"statusCode"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data"`
}

const validBody = `{
	"email": "jane@example.com",
	"firstName": "Jane",
	"lastName": "Doe",
	"address": "742 Evergreen Terrace",
	"city": "Springfield",
	"postalCode": "12345",
	"cardNumber": "1234 5678 9012 3456",
	"expiryDate": "12/99",
	"cvv": "123"
}`

type changedCartCheckout struct{}

func (changedCartCheckout) Submit(c context.Context, form request.Form) (response.Checkout, error) {
	return response.Checkout{State: response.StateIdle}, fmt.Errorf("failed completing order with error=%w", inErrors.ErrCartChanged)
}

func newRouter(t *testing.T, withItems bool) (*mux.Router, *cartService.CartService) {
	t.Helper()
	cart := cartService.NewCartService(context.Background(), memoryRepository{})
	if withItems {
		_, err := cart.AddItem(context.Background(), catalogRes.Product{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95")}, 2)
		require.NoError(t, err)
	}
	notifications := notificationService.NewNotificationService(0)
	t.Cleanup(notifications.Close)

	router := mux.NewRouter()
	AttachCheckoutController(router, service.NewCheckoutService(cart, notifications, 0), cart)
	return router, cart
}

func do(t *testing.T, router *mux.Router, method, body string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, "/checkout", bytes.NewBufferString(body)))
	resp := envelope{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestGetCheckout(t *testing.T) {
	router, _ := newRouter(t, true)
	statusCode, resp := do(t, router, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Equal(t, "checkout", resp.Data["view"])
	assert.Len(t, resp.Data["fields"], 9)
	summary, ok := resp.Data["cart"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "$219.90", summary["formattedTotal"])

	router, _ = newRouter(t, false)
	statusCode, resp = do(t, router, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Equal(t, "checkout-empty", resp.Data["view"])
}

func TestSubmitCheckout(t *testing.T) {
	router, cart := newRouter(t, true)

	statusCode, resp := do(t, router, http.MethodPost, validBody)
	require.Equal(t, http.StatusOK, statusCode)
	assert.Equal(t, "order-complete", resp.Data["view"])
	order := resp.Data["order"].(map[string]interface{})
	assert.Regexp(t, `^ORD-\d{8}$`, order["orderNumber"])
	assert.Equal(t, "$219.90", order["formattedTotal"])
	assert.Equal(t, float64(2), order["itemCount"])
	assert.True(t, cart.Cart().IsEmpty())
}

func TestSubmitCheckoutInvalidForm(t *testing.T) {
	router, cart := newRouter(t, true)

	statusCode, resp := do(t, router, http.MethodPost, `{"email":"jane","cvv":"12"}`)
	require.Equal(t, http.StatusUnprocessableEntity, statusCode)
	errs := resp.Data["errors"].(map[string]interface{})
	assert.Equal(t, "Email is not valid", errs["email"])
	assert.Equal(t, "CVV must be exactly 3 digits", errs["cvv"])
	assert.Equal(t, "idle", resp.Data["state"])
	assert.Equal(t, 2, cart.Cart().ItemCount)
}

func TestSubmitCheckoutEmptyCart(t *testing.T) {
	router, _ := newRouter(t, false)

	statusCode, resp := do(t, router, http.MethodPost, validBody)
	assert.Equal(t, http.StatusConflict, statusCode)
	assert.Equal(t, "checkout-empty", resp.Data["view"])
}

func TestSubmitCheckoutMalformedBody(t *testing.T) {
	router, _ := newRouter(t, true)

	statusCode, _ := do(t, router, http.MethodPost, `{"email":`)
	assert.Equal(t, http.StatusBadRequest, statusCode)
}

func TestSubmitWithChangedCartShowsCurrentCart(t *testing.T) {
	_, cart := newRouter(t, true)
	router := mux.NewRouter()
	AttachCheckoutController(router, changedCartCheckout{}, cart)

	statusCode, resp := do(t, router, http.MethodPost, validBody)
	assert.Equal(t, http.StatusConflict, statusCode)
	assert.Equal(t, inErrors.ErrCartChanged.Error(), resp.Message)
	assert.Equal(t, "checkout", resp.Data["view"])
	summary, ok := resp.Data["cart"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), summary["itemCount"])
	assert.Equal(t, "$219.90", summary["formattedTotal"])
	assert.Equal(t, 2, cart.Cart().ItemCount)
}

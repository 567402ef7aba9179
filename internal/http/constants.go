package http

const (
	KEY_HEADER_CONTENT_TYPE       = "Content-Type"
	KEY_HEADER_REQUEST_ID         = "X-Request-Id"
	VALUE_HEADER_APPLICATION_JSON = "application/json"
)

const (
	STATUS_SUCCESS = "success"
	STATUS_FAILED  = "failed"
)

const (
	VIEW_CATALOG        = "catalog"
	VIEW_PRODUCT        = "product"
	VIEW_CART           = "cart"
	VIEW_CART_EMPTY     = "cart-empty"
	VIEW_CHECKOUT       = "checkout"
	VIEW_CHECKOUT_EMPTY = "checkout-empty"
	VIEW_ORDER_COMPLETE = "order-complete"
	VIEW_NOT_FOUND      = "not-found"
)

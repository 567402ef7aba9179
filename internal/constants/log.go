package constants

const (
	KEY_APP_NAME       = "app"
	KEY_BODY           = "body"
	KEY_CACHE_KEY      = "cacheKey"
	KEY_CART           = "cart"
	KEY_CART_ITEMS     = "cartItems"
	KEY_CART_VERSION   = "cartVersion"
	KEY_CATALOG_URL    = "catalogUrl"
	KEY_CATEGORY       = "category"
	KEY_CONFIG         = "config"
	KEY_FIELD_ERRORS   = "fieldErrors"
	KEY_FORM           = "form"
	KEY_HEADER         = "header"
	KEY_ITEM_COUNT     = "itemCount"
	KEY_NOTIFICATION   = "notification"
	KEY_NOTIFICATIONID = "notificationId"
	KEY_ORDER          = "order"
	KEY_ORDER_NUMBER   = "orderNumber"
	KEY_PATH_VALUES    = "pathValues"
	KEY_PROCESS        = "process"
	KEY_PRODUCT        = "product"
	KEY_PRODUCT_ID     = "productId"
	KEY_PRODUCTS       = "products"
	KEY_QUANTITY       = "quantity"
	KEY_QUERY          = "query"
	KEY_REQUEST        = "request"
	KEY_REQUEST_HOST   = "host"
	KEY_REQUEST_ID     = "requestId"
	KEY_REQUEST_IP     = "requesterIP"
	KEY_REQUEST_METHOD = "requestMethod"
	KEY_REQUEST_URI    = "requestURI"
	KEY_REQUEST_URL    = "requestURL"
	KEY_SEARCH         = "search"
	KEY_SEVERITY       = "severity"
	KEY_SPAN_ID        = "spanId"
	KEY_STATE          = "state"
	KEY_STATUS_CODE    = "statusCode"
	KEY_TAG            = "tag"
	KEY_THEME          = "theme"
	KEY_TOTAL          = "total"
	KEY_TRACE_ID       = "traceId"
)

package constants

const (
	APP_STOREFRONT        = "storefront"
	APP_STOREFRONT_SERVER = "storefront-server"
	APP_CATALOG_CLIENT    = "catalog-client"
)

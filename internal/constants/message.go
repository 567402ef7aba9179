package constants

const (
	MSG_PRODUCT_ADDED      = "Product added to cart"
	MSG_PRODUCT_REMOVED    = "Product removed from cart"
	MSG_CART_UPDATED       = "Cart updated"
	MSG_CART_CLEARED       = "Cart cleared"
	MSG_CART_EMPTY         = "Your cart is empty"
	MSG_ORDER_PLACED       = "Order placed successfully!"
	MSG_PRODUCT_NOT_FOUND  = "Product not found"
	MSG_PAGE_NOT_FOUND     = "Page not found"
	MSG_METHOD_NOT_ALLOWED = "Method not allowed"
	MSG_GENERIC_ERROR      = "Something went wrong. Please try again."
)

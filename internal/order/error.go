package order

import "errors"

var (
	ErrInvalidCheckout = errors.New("invalid checkout")
	ErrOrderNotFound   = errors.New("order not found")
	ErrMalformedOrders = errors.New("malformed persisted orders")
)

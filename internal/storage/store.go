// Package storage holds the key/value adapters the storefront engines
// persist through. Values are opaque JSON strings; the engines own encoding.
package storage

import (
	"context"
	"errors"
)

// Keys used by the engines.
const (
	CartKey            = "cart"
	OrdersKey          = "orders"
	SessionKey         = "session"
	FavoritesKeyPrefix = "favorites:"
)

var ErrClosed = errors.New("store is closed")

// Store is the persistent store adapter contract. Get reports ok=false for
// a missing key; an error means the backend itself failed.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// FavoritesKey returns the per-user favorites key.
func FavoritesKey(userID string) string {
	return FavoritesKeyPrefix + userID
}

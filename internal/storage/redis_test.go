package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Get found", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectGet("cart").SetVal(`{"items":[]}`)

		v, ok, err := store.Get(ctx, "cart")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"items":[]}`, v)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get missing", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectGet("cart").SetErr(redis.Nil)

		_, ok, err := store.Get(ctx, "cart")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Get error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectGet("cart").SetErr(errors.New("connection refused"))

		_, _, err := store.Get(ctx, "cart")
		assert.Error(t, err)
	})

	t.Run("Set without expiry", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectSet("orders", "[]", 0).SetVal("OK")

		assert.NoError(t, store.Set(ctx, "orders", "[]"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Set error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectSet("orders", "[]", 0).SetErr(errors.New("read only replica"))

		assert.Error(t, store.Set(ctx, "orders", "[]"))
	})

	t.Run("Delete", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectDel("favorites:u1").SetVal(1)

		assert.NoError(t, store.Delete(ctx, "favorites:u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

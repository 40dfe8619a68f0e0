package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	t.Run("Missing key", func(t *testing.T) {
		_, ok, err := s.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Set then Get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, CartKey, `{"items":[]}`))
		v, ok, err := s.Get(ctx, CartKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"items":[]}`, v)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, CartKey))
		_, ok, _ := s.Get(ctx, CartKey)
		assert.False(t, ok)
	})

	t.Run("Closed", func(t *testing.T) {
		require.NoError(t, s.Close())
		assert.ErrorIs(t, s.Set(ctx, "k", "v"), ErrClosed)
		_, _, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestFavoritesKey(t *testing.T) {
	assert.Equal(t, "favorites:u1", FavoritesKey("u1"))
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv restores the variables afterwards.
		t.Setenv("APP_ENV", "test")
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("PERSIST_DELAY", "250ms")
		t.Setenv("PAGE_SIZE", "24")
		t.Setenv("JWT_SECRET", "secret")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, DriverPostgres, cfg.StoreDriver)
		assert.Equal(t, 250*time.Millisecond, cfg.PersistDelay)
		assert.Equal(t, 24, cfg.PageSize)
		assert.Equal(t, "secret", cfg.JWTSecret)
		assert.Equal(t,
			"host=localhost user=testuser password=testpass dbname=testdb port=5433 sslmode=disable",
			cfg.PostgresDSN())
	})
}

func TestFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		for _, k := range []string{"APP_ENV", "STORE_DRIVER", "STORE_PATH", "PERSIST_DELAY", "PAGE_SIZE", "CATALOG_SEED_SIZE", "DB_URL", "DB_HOST"} {
			t.Setenv(k, "")
		}

		cfg, err := fromEnv()
		require.NoError(t, err)
		assert.Equal(t, "development", cfg.AppEnv)
		assert.Equal(t, DriverFile, cfg.StoreDriver)
		assert.Equal(t, "storefront.json", cfg.StorePath)
		assert.Equal(t, time.Second, cfg.PersistDelay)
		assert.Equal(t, 12, cfg.PageSize)
		assert.Equal(t, 48, cfg.CatalogSeedSize)
	})

	t.Run("DB_URL wins over DB_HOST", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DB_URL", "postgres://u:p@db/storefront")
		t.Setenv("DB_HOST", "ignored")

		cfg, err := fromEnv()
		require.NoError(t, err)
		assert.Equal(t, "postgres://u:p@db/storefront", cfg.PostgresDSN())
	})

	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"Unknown driver", "STORE_DRIVER", "mongo"},
		{"Bad delay", "PERSIST_DELAY", "soon"},
		{"Negative delay", "PERSIST_DELAY", "-1s"},
		{"Negative seed size", "CATALOG_SEED_SIZE", "-1"},
		{"Bad page size", "PAGE_SIZE", "twelve"},
		{"Bad redis db", "REDIS_DB", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := fromEnv()
			assert.Error(t, err)
		})
	}

	t.Run("Postgres without host", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DB_URL", "")
		t.Setenv("DB_HOST", "")
		_, err := fromEnv()
		assert.Error(t, err)
	})
}

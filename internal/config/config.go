package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

type Config struct {
	AppEnv string

	StoreDriver string
	StorePath   string

	DBURL      string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PersistDelay time.Duration

	CatalogPath     string
	CatalogSeedSize int
	PageSize        int

	JWTSecret string
}

// LoadConfig reads .env (if present) and the process environment.
// Unparsable values are fatal, as a half-configured storefront would
// silently persist to the wrong place.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg, err := fromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv:        getenv("APP_ENV", "development"),
		StoreDriver:   getenv("STORE_DRIVER", DriverFile),
		StorePath:     getenv("STORE_PATH", "storefront.json"),
		DBURL:         os.Getenv("DB_URL"),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        getenv("DB_PORT", "5432"),
		SQLitePath:    getenv("SQLITE_PATH", "storefront.db"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	var err error
	if cfg.RedisDB, err = getint("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CatalogSeedSize, err = getint("CATALOG_SEED_SIZE", 48); err != nil {
		return nil, err
	}
	if cfg.CatalogSeedSize < 0 {
		return nil, fmt.Errorf("CATALOG_SEED_SIZE must not be negative, got %d", cfg.CatalogSeedSize)
	}
	if cfg.PageSize, err = getint("PAGE_SIZE", 12); err != nil {
		return nil, err
	}

	delay := getenv("PERSIST_DELAY", "1s")
	cfg.PersistDelay, err = time.ParseDuration(delay)
	if err != nil {
		return nil, fmt.Errorf("PERSIST_DELAY %q: %w", delay, err)
	}
	if cfg.PersistDelay < 0 {
		return nil, fmt.Errorf("PERSIST_DELAY must not be negative, got %s", cfg.PersistDelay)
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverFile, DriverPostgres, DriverSQLite, DriverRedis:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.StoreDriver == DriverPostgres && cfg.DBURL == "" && cfg.DBHost == "" {
		return nil, fmt.Errorf("STORE_DRIVER=postgres needs DB_URL or DB_HOST")
	}

	return cfg, nil
}

// PostgresDSN returns DB_URL when set, otherwise a key/value DSN built from
// the DB_* variables.
func (c *Config) PostgresDSN() string {
	if c.DBURL != "" {
		return c.DBURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", key, v, err)
	}
	return n, nil
}

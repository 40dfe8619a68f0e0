package db

import (
	"database/sql"
	"fmt"

	"storefront/internal/config"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var driverNames = map[string]string{
	config.DriverPostgres: "postgres",
	config.DriverSQLite:   "sqlite3",
}

// Open connects to the SQL database backing the key/value store.
func Open(cfg *config.Config) (*sql.DB, error) {
	name, ok := driverNames[cfg.StoreDriver]
	if !ok {
		return nil, fmt.Errorf("store driver %q is not SQL-backed", cfg.StoreDriver)
	}
	return openWithDriver(name, buildDSN(cfg))
}

func buildDSN(cfg *config.Config) string {
	if cfg.StoreDriver == config.DriverSQLite {
		return cfg.SQLitePath
	}
	return cfg.PostgresDSN()
}

func openWithDriver(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if driverName == "sqlite3" {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

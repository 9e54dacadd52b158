package repository

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Supported database drivers.
const (
	// DriverSQLite is a local file database. DSN is a file path, optionally
	// with _pragma query parameters.
	DriverSQLite = "sqlite"
	// DriverPostgres is a hosted database. DSN is a postgres URL or key=value string.
	DriverPostgres = "postgres"
)

// NormalizeDriver maps driver aliases to a supported driver name.
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "sqlite3":
		return DriverSQLite, nil
	case DriverPostgres, "postgresql", "pgx":
		return DriverPostgres, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
}

func dialector(driver, dsn string) gorm.Dialector {
	if driver == DriverPostgres {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - Validation errors wrap ErrInvalidConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects log output: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBDriver selects the store backend: sqlite or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver specific data source: a file path for sqlite,
	// a connection URL for postgres.
	DBDSN string `koanf:"db_dsn"`

	// DBMaxOpenConns caps the postgres connection pool.
	DBMaxOpenConns int `koanf:"db_max_open_conns"`

	// SlowQueryMS logs SQL statements slower than this. Zero disables it.
	SlowQueryMS int `koanf:"slow_query_ms"`

	// SeedEnabled loads the seed dataset into an empty table on start.
	SeedEnabled bool `koanf:"seed_enabled"`

	// SeedPath points to a YAML seed file. Empty uses the bundled dataset.
	SeedPath string `koanf:"seed_path"`

	// DefaultLimit applies to GET /leaderboard without limit.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps GET /leaderboard?limit.
	MaxLimit int `koanf:"max_limit"`

	// EntriesField names the response field holding entries: entries or results.
	EntriesField string `koanf:"entries_field"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		DBDriver:       "sqlite",
		DBDSN:          "leaderboard.db?_pragma=busy_timeout(5000)",
		DBMaxOpenConns: 10,
		SlowQueryMS:    200,
		SeedEnabled:    true,
		SeedPath:       "",
		DefaultLimit:   50,
		MaxLimit:       500,
		EntriesField:   "entries",
	}
}

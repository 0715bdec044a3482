// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layer an optional YAML file and ROSTERD_-prefixed env vars on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// DatabaseURL is the Postgres DSN backing the directory, calendar
	// and schedule collaborators.
	DatabaseURL string `koanf:"database_url"`

	// DatabaseMaxConns and DatabaseMaxIdle bound the connection pool.
	DatabaseMaxConns int `koanf:"database_max_conns"`
	DatabaseMaxIdle  int `koanf:"database_max_idle"`

	// PrimaryServiceTime is the service time seeded rotation rows are
	// keyed under and the time that exposes the full role set.
	PrimaryServiceTime string `koanf:"primary_service_time"`

	// RotationTeamCount caps the monthly team rotation.
	RotationTeamCount int `koanf:"rotation_team_count"`

	// SeedOnStart runs the guarded rotation seeder once at startup.
	SeedOnStart bool `koanf:"seed_on_start"`

	// FallbackRoster is the static secondary seed source: role key to
	// member names, applied unrotated when no team membership exists.
	FallbackRoster map[string][]string `koanf:"fallback_roster"`

	// CollationLocale selects the locale for seeder name sorting.
	CollationLocale string `koanf:"collation_locale"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9090",
		DatabaseURL:        "postgres://localhost:5432/rosterd?sslmode=disable",
		DatabaseMaxConns:   8,
		DatabaseMaxIdle:    2,
		PrimaryServiceTime: "10:00",
		RotationTeamCount:  4,
		SeedOnStart:        false,
		FallbackRoster:     map[string][]string{},
		CollationLocale:    "en-US",
	}
}

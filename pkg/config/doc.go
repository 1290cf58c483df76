// Package config provides a type-safe, generic and cached way to load
// application configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11 to
// deliver a convenient API that:
//
//   - Loads values from one or multiple .env files (falling back to the
//     default .env in the current working directory).
//   - Parses the environment into any Go struct using `env` field tags.
//   - Caches each successfully loaded configuration type so it is only
//     parsed once for the lifetime of the process.
//   - Exposes MustLoad for configuration the process cannot start without,
//     and ResetCache for tests.
//
// # Usage
//
//	type GateConfig struct {
//	    SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`
//	    RateLimit  int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
//	}
//
//	var cfg GateConfig
//	config.MustLoad(&cfg)
package config

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing priority. Nested keys map to environment
// variables with dots replaced by underscores (postgres.host is
// POSTGRES_HOST). An empty configFile searches the default paths and
// tolerates a missing file.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/phee-operations")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Audit.Store = AuditStore(strings.ToLower(string(cfg.Audit.Store)))

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key. AutomaticEnv only reaches keys viper
// already knows, so keys without a meaningful default are set to zero.
func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          8080,
		"server.env":           "development",
		"server.max_page_size": 2000,

		"postgres.host":         "localhost",
		"postgres.port":         5432,
		"postgres.user":         "operations",
		"postgres.password":     "operations",
		"postgres.database":     "operations",
		"postgres.ssl_mode":     "disable",
		"postgres.max_conns":    25,
		"postgres.min_conns":    5,
		"postgres.auto_migrate": false,

		"clickhouse.host":     "localhost",
		"clickhouse.port":     9000,
		"clickhouse.user":     "default",
		"clickhouse.password": "",
		"clickhouse.database": "operations",

		"redis.host":     "localhost",
		"redis.port":     6379,
		"redis.password": "",
		"redis.db":       0,

		"rate_limit.enabled":             false,
		"rate_limit.requests_per_minute": 600,

		"sentry.enabled":            false,
		"sentry.dsn":                "",
		"sentry.environment":        "",
		"sentry.release":            "",
		"sentry.debug":              false,
		"sentry.sample_rate":        1.0,
		"sentry.traces_sample_rate": 0.1,

		"log.level":  "info",
		"log.format": "json",

		"audit.store": string(AuditStorePostgres),
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func validate(cfg *Config) error {
	switch cfg.Audit.Store {
	case AuditStorePostgres, AuditStoreClickHouse:
	default:
		return fmt.Errorf("unsupported audit store %q", cfg.Audit.Store)
	}
	if cfg.Server.MaxPageSize <= 0 {
		return fmt.Errorf("server max page size must be positive, got %d", cfg.Server.MaxPageSize)
	}
	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit requests per minute must be positive when rate limiting is enabled")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and optionally a
// config file. Environment variables take precedence over values from
// config files. Returns a populated Config struct or an error if
// loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file: ./config.yaml.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing file is fine; env vars and defaults cover everything.
	}

	v.SetEnvPrefix("SEQNOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every setting so a bare
// environment still yields a usable configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8085)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.url", "")

	v.SetDefault("cache.entity_ttl", "24h")
	v.SetDefault("cache.list_ttl", "5m")

	v.SetDefault("shared_cache.source_ttl_hours", map[string]int{
		"ncbi":     168,
		"uniprot":  168,
		"crossref": 72,
		"pubmed":   72,
	})
	v.SetDefault("shared_cache.default_ttl_hours", 24)

	v.SetDefault("sync.backend_url", "")
	v.SetDefault("sync.interval", "30s")
	v.SetDefault("sync.max_retries", 5)
}

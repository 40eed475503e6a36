package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"       validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"        validate:"required"`
	SharedCache SharedCacheConfig `mapstructure:"shared_cache" validate:"required"`
	Sync        SyncConfig        `mapstructure:"sync"         validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL may be empty, in which case the process runs on the in-memory
// store only (no durable KV, no shared remote cache).
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// CacheConfig controls the freshness horizons of the local TTL cache.
type CacheConfig struct {
	// EntityTTL applies to single-entity lookup entries (gene lookups).
	EntityTTL time.Duration `mapstructure:"entity_ttl" validate:"required,gt=0"`

	// ListTTL applies to collection entries (researchers:list and friends),
	// which churn far more often than entity lookups.
	ListTTL time.Duration `mapstructure:"list_ttl" validate:"required,gt=0"`
}

// SharedCacheConfig controls the server-side shared API cache.
type SharedCacheConfig struct {
	// SourceTTLHours maps a lookup source (ncbi, uniprot, crossref,
	// pubmed) to the retention of its shared cache entries in hours.
	SourceTTLHours map[string]int `mapstructure:"source_ttl_hours"`

	// DefaultTTLHours is used for sources not present in SourceTTLHours.
	DefaultTTLHours int `mapstructure:"default_ttl_hours" validate:"required,gt=0"`
}

// SyncConfig controls the offline-mutation drain loop.
type SyncConfig struct {
	// BackendURL is the remote endpoint mutations are replayed
	// against. When empty the drain loop starts offline; status,
	// retry, and dismiss remain available.
	BackendURL string `mapstructure:"backend_url" validate:"omitempty,url"`

	// Interval between automatic drain passes.
	Interval time.Duration `mapstructure:"interval" validate:"required,gt=0"`

	// MaxRetries is the retry count at which a pending mutation is
	// reported as failed and skipped by automatic drains. Manual retry
	// via the API ignores this limit.
	MaxRetries int `mapstructure:"max_retries" validate:"required,gt=0"`
}

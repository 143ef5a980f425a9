package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds service configuration loaded from environment variables.
type Config struct {
	MongoURI string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB  string `envconfig:"MONGO_DB" default:"meowerserver"`
	RedisURI string `envconfig:"REDIS_URI" default:"redis://localhost:6379/0"`
	NodeId   string `envconfig:"NODE_ID" default:"0"`

	SentryDSN    string `envconfig:"SENTRY_DSN"`
	HTTPPort     string `envconfig:"HTTP_PORT" default:"3000"`
	RealIPHeader string `envconfig:"REAL_IP_HEADER"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error

	QuietHoursTZ        string        `envconfig:"QUIET_HOURS_TZ" default:"Local"` // used when a user has no timezone
	TrustedNetworks     []string      `envconfig:"TRUSTED_NETWORKS" default:"127.0.0.0/8,::1"`
	SettingsCacheTTL    time.Duration `envconfig:"SETTINGS_CACHE_TTL" default:"5m"`
	DispatchConcurrency int           `envconfig:"DISPATCH_CONCURRENCY" default:"16"`
	EventsChannel       string        `envconfig:"EVENTS_CHANNEL" default:"notify:messages"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	if cfg.DispatchConcurrency < 1 {
		return cfg, fmt.Errorf("DISPATCH_CONCURRENCY must be positive, got %d", cfg.DispatchConcurrency)
	}
	return cfg, nil
}

// Location is the default timezone for quiet hours.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.QuietHoursTZ)
	if err != nil {
		return nil, fmt.Errorf("QUIET_HOURS_TZ: %w", err)
	}
	return loc, nil
}

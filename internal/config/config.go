package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Overpass  OverpassConfig  `koanf:"overpass"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port string `koanf:"port" validate:"required"`
	Mode string `koanf:"mode" validate:"oneof=debug release test"` // gin mode
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// OverpassConfig configures the POI query service client.
type OverpassConfig struct {
	Endpoint       string `koanf:"endpoint" validate:"required,url"`
	TimeoutSeconds int    `koanf:"timeout_seconds" validate:"min=1,max=180"` // server-side [timeout:N] hint
	// AbortGrace is added to the server hint to get the client-side hard abort.
	AbortGrace        time.Duration `koanf:"abort_grace" validate:"min=0"`
	MaxResults        int           `koanf:"max_results" validate:"min=1,max=500"`
	UserAgent         string        `koanf:"user_agent"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int           `koanf:"burst" validate:"min=1"`
	BreakerFailures   uint32        `koanf:"breaker_failures" validate:"min=1"`
	BreakerCooldown   time.Duration `koanf:"breaker_cooldown" validate:"min=0"`
}

// ClientTimeout is the hard client-side abort for a single query.
func (c OverpassConfig) ClientTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds)*time.Second + c.AbortGrace
}

// DiscoveryConfig tunes the adaptive radius search. Radii are in meters.
type DiscoveryConfig struct {
	DefaultRadius int `koanf:"default_radius" validate:"min=1"`
	MaxRadius     int `koanf:"max_radius" validate:"gtefield=DefaultRadius"`
	RadiusStep    int `koanf:"radius_step" validate:"min=1"`
	MinResults    int `koanf:"min_results" validate:"min=0"`
}

// CacheConfig controls freshness of cached result sets.
type CacheConfig struct {
	TTL              time.Duration `koanf:"ttl" validate:"gt=0"`
	DriftToleranceKm float64       `koanf:"drift_tolerance_km" validate:"gt=0"`
}

// RateLimitConfig limits API requests per client IP.
type RateLimitConfig struct {
	Requests int           `koanf:"requests" validate:"min=0"` // 0 disables the limiter
	Window   time.Duration `koanf:"window" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: ":8080",
			Mode: "release",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Overpass: OverpassConfig{
			Endpoint:          "https://overpass.kumi.systems/api/interpreter",
			TimeoutSeconds:    20,
			AbortGrace:        5 * time.Second,
			MaxResults:        30,
			UserAgent:         "moodmap-backend-go/1.0",
			RequestsPerSecond: 2,
			Burst:             4,
			BreakerFailures:   5,
			BreakerCooldown:   30 * time.Second,
		},
		Discovery: DiscoveryConfig{
			DefaultRadius: 2000,
			MaxRadius:     10000,
			RadiusStep:    1000,
			MinResults:    3,
		},
		Cache: CacheConfig{
			TTL:              5 * time.Minute,
			DriftToleranceKm: 0.1,
		},
		RateLimit: RateLimitConfig{
			Requests: 60,
			Window:   time.Minute,
		},
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

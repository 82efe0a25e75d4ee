package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// envMappings maps flat environment variable names to koanf paths.
var envMappings = map[string]string{
	"port":                         "server.port",
	"gin_mode":                     "server.mode",
	"log_level":                    "log.level",
	"log_format":                   "log.format",
	"overpass_endpoint":            "overpass.endpoint",
	"overpass_timeout_seconds":     "overpass.timeout_seconds",
	"overpass_abort_grace":         "overpass.abort_grace",
	"overpass_max_results":         "overpass.max_results",
	"overpass_user_agent":          "overpass.user_agent",
	"overpass_requests_per_second": "overpass.requests_per_second",
	"overpass_burst":               "overpass.burst",
	"overpass_breaker_failures":    "overpass.breaker_failures",
	"overpass_breaker_cooldown":    "overpass.breaker_cooldown",
	"discovery_default_radius":     "discovery.default_radius",
	"discovery_max_radius":         "discovery.max_radius",
	"discovery_radius_step":        "discovery.radius_step",
	"discovery_min_results":        "discovery.min_results",
	"cache_ttl":                    "cache.ttl",
	"cache_drift_tolerance_km":     "cache.drift_tolerance_km",
	"rate_limit_requests":          "rate_limit.requests",
	"rate_limit_window":            "rate_limit.window",
}

// Load 加载配置: defaults, then the optional YAML file, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc returns "" for variables we do not own so koanf skips them.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

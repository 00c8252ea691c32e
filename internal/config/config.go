// Package config loads the renderer's runtime configuration from the
// environment, the same surface the original CLI exposed via per-flag
// env fallbacks.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the root runtime configuration for the render server.
type Config struct {
	// HMACKey authenticates request bodies (spec §4.5). Empty by default,
	// matching upstream's default_value = ""; Validate rejects an empty key
	// unless BypassHMAC is set.
	HMACKey string

	// InstanceName is surfaced on "/" and in the X-Instance-Name response
	// header, purely informational.
	InstanceName string

	// Listen is the address the HTTP server binds.
	Listen string

	// AllowDemo gates the "/demo" fixed-sample endpoint.
	AllowDemo bool

	// BypassHMAC disables the HMAC check entirely. Logged loudly at
	// startup; never enable in production.
	BypassHMAC bool

	// MinimumResponseInterval is the per-fingerprint pacing interval
	// internal/ratelimit.Limiter enforces.
	MinimumResponseInterval time.Duration

	// ImageCacheCapacity bounds internal/cache.RenderCache's LRU.
	ImageCacheCapacity int
}

// Load reads configuration from the environment, applying the same
// defaults the original CLI flags carried.
func Load() (*Config, error) {
	cfg := &Config{
		HMACKey:                 getEnv("HMAC_KEY", ""),
		InstanceName:            getEnv("INSTANCE_NAME", "[not specified]"),
		Listen:                  getEnv("LISTEN", "0.0.0.0:3000"),
		AllowDemo:               getEnvBool("ALLOW_DEMO", false),
		BypassHMAC:              getEnvBool("BYPASS_HMAC", false),
		MinimumResponseInterval: 200 * time.Millisecond,
		ImageCacheCapacity:      512,
	}

	if raw, ok := os.LookupEnv("MINIMUM_RESPONSE_INTERVAL"); ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MINIMUM_RESPONSE_INTERVAL %q: %w", raw, err)
		}
		cfg.MinimumResponseInterval = d
	}

	if raw, ok := os.LookupEnv("IMAGE_CACHE_CAPACITY"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid IMAGE_CACHE_CAPACITY %q: %w", raw, err)
		}
		cfg.ImageCacheCapacity = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for internally-inconsistent values.
func (c *Config) Validate() error {
	if c.MinimumResponseInterval < 0 {
		return fmt.Errorf("minimum response interval must be non-negative, got %s", c.MinimumResponseInterval)
	}
	if c.ImageCacheCapacity <= 0 {
		return fmt.Errorf("image cache capacity must be positive, got %d", c.ImageCacheCapacity)
	}
	if c.HMACKey == "" && !c.BypassHMAC {
		return fmt.Errorf("HMAC_KEY is empty; every request will fail verification unless BYPASS_HMAC is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

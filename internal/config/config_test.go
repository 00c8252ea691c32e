package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HMAC_KEY", "INSTANCE_NAME", "LISTEN", "ALLOW_DEMO", "BYPASS_HMAC",
		"MINIMUM_RESPONSE_INTERVAL", "IMAGE_CACHE_CAPACITY",
	} {
		// t.Setenv registers restoration of the original value; Unsetenv
		// then leaves the variable absent for the test itself.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_DefaultsWithBypassHMAC(t *testing.T) {
	clearEnv(t)
	t.Setenv("BYPASS_HMAC", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != "0.0.0.0:3000" {
		t.Fatalf("Listen = %q, want default", cfg.Listen)
	}
	if cfg.MinimumResponseInterval != 200*time.Millisecond {
		t.Fatalf("MinimumResponseInterval = %s, want 200ms default", cfg.MinimumResponseInterval)
	}
	if cfg.ImageCacheCapacity != 512 {
		t.Fatalf("ImageCacheCapacity = %d, want 512 default", cfg.ImageCacheCapacity)
	}
}

func TestLoad_EmptyHMACKeyWithoutBypassFails(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatalf("Load() with empty HMAC_KEY and no bypass should fail")
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HMAC_KEY", "secret")
	t.Setenv("MINIMUM_RESPONSE_INTERVAL", "1500ms")
	t.Setenv("IMAGE_CACHE_CAPACITY", "64")
	t.Setenv("ALLOW_DEMO", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MinimumResponseInterval != 1500*time.Millisecond {
		t.Fatalf("MinimumResponseInterval = %s, want 1500ms", cfg.MinimumResponseInterval)
	}
	if cfg.ImageCacheCapacity != 64 {
		t.Fatalf("ImageCacheCapacity = %d, want 64", cfg.ImageCacheCapacity)
	}
	if !cfg.AllowDemo {
		t.Fatalf("AllowDemo = false, want true")
	}
}

func TestValidate_RejectsNonPositiveCacheCapacity(t *testing.T) {
	cfg := &Config{HMACKey: "x", ImageCacheCapacity: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() with zero cache capacity should fail")
	}
}

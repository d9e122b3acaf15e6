// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Addr        string
	Storage     string
	DatabaseURL string
	Location    *time.Location

	// Open Food Facts
	OFFBaseURL string
	OFFTimeout time.Duration

	// Optional product cache
	RedisURL        string
	ProductCacheTTL time.Duration

	// Single sign-on
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Forward auth through a reverse proxy's Remote-User header. Off by
	// default; TrustedProxies limits which peers may send the header.
	ForwardAuth    bool
	TrustedProxies []netip.Prefix

	InitialUser     string
	InitialPassword string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}

	cfg := &Config{
		Addr:             env("ADDR", ":8080"),
		Storage:          strings.ToLower(env("STORAGE", StoragePostgres)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		OFFBaseURL:       env("OFF_BASE_URL", "https://world.openfoodfacts.net"),
		RedisURL:         os.Getenv("REDIS_URL"),
		OIDCIssuer:       os.Getenv("OIDC_ISSUER"),
		OIDCClientID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		InitialUser:      os.Getenv("INITIAL_USER"),
		InitialPassword:  os.Getenv("INITIAL_PASSWORD"),
	}

	var err error
	if cfg.OFFTimeout, err = duration("OFF_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProductCacheTTL, err = duration("PRODUCT_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.ForwardAuth, err = boolean("FORWARD_AUTH"); err != nil {
		return nil, err
	}
	if cfg.TrustedProxies, err = prefixes("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	cfg.Location = time.Local
	if tz := os.Getenv("DIARY_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("DIARY_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects inconsistent settings.
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	if c.OFFTimeout <= 0 {
		return errors.New("OFF_TIMEOUT must be positive")
	}
	if c.ProductCacheTTL <= 0 {
		return errors.New("PRODUCT_CACHE_TTL must be positive")
	}
	if c.OIDCIssuer != "" && (c.OIDCClientID == "" || c.OIDCRedirectURL == "") {
		return errors.New("OIDC_ISSUER requires OIDC_CLIENT_ID and OIDC_REDIRECT_URL")
	}
	if len(c.TrustedProxies) > 0 && !c.ForwardAuth {
		return errors.New("TRUSTED_PROXIES requires FORWARD_AUTH")
	}
	if (c.InitialUser == "") != (c.InitialPassword == "") {
		return errors.New("INITIAL_USER and INITIAL_PASSWORD must be set together")
	}
	return nil
}

// SSOEnabled reports whether an OIDC provider is configured.
func (c *Config) SSOEnabled() bool {
	return c.OIDCIssuer != ""
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolean(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// prefixes parses a comma-separated list of CIDRs. A bare address is taken
// as a single-host prefix.
func prefixes(key string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, f := range strings.Split(os.Getenv(key), ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if p, err := netip.ParsePrefix(f); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(f)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid address or prefix %q", key, f)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

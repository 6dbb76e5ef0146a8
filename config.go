package folio

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/eringen/folio/content"
)

// EnvPrefix prefixes environment overrides: FOLIO_ADMIN_PASSWORD -> admin_password.
const EnvPrefix = "FOLIO_"

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `koanf:"name"`        // Site name (default "Portfolio")
	URL         string `koanf:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `koanf:"description"` // Site description for RSS and meta tags
	Author      string `koanf:"author"`      // Author name for JSON-LD

	Addr         string `koanf:"addr"`          // Listen address (default ":3000")
	DatabasePath string `koanf:"database_path"` // SQLite path (default "data/folio.db")
	// ContentDir serves read-only YAML content instead of the database when set.
	ContentDir string `koanf:"content_dir"`
	// MediaBaseURL prefixes image assets (a CDN); empty serves local uploads.
	MediaBaseURL string `koanf:"media_base_url"`
	Layout       string `koanf:"layout"` // Desktop detail variant: "panel" (default) or "inline"

	AdminPassword string `koanf:"admin_password"` // Required with a writable store
	SessionSecret string `koanf:"session_secret"` // Required with a writable store
	CookieSecure  bool   `koanf:"cookie_secure"`  // Set true for HTTPS

	PostCacheTTL time.Duration `koanf:"post_cache_ttl"` // Post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.Layout == "" {
		c.Layout = "panel"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Validate checks values that have no sensible default. The database
// source is writable, so it needs admin credentials.
func (c *SiteConfig) Validate() error {
	if err := c.validateOptions(); err != nil {
		return err
	}
	if c.ContentDir == "" {
		if c.AdminPassword == "" {
			return fmt.Errorf("admin_password is required")
		}
		if c.SessionSecret == "" {
			return fmt.Errorf("session_secret is required")
		}
	}
	return nil
}

func (c *SiteConfig) validateOptions() error {
	switch c.Layout {
	case "", "panel", "inline":
	default:
		return fmt.Errorf("invalid layout %q: must be panel or inline", c.Layout)
	}
	if c.PostCacheTTL < 0 {
		return fmt.Errorf("post_cache_ttl must not be negative")
	}
	return nil
}

// LoadConfig reads the YAML file at path when it exists, then overlays
// FOLIO_* environment variables.
func LoadConfig(path string) (SiteConfig, error) {
	k := koanf.New(".")
	var cfg SiteConfig

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithSource serves content from src instead of opening one from the config.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.Source = src
	}
}

package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all process configuration, read from the environment
type Config struct {
	Port     string `env:"PORT, default=8080"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	ViewsDir string `env:"VIEWS_DIR, default=views"`

	// JWTSecret may be empty: the token gate then answers with a server
	// configuration error instead of the process refusing to start.
	JWTSecret     string        `env:"JWT_SECRET"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION, default=1h"`
	SessionSecret string        `env:"SESSION_SECRET, required"`
	NavCacheTTL   time.Duration `env:"NAV_CACHE_TTL, default=5m"`

	DB DBConfig
}

// DBConfig holds database connection parameters
type DBConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST, default=localhost"`
	Port     string `env:"DB_PORT, default=5432"`
	User     string `env:"DB_USER, default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME, default=cse_motors"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`
}

// Load reads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DSN returns the connection string for pgxpool. DATABASE_URL wins over the
// discrete DB_* variables; Render-hosted databases require TLS.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		if strings.Contains(c.URL, "render.com") && !strings.Contains(c.URL, "sslmode=") {
			sep := "?"
			if strings.Contains(c.URL, "?") {
				sep = "&"
			}
			return c.URL + sep + "sslmode=require"
		}
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

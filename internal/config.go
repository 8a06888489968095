package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Insecure fallbacks used when the environment leaves a value empty.
const (
	DefaultSecret   = "your-secret-key-change-this-in-production"
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

var localePattern = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Data      DataConfig        `yaml:"data"`
	Auth      AuthConfig        `yaml:"auth"`
	Audit     AuditConfig       `yaml:"audit"`
	RateLimit RateLimitConfig   `yaml:"rate_limit"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Data.Validate(); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if err := c.Auth.Validate(c.App.Production()); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return c.RateLimit.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	Env      string     `yaml:"env"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Env, validation.In(EnvDevelopment, EnvProduction)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// Production reports whether the app runs with production settings
// (secure cookies, no default secret).
func (c *ApplicationConfig) Production() bool {
	return c.Env == EnvProduction
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DataConfig locates the portfolio documents.
type DataConfig struct {
	Dir     string   `yaml:"dir"`
	Locales []string `yaml:"locales"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Locales, validation.Each(validation.Required, validation.Match(localePattern))),
	)
}

// AuthConfig holds the admin credentials and session signing key.
//
// Empty values fall back to insecure defaults so a fresh checkout works
// out of the box. Production refuses the default secret.
type AuthConfig struct {
	Secret     string        `yaml:"secret"`
	Username   string        `yaml:"username"`
	Password   string        `yaml:"password"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// Validate fills defaults and validates the auth configuration.
func (c *AuthConfig) Validate(production bool) error {
	if c.Secret == "" {
		c.Secret = DefaultSecret
	}
	if c.Username == "" {
		c.Username = DefaultUsername
	}
	if c.Password == "" {
		c.Password = DefaultPassword
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.SessionTTL, validation.Min(time.Minute)),
	); err != nil {
		return err
	}
	if production && c.Secret == DefaultSecret {
		return fmt.Errorf("secret must be set in production (AUTH_SECRET)")
	}
	return nil
}

// UsesDefaults reports whether any insecure fallback is in effect.
func (c *AuthConfig) UsesDefaults() bool {
	return c.Secret == DefaultSecret || c.Username == DefaultUsername || c.Password == DefaultPassword
}

// AuditConfig holds the SQLite audit database location.
type AuditConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the audit configuration.
func (c *AuditConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// RateLimitConfig bounds login attempts per client address.
type RateLimitConfig struct {
	LoginPerMinute int `yaml:"login_per_minute"`
	LoginBurst     int `yaml:"login_burst"`
}

// Validate validates the rate limit configuration.
func (c *RateLimitConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LoginPerMinute, validation.Required, validation.Min(1)),
		validation.Field(&c.LoginBurst, validation.Required, validation.Min(1)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			Env:      EnvDevelopment,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Data: DataConfig{
			Dir: "./data",
		},
		Auth: AuthConfig{
			SessionTTL: 24 * time.Hour,
		},
		Audit: AuditConfig{
			Path: "./folio.db",
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: 10,
			LoginBurst:     5,
		},
	}
}

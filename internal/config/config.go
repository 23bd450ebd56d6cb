package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	LogLevel                         string `mapstructure:"LOG_LEVEL"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseWebAPIKey                string `mapstructure:"FIREBASE_WEB_API_KEY"` // Identity Toolkit key for email/password sign-in
	ClientURL                        string `mapstructure:"CLIENT_URL"`
	TrustedProxies                   string `mapstructure:"TRUSTED_PROXIES"` // comma-separated IPs or CIDRs; empty trusts none

	// Entitlement and session bookkeeping.
	TrialDays         int `mapstructure:"TRIAL_DAYS"`
	LoginHistoryLimit int `mapstructure:"LOGIN_HISTORY_LIMIT"`
	LinkTTLHours      int `mapstructure:"LINK_TTL_HOURS"`

	// Geolocation lookups.
	GeoTimeout  time.Duration `mapstructure:"GEO_TIMEOUT"`
	GeoCacheTTL time.Duration `mapstructure:"GEO_CACHE_TTL"`

	// Places API. The key never leaves the server.
	PlacesAPIKey    string        `mapstructure:"PLACES_API_KEY"`
	PlacesBaseURL   string        `mapstructure:"PLACES_BASE_URL"`
	ReviewsCacheTTL time.Duration `mapstructure:"REVIEWS_CACHE_TTL"`

	// Optional infrastructure. Empty addresses disable the component.
	RedisAddress     string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int    `mapstructure:"REDIS_DB"`
	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	LoginEventsQueue string `mapstructure:"LOGIN_EVENTS_QUEUE"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
}

var envKeys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL",
	"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"FIREBASE_WEB_API_KEY", "CLIENT_URL", "TRUSTED_PROXIES",
	"TRIAL_DAYS", "LOGIN_HISTORY_LIMIT", "LINK_TTL_HOURS",
	"GEO_TIMEOUT", "GEO_CACHE_TTL",
	"PLACES_API_KEY", "PLACES_BASE_URL", "REVIEWS_CACHE_TTL",
	"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "RABBITMQ_URL", "LOGIN_EVENTS_QUEUE",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "MAIL_FROM",
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRIAL_DAYS", 14)
	v.SetDefault("LOGIN_HISTORY_LIMIT", 50)
	v.SetDefault("LINK_TTL_HOURS", 24*7)
	v.SetDefault("GEO_TIMEOUT", 5*time.Second)
	v.SetDefault("GEO_CACHE_TTL", 6*time.Hour)
	v.SetDefault("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("REVIEWS_CACHE_TTL", 30*time.Minute)
	v.SetDefault("LOGIN_EVENTS_QUEUE", "login_events")
	v.SetDefault("SMTP_PORT", "2525")

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and sane bounds.
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.ClientURL == "" {
		return errors.New("CLIENT_URL is required")
	}
	if c.TrialDays <= 0 {
		return errors.New("TRIAL_DAYS must be positive")
	}
	if c.LoginHistoryLimit <= 0 {
		return errors.New("LOGIN_HISTORY_LIMIT must be positive")
	}
	if c.LinkTTLHours <= 0 {
		return errors.New("LINK_TTL_HOURS must be positive")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}

// TrialPeriod is the length of a new trial window.
func (c *Config) TrialPeriod() time.Duration {
	return time.Duration(c.TrialDays) * 24 * time.Hour
}

// LinkTTL is the default lifetime of a sharable link.
func (c *Config) LinkTTL() time.Duration {
	return time.Duration(c.LinkTTLHours) * time.Hour
}

// TrustedProxyList returns the proxies whose X-Forwarded-For header gin may honour.
// It is nil when none are configured, so the client IP is always the socket peer.
func (c *Config) TrustedProxyList() []string {
	var proxies []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

// MailEnabled reports whether SMTP credentials are configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != "" && c.MailFrom != ""
}

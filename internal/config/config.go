package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by Load when no provider credential is configured.
var ErrMissingAPIKey = errors.New("GOOGLE_MAPS_API_KEY is not set")

type Config struct {
	Server ServerConfig
	Maps   MapsConfig
	CORS   CORSConfig
	Log    LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// MapsConfig - settings of the Google Maps web services client
type MapsConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	Language       string
	Components     string
	SearchRadius   int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

type LogConfig struct {
	Level string
}

// Load reads configuration from an optional .env file and the environment.
// A missing credential is a startup error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAPS_BASE_URL", "https://maps.googleapis.com/maps/api")
	v.SetDefault("MAPS_REQUEST_TIMEOUT", 10)
	v.SetDefault("MAPS_LANGUAGE", "es")
	v.SetDefault("MAPS_COMPONENTS", "country:mx")
	v.SetDefault("MAPS_SEARCH_RADIUS", 50000)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_ALLOW_CREDENTIALS", true)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Maps: MapsConfig{
			APIKey:         strings.TrimSpace(v.GetString("GOOGLE_MAPS_API_KEY")),
			BaseURL:        strings.TrimRight(v.GetString("MAPS_BASE_URL"), "/"),
			RequestTimeout: time.Duration(v.GetInt("MAPS_REQUEST_TIMEOUT")) * time.Second,
			Language:       v.GetString("MAPS_LANGUAGE"),
			Components:     v.GetString("MAPS_COMPONENTS"),
			SearchRadius:   v.GetInt("MAPS_SEARCH_RADIUS"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	// Hosting platforms usually hand the port over as PORT
	if cfg.Server.Port == 0 {
		cfg.Server.Port = v.GetInt("PORT")
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Maps.RequestTimeout <= 0 {
		cfg.Maps.RequestTimeout = 10 * time.Second
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values the service cannot run without.
func (c *Config) Validate() error {
	if c.Maps.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Maps.BaseURL == "" {
		return errors.New("MAPS_BASE_URL must not be empty")
	}
	if c.Maps.SearchRadius <= 0 {
		return fmt.Errorf("MAPS_SEARCH_RADIUS must be positive, got %d", c.Maps.SearchRadius)
	}
	return nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// AllowsAnyOrigin reports whether the CORS allow-list contains the wildcard.
func (c *CORSConfig) AllowsAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

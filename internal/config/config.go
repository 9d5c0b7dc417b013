package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	DriverSupabase = "supabase"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Log      LogConfig      `mapstructure:"log"`
	Charts   ChartsConfig   `mapstructure:"charts"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port               string   `mapstructure:"port"`
	Env                string   `mapstructure:"env"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
}

// StoreConfig selects where nutrition and exercise records are read from
type StoreConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	// LocalUserID scopes sqlite reads when no auth provider is configured
	LocalUserID string `mapstructure:"local_user_id"`
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Backend string `mapstructure:"backend"`
}

// ChartsConfig holds chart window defaults
type ChartsConfig struct {
	DefaultWindowDays int    `mapstructure:"default_window_days"`
	MaxWindowDays     int    `mapstructure:"max_window_days"`
	Timezone          string `mapstructure:"timezone"`
}

// Location resolves the configured timezone used for hour-of-day bucketing
func (c ChartsConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid charts.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FITLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for backward compatibility
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("supabase.url", "SUPABASE_URL")
	v.BindEnv("supabase.service_key", "SUPABASE_SERVICE_KEY")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_allowed_origins", []string{})
	v.SetDefault("server.rate_limit_per_minute", 120)
	v.SetDefault("store.driver", DriverSupabase)
	v.SetDefault("store.sqlite_path", "fitlens.db")
	v.SetDefault("store.local_user_id", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.backend", "slog")
	v.SetDefault("charts.default_window_days", 30)
	v.SetDefault("charts.max_window_days", 90)
	v.SetDefault("charts.timezone", "Local")
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSupabase:
		if c.Supabase.URL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.Supabase.ServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be positive")
	}
	if c.Charts.DefaultWindowDays <= 0 || c.Charts.MaxWindowDays <= 0 {
		return fmt.Errorf("chart window days must be positive")
	}
	if c.Charts.DefaultWindowDays > c.Charts.MaxWindowDays {
		return fmt.Errorf("charts.default_window_days exceeds charts.max_window_days")
	}
	if _, err := c.Charts.Location(); err != nil {
		return err
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		CORSOrigins  []string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Log struct {
		Level  string
		Format string
	}
	List struct {
		MaxPageSize int
	}
}

// Load reads config from GIFTS_* environment variables, an optional .env file
// and an optional gift-certs.yaml. Precedence, highest first: variables already
// set in the process environment, values from .env (which never overrides an
// existing variable), gift-certs.yaml, then the built-in defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("GIFTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("gift-certs")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "15s")
	v.SetDefault("http.cors_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("list.max_page_size", 200)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.List.MaxPageSize = v.GetInt("list.max_page_size")

	for _, o := range strings.Split(v.GetString("http.cors_origins"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.HTTP.CORSOrigins = append(cfg.HTTP.CORSOrigins, o)
		}
	}

	var err error
	if cfg.HTTP.ReadTimeout, err = time.ParseDuration(v.GetString("http.read_timeout")); err != nil {
		return nil, fmt.Errorf("invalid GIFTS_HTTP_READ_TIMEOUT: %w", err)
	}
	if cfg.HTTP.WriteTimeout, err = time.ParseDuration(v.GetString("http.write_timeout")); err != nil {
		return nil, fmt.Errorf("invalid GIFTS_HTTP_WRITE_TIMEOUT: %w", err)
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid GIFTS_LOG_LEVEL: %w", err)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return nil, fmt.Errorf("GIFTS_LOG_FORMAT must be json or console, got %q", cfg.Log.Format)
	}
	if cfg.List.MaxPageSize < 1 {
		return nil, fmt.Errorf("GIFTS_LIST_MAX_PAGE_SIZE must be positive, got %d", cfg.List.MaxPageSize)
	}

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("GIFTS_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("GIFTS_DB_DSN is required")
	}

	return cfg, nil
}

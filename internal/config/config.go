// Package config loads application settings from a config file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"balloon-annotator/internal/store"
)

// Config holds the resolved application settings.
type Config struct {
	// DocumentURL is the base URL of the drawing/document service.
	DocumentURL string
	// ReportURL is the base URL of the inspection-report service.
	ReportURL string
	// CacheDir is the local annotation cache directory.
	CacheDir string
	// SyncDebounce is the quiet period before a remote sync fires.
	SyncDebounce time.Duration
	// RequestTimeout bounds individual service calls.
	RequestTimeout time.Duration
	// LogLevel is the zerolog level name.
	LogLevel string
}

// Load reads balloon-annotator.yaml from the working directory or the
// user config dir, with BALLOON_-prefixed environment overrides. A
// missing file is fine; the defaults stand.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("documentUrl", "http://localhost:8080")
	v.SetDefault("reportUrl", "http://localhost:8080")
	v.SetDefault("cacheDir", store.DefaultCacheDir())
	v.SetDefault("syncDebounce", "2s")
	v.SetDefault("requestTimeout", "10s")
	v.SetDefault("logLevel", "info")

	v.SetConfigName("balloon-annotator")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/balloon-annotator")

	v.SetEnvPrefix("BALLOON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		DocumentURL:    strings.TrimRight(v.GetString("documentUrl"), "/"),
		ReportURL:      strings.TrimRight(v.GetString("reportUrl"), "/"),
		CacheDir:       v.GetString("cacheDir"),
		SyncDebounce:   v.GetDuration("syncDebounce"),
		RequestTimeout: v.GetDuration("requestTimeout"),
		LogLevel:       v.GetString("logLevel"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the app cannot run with.
func (c Config) Validate() error {
	if c.DocumentURL == "" {
		return errors.New("config: documentUrl must be set")
	}
	if c.ReportURL == "" {
		return errors.New("config: reportUrl must be set")
	}
	if c.SyncDebounce <= 0 {
		return fmt.Errorf("config: syncDebounce must be positive, got %v", c.SyncDebounce)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: requestTimeout must be positive, got %v", c.RequestTimeout)
	}
	return nil
}

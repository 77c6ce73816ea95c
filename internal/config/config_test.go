package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config file present

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DocumentURL != "http://localhost:8080" {
		t.Errorf("DocumentURL = %q", cfg.DocumentURL)
	}
	if cfg.SyncDebounce != 2*time.Second {
		t.Errorf("SyncDebounce = %v, want 2s", cfg.SyncDebounce)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BALLOON_DOCUMENTURL", "https://docs.example.com/")
	t.Setenv("BALLOON_SYNCDEBOUNCE", "500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DocumentURL != "https://docs.example.com" {
		t.Errorf("DocumentURL = %q, want trailing slash trimmed", cfg.DocumentURL)
	}
	if cfg.SyncDebounce != 500*time.Millisecond {
		t.Errorf("SyncDebounce = %v, want 500ms", cfg.SyncDebounce)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		DocumentURL:    "http://localhost:8080",
		ReportURL:      "http://localhost:8080",
		SyncDebounce:   2 * time.Second,
		RequestTimeout: 10 * time.Second,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"missing document url", func(c *Config) { c.DocumentURL = "" }, false},
		{"missing report url", func(c *Config) { c.ReportURL = "" }, false},
		{"zero debounce", func(c *Config) { c.SyncDebounce = 0 }, false},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

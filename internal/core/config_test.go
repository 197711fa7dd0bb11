package core

import (
	"strings"
	"testing"

	"songbird/internal/i18n"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.App.Language != i18n.DefaultLanguage {
		t.Errorf("Expected default language to be %s, got %s", i18n.DefaultLanguage, config.App.Language)
	}

	if config.Cache.Size != DefaultCacheSize {
		t.Errorf("Expected default cache size %d, got %d", DefaultCacheSize, config.Cache.Size)
	}

	if config.Spotify.Enabled() {
		t.Error("Expected Spotify to be disabled without credentials")
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Port out of range", func(c *Config) { c.Server.Port = 70000 }, "server port"},
		{"Negative pacing", func(c *Config) { c.YouTube.RequestsPerSecond = -1 }, "requests per second"},
		{"Bad bloom rate", func(c *Config) { c.Cache.FalsePositiveRate = 1 }, "false positive rate"},
		{"Half Spotify credentials", func(c *Config) { c.Spotify.ClientID = "id" }, "spotify client id"},
		{"Unknown language", func(c *Config) { c.App.Language = "xx" }, "unsupported language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if err == nil {
				t.Fatal("Validate() expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigConstants(t *testing.T) {
	if DefaultServerPort <= 0 || DefaultServerPort > 65535 {
		t.Error("DefaultServerPort should be a valid port number")
	}

	if DefaultCacheFalsePositiveRate <= 0 || DefaultCacheFalsePositiveRate >= 1 {
		t.Error("DefaultCacheFalsePositiveRate should be within (0, 1)")
	}

	if DefaultRequestTimeout <= 0 {
		t.Error("DefaultRequestTimeout should be positive")
	}
}

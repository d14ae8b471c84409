package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Database != "nfl_pickem" {
		t.Errorf("default database = %s, want nfl_pickem", cfg.Database.Database)
	}
	if cfg.App.FeedBaseURL == "" {
		t.Error("feed base URL must have a default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CURRENT_SEASON", "2024")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("DB_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %s, want 9090", cfg.Server.Port)
	}
	if cfg.App.CurrentSeason != 2024 {
		t.Errorf("season = %d, want 2024", cfg.App.CurrentSeason)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled")
	}
	if cfg.Database.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Database.Timeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "localhost", Port: "27017", Database: "nfl_pickem"},
			Cache:    CacheConfig{Enabled: true, Addr: "localhost:6379"},
			App:      AppConfig{CurrentSeason: 2025, FeedBaseURL: "https://example.com/scoreboard"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"missing database name", func(c *Config) { c.Database.Database = "" }, true},
		{"cache enabled without addr", func(c *Config) { c.Cache.Addr = "" }, true},
		{"cache disabled without addr", func(c *Config) { c.Cache.Enabled = false; c.Cache.Addr = "" }, false},
		{"missing feed URL", func(c *Config) { c.App.FeedBaseURL = "" }, true},
		{"implausible season", func(c *Config) { c.App.CurrentSeason = 1999 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetMongoURI(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: "27017", Database: "nfl_pickem"}}
	if got := cfg.GetMongoURI(); got != "mongodb://db:27017/nfl_pickem" {
		t.Errorf("unauthenticated URI = %s", got)
	}

	cfg.Database.Username = "pickem"
	cfg.Database.Password = "secret"
	want := "mongodb://pickem:secret@db:27017/nfl_pickem?authSource=nfl_pickem"
	if got := cfg.GetMongoURI(); got != want {
		t.Errorf("authenticated URI = %s, want %s", got, want)
	}
}

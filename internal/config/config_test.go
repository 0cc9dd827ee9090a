package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8085 {
		t.Errorf("Port = %d, want 8085", cfg.Port)
	}
	if cfg.DataDir != ".shopchat" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Typing.PerCharMs != 15 || cfg.Typing.FloorMs != 800 || cfg.Typing.CapMs != 3000 {
		t.Errorf("Typing = %+v", cfg.Typing)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".shopchat.yml")

	orig := DefaultConfig()
	orig.Port = 9090
	orig.CatalogFile = "catalog.json"
	orig.Greeting = "Welcome to the shop!"
	orig.AllowAll = true
	orig.Typing.PerCharMs = 0

	if err := orig.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Port != 9090 || loaded.CatalogFile != "catalog.json" ||
		loaded.Greeting != "Welcome to the shop!" || !loaded.AllowAll {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Typing.PerCharMs != 0 {
		t.Errorf("Typing.PerCharMs = %d, want 0", loaded.Typing.PerCharMs)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SHOPCHAT_PORT", "7070")
	t.Setenv("SHOPCHAT_GREETING", "Hello from env")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("Port = %d, want env override 7070", cfg.Port)
	}
	if cfg.Greeting != "Hello from env" {
		t.Errorf("Greeting = %q", cfg.Greeting)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Port = 70000 }, true},
		{"missing data dir", func(c *Config) { c.DataDir = "" }, true},
		{"negative per-char", func(c *Config) { c.Typing.PerCharMs = -1 }, true},
		{"floor above cap", func(c *Config) { c.Typing.FloorMs = 5000 }, true},
		{"uncapped", func(c *Config) { c.Typing.CapMs = 0; c.Typing.FloorMs = 5000 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

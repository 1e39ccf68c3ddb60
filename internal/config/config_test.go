package config

import (
	"strings"
	"testing"
	"time"

	"github.com/hitsquad/panela/internal/model"
)

func validBaseConfig() *Config {
	return &Config{
		Discord: DiscordConfig{
			Token:          "bot-token",
			Prefix:         "hit!panela",
			Env:            "development",
			MentionTimeout: 30 * time.Second,
			ReplyTTL:       15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:    "surreal",
			Host:      "localhost",
			Port:      "8000",
			Namespace: "panela",
			Database:  "main",
		},
		Policy: PolicyConfig{
			ProtectedSlots: []string{string(model.SlotCapacity)},
			GuardInterval:  time.Minute,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validBaseConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_MissingToken(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Discord.Token = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing DISCORD_TOKEN")
	}
	if !strings.Contains(err.Error(), "DISCORD_TOKEN") {
		t.Errorf("expected error to mention DISCORD_TOKEN, got: %v", err)
	}
}

func TestConfig_Validate_InvalidEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Discord.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for invalid PANELA_ENV")
	}
	if !strings.Contains(err.Error(), "PANELA_ENV") {
		t.Errorf("expected error to mention PANELA_ENV, got: %v", err)
	}
}

func TestConfig_Validate_InvalidDriver(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Driver = "postgres"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for invalid DB_DRIVER")
	}
	if !strings.Contains(err.Error(), "DB_DRIVER") {
		t.Errorf("expected error to mention DB_DRIVER, got: %v", err)
	}
}

func TestConfig_Validate_MemoryDriverNeedsNoDatabaseSettings(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database = DatabaseConfig{Driver: "memory"}

	if err := cfg.Validate(); err != nil {
		t.Errorf("memory driver should not require connection settings, got: %v", err)
	}
}

func TestConfig_Validate_SurrealDriverRequiresHost(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing DB_HOST")
	}
	if !strings.Contains(err.Error(), "DB_HOST") {
		t.Errorf("expected error to mention DB_HOST, got: %v", err)
	}
}

func TestConfig_Validate_UnknownProtectedSlot(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Policy.ProtectedSlots = []string{"capacity", "bogus"}

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for unknown protected slot")
	}
	if !strings.Contains(err.Error(), "PANELA_PROTECTED_SLOTS") {
		t.Errorf("expected error to mention PANELA_PROTECTED_SLOTS, got: %v", err)
	}
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Discord.Token = ""
	cfg.Discord.ReplyTTL = 0
	cfg.Policy.GuardInterval = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"DISCORD_TOKEN", "PANELA_REPLY_TTL", "PANELA_GUARD_INTERVAL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestConfig_ProtectedSlots(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Policy.ProtectedSlots = []string{" capacity", "anti-ban", "nonsense"}

	slots := cfg.ProtectedSlots()
	if len(slots) != 2 {
		t.Fatalf("expected 2 valid slots, got %v", slots)
	}
	if slots[0] != model.SlotCapacity || slots[1] != model.SlotAntiBan {
		t.Errorf("unexpected slots: %v", slots)
	}
}

func TestConfig_EnvironmentHelpers(t *testing.T) {
	cfg := validBaseConfig()

	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("expected development mode")
	}

	cfg.Discord.Env = "production"
	if cfg.IsDevelopment() || !cfg.IsProduction() {
		t.Error("expected production mode")
	}
}

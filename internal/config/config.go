package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hitsquad/panela/internal/model"
)

// Config holds all application configuration
type Config struct {
	Discord  DiscordConfig
	Database DatabaseConfig
	Policy   PolicyConfig
}

// DiscordConfig holds gateway and command settings
type DiscordConfig struct {
	Token          string
	Prefix         string
	Env            string
	MentionTimeout time.Duration
	ReplyTTL       time.Duration
}

// DatabaseConfig holds storage settings. Driver selects the backend:
// "memory" keeps configs in process, "surreal" persists them in SurrealDB.
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// PolicyConfig holds assignment rule settings
type PolicyConfig struct {
	OwnerID          string
	PerInviterLimits bool
	ProtectedSlots   []string
	GuardInterval    time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Discord: DiscordConfig{
			Token:          getEnv("DISCORD_TOKEN", ""),
			Prefix:         getEnv("PANELA_PREFIX", "hit!panela"),
			Env:            getEnv("PANELA_ENV", "development"),
			MentionTimeout: getDurationEnv("PANELA_MENTION_TIMEOUT", 30*time.Second),
			ReplyTTL:       getDurationEnv("PANELA_REPLY_TTL", 15*time.Second),
		},
		Database: DatabaseConfig{
			Driver:    getEnv("DB_DRIVER", "memory"),
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "panela"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Policy: PolicyConfig{
			OwnerID:          getEnv("PANELA_OWNER_ID", ""),
			PerInviterLimits: getBoolEnv("PANELA_PER_INVITER_LIMITS", false),
			ProtectedSlots:   getSliceEnv("PANELA_PROTECTED_SLOTS", []string{string(model.SlotCapacity)}),
			GuardInterval:    getDurationEnv("PANELA_GUARD_INTERVAL", 1*time.Minute),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Discord.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Discord.Env == "production"
}

// ProtectedSlots converts the configured slot names to model slots, dropping
// anything unknown.
func (c *Config) ProtectedSlots() []model.Slot {
	slots := make([]model.Slot, 0, len(c.Policy.ProtectedSlots))
	for _, name := range c.Policy.ProtectedSlots {
		slot := model.Slot(strings.TrimSpace(name))
		if slot.IsValid() {
			slots = append(slots, slot)
		}
	}
	return slots
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Discord validation
	if c.Discord.Token == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if c.Discord.Prefix == "" {
		errs = append(errs, errors.New("PANELA_PREFIX is required"))
	}
	if c.Discord.Env != "development" && c.Discord.Env != "production" && c.Discord.Env != "test" {
		errs = append(errs, fmt.Errorf("PANELA_ENV must be 'development', 'production', or 'test', got '%s'", c.Discord.Env))
	}
	if c.Discord.MentionTimeout <= 0 {
		errs = append(errs, errors.New("PANELA_MENTION_TIMEOUT must be positive"))
	}
	if c.Discord.ReplyTTL <= 0 {
		errs = append(errs, errors.New("PANELA_REPLY_TTL must be positive"))
	}

	// Database validation
	switch c.Database.Driver {
	case "memory":
	case "surreal":
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required with DB_DRIVER=surreal"))
		}
		if c.Database.Port == "" {
			errs = append(errs, errors.New("DB_PORT is required with DB_DRIVER=surreal"))
		}
		if c.Database.Namespace == "" {
			errs = append(errs, errors.New("DB_NAMESPACE is required with DB_DRIVER=surreal"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("DB_DATABASE is required with DB_DRIVER=surreal"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be 'memory' or 'surreal', got '%s'", c.Database.Driver))
	}

	// Policy validation
	if c.Policy.GuardInterval <= 0 {
		errs = append(errs, errors.New("PANELA_GUARD_INTERVAL must be positive"))
	}
	for _, name := range c.Policy.ProtectedSlots {
		if !model.Slot(strings.TrimSpace(name)).IsValid() {
			errs = append(errs, fmt.Errorf("PANELA_PROTECTED_SLOTS contains unknown slot '%s'", name))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

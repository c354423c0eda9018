package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`

	// MaxMessageBytes caps the size of one inbound WebSocket frame.
	MaxMessageBytes int64 `mapstructure:"max_message_bytes" yaml:"max_message_bytes" validate:"gt=0"`
	// AllowedOrigins lists host patterns accepted for cross-origin WebSocket
	// handshakes. Empty disables the origin check.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins" validate:"dive,required"`
	// SeedUsers are registered at startup so clients can sign in to them.
	SeedUsers  []string `mapstructure:"seed_users" yaml:"seed_users" validate:"unique,dive,required,excludesall=;0x7C"`
	APIEnabled bool     `mapstructure:"api_enabled" yaml:"api_enabled"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		MaxMessageBytes:   32 << 10,
		SeedUsers:         []string{"Maximus", "Patroculus"},
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if len(other.SeedUsers) > 0 {
		c.SeedUsers = other.SeedUsers
	}
	if other.APIEnabled {
		c.APIEnabled = true
	}
}

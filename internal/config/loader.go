package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envConfigDefaultPath = "ROOMCHAT_CONFIG_DEFAULT_PATH"
	envPrefix            = "ROOMCHAT"
	defaultConfigName    = "config.yaml"
)

// Load resolves the config file path, creates it with defaults when it does
// not exist yet and merges it with ROOMCHAT_* environment variables.
// Precedence: defaults < config file < env vars < caller overrides.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	cfg := Default()
	path := resolveConfigPath(explicitPath)

	v := newViper(cfg)
	v.SetConfigFile(path)

	err := v.ReadInConfig()
	if err != nil && !isMissing(err) {
		return cfg, path, fmt.Errorf("read config %s: %w", path, err)
	}
	if err != nil {
		if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
			logger.Warn().Err(writeErr).Str("path", path).Msg("could not write default config")
		} else {
			logger.Info().Str("path", path).Msg("wrote default config")
			if readErr := v.ReadInConfig(); readErr != nil {
				logger.Warn().Err(readErr).Str("path", path).Msg("could not read default config back")
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, path, fmt.Errorf("decode config: %w", err)
	}
	return cfg, path, nil
}

func newViper(defaults Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	for key, value := range map[string]any{
		"addr":                defaults.Addr,
		"read_header_timeout": defaults.ReadHeaderTimeout,
		"shutdown_timeout":    defaults.ShutdownTimeout,
		"log_level":           defaults.LogLevel,
		"max_message_bytes":   defaults.MaxMessageBytes,
		"allowed_origins":     defaults.AllowedOrigins,
		"seed_users":          defaults.SeedUsers,
		"api_enabled":         defaults.APIEnabled,
	} {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func isMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// resolveConfigPath prefers the explicit path, then the directory named by
// ROOMCHAT_CONFIG_DEFAULT_PATH, then the working directory.
func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if dir := os.Getenv(envConfigDefaultPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return filepath.Join(dir, defaultConfigName)
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, defaultConfigName)
	}
	return defaultConfigName
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

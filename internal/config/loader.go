package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configFile = "hotair.yaml"

// Load loads the Hot Air configuration.
// Search order: customPath -> ~/.hotair/configs/hotair.yaml -> ./configs/hotair.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it sets.
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			candidate := Default()
			if err := yaml.Unmarshal(data, &candidate); err == nil {
				return candidate, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		candidate := Default()
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return candidate, nil
		}
	}

	// Use embedded default YAML
	candidate := Default()
	if err := yaml.Unmarshal(defaultYAML, &candidate); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return candidate, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hotair", "configs", filename)
}

// LoadEnv reads secrets from the given .env files (default ".env") into the
// process environment and copies them into cfg. Missing files are ignored;
// unreadable or malformed ones are logged and skipped.
func LoadEnv(cfg *Config, files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := loadEnvFile(f); err != nil {
			log.Warn("skipping env file", "file", f, "error", err)
		}
	}
	ApplyEnv(cfg)
}

func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// ApplyEnv copies secrets and overrides from the environment into cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("HOTAIR_JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv("HOTAIR_ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Server.AdminPasswordHash = v
	}
	if v := os.Getenv("HOTAIR_ADMIN_USER"); v != "" {
		cfg.Server.AdminUser = v
	}
	if v := os.Getenv("HOTAIR_SOCIAL_TOKEN"); v != "" {
		cfg.Fetcher.Token = v
	}
	if v := os.Getenv("HOTAIR_DATABASE_URL"); v != "" {
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("HOTAIR_CONTENT_URL"); v != "" {
		cfg.Content.URL = v
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Easy and hard replace the default 3 starting lives with 5 and 2.
	// Normal and fixed keep the configured value.
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.StartLives = 5
		cfg.Dart.Cooldown = 8
	case DifficultyHard:
		cfg.Gameplay.StartLives = 2
		cfg.Dart.Cooldown = 18
	}
}

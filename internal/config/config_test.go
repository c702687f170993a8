package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	cfg := Default()
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	want := Default()
	if cfg.Gameplay != want.Gameplay {
		t.Errorf("gameplay = %+v, want %+v", cfg.Gameplay, want.Gameplay)
	}
	if cfg.Enemy != want.Enemy {
		t.Errorf("enemy = %+v, want %+v", cfg.Enemy, want.Enemy)
	}
	if cfg.Fetcher.Schedule != DefaultFetchSchedule {
		t.Errorf("fetch schedule = %q, want %q", cfg.Fetcher.Schedule, DefaultFetchSchedule)
	}
	if len(cfg.Fetcher.Lists) != 2 {
		t.Errorf("expected 2 fetch lists, got %d", len(cfg.Fetcher.Lists))
	}
	if cfg.SSH != want.SSH {
		t.Errorf("ssh = %+v, want %+v", cfg.SSH, want.SSH)
	}
}

func TestLoadCustomPathOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("gameplay:\n  start_lives: 7\nserver:\n  address: \":9999\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gameplay.StartLives != 7 {
		t.Errorf("start lives = %d, want 7", cfg.Gameplay.StartLives)
	}
	if cfg.Server.Address != ":9999" {
		t.Errorf("address = %q, want :9999", cfg.Server.Address)
	}
	if cfg.Gameplay.ScoreIncrement != 100 {
		t.Errorf("unset keys should keep defaults, got increment %d", cfg.Gameplay.ScoreIncrement)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HOTAIR_JWT_SECRET", "s3cret")
	t.Setenv("HOTAIR_SOCIAL_TOKEN", "bearer")
	cfg := Default()
	ApplyEnv(&cfg)
	if cfg.Server.JWTSecret != "s3cret" {
		t.Errorf("jwt secret = %q", cfg.Server.JWTSecret)
	}
	if cfg.Fetcher.Token != "bearer" {
		t.Errorf("social token = %q", cfg.Fetcher.Token)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("HOTAIR_ADMIN_USER=root\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("HOTAIR_ADMIN_USER")
	t.Cleanup(func() { os.Unsetenv("HOTAIR_ADMIN_USER") })

	cfg := Default()
	LoadEnv(&cfg, path)
	if cfg.Server.AdminUser != "root" {
		t.Errorf("admin user = %q, want root", cfg.Server.AdminUser)
	}
}

func TestLoadEnvFileErrors(t *testing.T) {
	dir := t.TempDir()
	if err := loadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}

	bad := filepath.Join(dir, "bad.env")
	if err := os.WriteFile(bad, []byte("HOTAIR_JWT_SECRET=\"unterminated\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := loadEnvFile(bad); err == nil {
		t.Error("Expected error for malformed env file")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := Default()
	ApplyPreset(&cfg, DifficultyHard)
	if cfg.Gameplay.StartLives != 2 {
		t.Errorf("hard lives = %d, want 2", cfg.Gameplay.StartLives)
	}
	if cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard initial level = %v", cfg.Difficulty.InitialLevel)
	}

	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
}

func TestParsePreset(t *testing.T) {
	if ParsePreset("hard") != DifficultyHard {
		t.Error("expected hard")
	}
	if ParsePreset("insane") != "" {
		t.Error("unknown preset should be empty")
	}
}

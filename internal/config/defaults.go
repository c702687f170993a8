package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/hotair.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It mirrors defaults/hotair.yaml
// and is used when the embedded YAML cannot be parsed.
func Default() Config {
	return Config{
		Gameplay: GameplayConfig{
			StartLives:      3,
			ScoreIncrement:  100,
			EnemiesPerLevel: 2,
			SpeedDivisor:    1.5,
			MessageTicks:    90,
			PopupTicks:      45,
			LoadingTicks:    180,
		},
		Spawn: SpawnConfig{
			BaseInterval: 150,
			MinInterval:  45,
		},
		Enemy: EnemyConfig{
			Width:            9,
			Height:           4,
			OffScreenGrace:   1,
			SpeedScale:       0.05,
			FallAcceleration: 1.1,
			TerminalVelocity: 1.0,
		},
		Dart: DartConfig{
			InitialVelocity: 0.15,
			Gravity:         0.02,
			Cooldown:        12,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			MaxAtLevel:   10,
		},
		Content: ContentConfig{
			BatchSize: 100,
			Timeout:   5 * time.Second,
		},
		Server: ServerConfig{
			Address:        ":3000",
			DBPath:         "~/.hotair/hotair.db",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			HighScoreLimit: 5,
			AdminUser:      "admin",
			TokenTTL:       72 * time.Hour,
		},
		Fetcher: FetcherConfig{
			Enabled: true,
			APIBase: "https://api.twitter.com/1.1",
			Owner:   "tweetcongress",
			Lists: []ListConfig{
				{Slug: "democrats", Party: "d"},
				{Slug: "republican", Party: "r"},
			},
			PerPage:  100,
			Schedule: DefaultFetchSchedule,
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

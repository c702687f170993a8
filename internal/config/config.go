// Package config provides YAML-based configuration loading and difficulty
// management for Hot Air.
package config

import "time"

// Config is the complete configuration for the game and its backend.
type Config struct {
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Enemy      EnemyConfig      `yaml:"enemy"`
	Dart       DartConfig       `yaml:"dart"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Content    ContentConfig    `yaml:"content"`
	Server     ServerConfig     `yaml:"server"`
	Fetcher    FetcherConfig    `yaml:"fetcher"`
	SSH        SSHConfig        `yaml:"ssh"`
}

// GameplayConfig holds the scoring and level rules.
type GameplayConfig struct {
	StartLives      int     `yaml:"start_lives"`
	ScoreIncrement  int     `yaml:"score_increment"`   // multiplied by the level
	EnemiesPerLevel int     `yaml:"enemies_per_level"` // payloads loaded per wave
	SpeedDivisor    float64 `yaml:"speed_divisor"`     // enemy speed = level / divisor
	MessageTicks    int     `yaml:"message_ticks"`     // how long overlay messages stay up
	PopupTicks      int     `yaml:"popup_ticks"`       // how long score popups stay up
	LoadingTicks    int     `yaml:"loading_ticks"`     // max wait on the loading scene
}

// SpawnConfig controls the enemy spawn timer, in ticks.
type SpawnConfig struct {
	BaseInterval int `yaml:"base_interval"`
	MinInterval  int `yaml:"min_interval"`
}

// EnemyConfig defines balloon geometry and motion.
type EnemyConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	OffScreenGrace   int     `yaml:"off_screen_grace"`  // rows above the top edge before an escape counts
	SpeedScale       float64 `yaml:"speed_scale"`       // cells per tick for one unit of speed
	FallAcceleration float64 `yaml:"fall_acceleration"` // multiplier applied each tick while falling
	TerminalVelocity float64 `yaml:"terminal_velocity"` // cells per tick
}

// DartConfig defines dart motion.
type DartConfig struct {
	InitialVelocity float64 `yaml:"initial_velocity"`
	Gravity         float64 `yaml:"gravity"`
	Cooldown        int     `yaml:"cooldown"` // ticks between darts
}

// DifficultyConfig defines how spawn pacing tightens with level.
type DifficultyConfig struct {
	Enabled      bool    `yaml:"enabled"`
	InitialLevel float64 `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	MaxAtLevel   int     `yaml:"max_at_level"`  // game level at which difficulty peaks
}

// ContentConfig selects where balloon payloads come from.
type ContentConfig struct {
	URL       string        `yaml:"url"` // backend base URL; empty reads the local database
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP backend.
type ServerConfig struct {
	Address           string        `yaml:"address"`
	DBPath            string        `yaml:"db_path"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	HighScoreLimit    int           `yaml:"high_score_limit"`
	AdminUser         string        `yaml:"admin_user"`
	AdminPasswordHash string        `yaml:"-"` // bcrypt hash, from HOTAIR_ADMIN_PASSWORD_HASH
	JWTSecret         string        `yaml:"-"` // from HOTAIR_JWT_SECRET
	TokenTTL          time.Duration `yaml:"token_ttl"`
}

// FetcherConfig configures the periodic social post fetch.
type FetcherConfig struct {
	Enabled  bool         `yaml:"enabled"`
	APIBase  string       `yaml:"api_base"`
	Owner    string       `yaml:"owner"`
	Lists    []ListConfig `yaml:"lists"`
	PerPage  int          `yaml:"per_page"`
	Schedule string       `yaml:"schedule"` // six-field cron expression, seconds first
	Token    string       `yaml:"-"`        // from HOTAIR_SOCIAL_TOKEN
}

// DefaultFetchSchedule runs the fetch job at :00, :12, :24, :36 and :48.
const DefaultFetchSchedule = "0 */12 * * * *"

// SSHConfig configures remote play over SSH.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"` // empty uses ~/.hotair/host_key
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// ListConfig maps a social list to the party its posts belong to.
type ListConfig struct {
	Slug  string `yaml:"slug"`
	Party string `yaml:"party"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

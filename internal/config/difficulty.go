package config

import "math"

// DifficultyManager maps game levels to a 0..1 difficulty and derives spawn
// pacing from it.
type DifficultyManager struct {
	enabled bool
	floor   float64 // difficulty at level 1
	maxAt   int     // first level at full difficulty
}

// NewDifficultyManager creates a difficulty manager. With progression
// disabled every level plays at cfg.InitialLevel.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		enabled: cfg.Enabled,
		floor:   math.Max(0, math.Min(1, cfg.InitialLevel)),
		maxAt:   cfg.MaxAtLevel,
	}
}

// Level returns the difficulty for a game level, rising linearly from the
// floor at level 1 to 1.0 at MaxAtLevel.
func (d *DifficultyManager) Level(gameLevel int) float64 {
	if !d.enabled {
		return d.floor
	}
	steps := float64(max(d.maxAt-1, 1))
	progress := math.Max(0, math.Min(1, float64(gameLevel-1)/steps))
	return d.floor + progress*(1-d.floor)
}

// SpawnInterval returns ticks between spawns for a game level, moving from
// cfg.BaseInterval toward cfg.MinInterval as difficulty rises. Never below 1.
func (d *DifficultyManager) SpawnInterval(cfg SpawnConfig, gameLevel int) int {
	span := max(cfg.BaseInterval-cfg.MinInterval, 0)
	return max(cfg.BaseInterval-int(d.Level(gameLevel)*float64(span)), 1)
}

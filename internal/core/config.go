package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is the summary a game reports to the platform after each tick.
type GameState struct {
	Score    int    // Current score
	Lives    int    // Remaining lives
	Level    int    // Current level (0 before the first game starts)
	Scene    string // Name of the active scene
	GameOver bool   // Whether the game has ended
	Paused   bool   // Whether the game is paused
	Quit     bool   // Whether the game asked the platform to exit
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}

// Game is the interface the platform drives.
// Implementations contain pure logic with no terminal dependencies; the
// platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier, used as the score storage key.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or resets the game state.
	Reset(cfg RuntimeConfig)

	// Resize adapts the game to new screen dimensions without losing state.
	Resize(w, h int)

	// Step advances the simulation by one fixed tick.
	Step(in InputFrame) StepResult

	// Render draws the current game state into the provided screen buffer.
	Render(dst *Screen)

	// State returns the current game state.
	State() GameState
}

package hotair

// SessionState is the top-level state of a game.
type SessionState int

const (
	StateIdle SessionState = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	}
	return "unknown"
}

// GameSession is the level and state of one game, from the party choice
// until the game-over screen is dismissed.
type GameSession struct {
	Level        int
	Party        Party
	State        SessionState
	PerfectLevel bool // no penalty taken yet this level
}

// Scene names a screen of the game.
type Scene string

const (
	SceneLoading  Scene = "loading"
	SceneStart    Scene = "start"
	ScenePlaying  Scene = "playing"
	SceneGameOver Scene = "gameover"
)

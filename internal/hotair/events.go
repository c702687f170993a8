package hotair

import (
	"github.com/vovakirdan/hot-air/internal/core"
	"github.com/vovakirdan/hot-air/internal/mediator"
)

// Topics published on the game mediator.
const (
	TopicGameLoaded mediator.Topic = iota + 1
	TopicStartNewGame
	TopicGameOver
	TopicPauseGame
	TopicResumeGame
	TopicEndGame
	TopicLevelComplete
	TopicNextLevel
	TopicEnemyHitStart
	TopicEnemyHitComplete
	TopicEnemyOffScreenStart
	TopicEnemyOffScreenComplete
	TopicEnemySelected
	TopicShowMessage
	TopicLoadScene
	TopicScoreChanged
	TopicFocusChanged
)

// Cause says why a score changed.
type Cause int

const (
	CauseHit Cause = iota
	CauseEscape
)

func (c Cause) String() string {
	if c == CauseHit {
		return "hit"
	}
	return "escape"
}

// ScoreEvent is the score change produced by one enemy resolution.
type ScoreEvent struct {
	Delta    int
	Cause    Cause
	LifeLost bool
}

// GameLoaded is published once content is available.
type GameLoaded struct{}

// StartNewGame asks the controller to begin a game for a party.
type StartNewGame struct {
	Party Party
}

// GameOver is published exactly once per game, when lives reach zero.
type GameOver struct {
	Score int
	Level int
	Party Party
}

type PauseGame struct{}
type ResumeGame struct{}

// EndGame abandons the current game from the pause menu.
type EndGame struct{}

// LevelComplete is published when every enemy of a level has been resolved.
type LevelComplete struct {
	Level int
}

// NextLevel starts the given level.
type NextLevel struct {
	Level int
}

// EnemyHitStart reports a dart striking an enemy.
type EnemyHitStart struct {
	Enemy *Enemy
}

// EnemyHitComplete carries the resolved score of a hit.
type EnemyHitComplete struct {
	Enemy *Enemy
	Score ScoreEvent
}

// EnemyOffScreenStart reports an enemy escaping past the top edge.
type EnemyOffScreenStart struct {
	Enemy *Enemy
}

// EnemyOffScreenComplete carries the resolved score of an escape. Whoops is
// set when the escape was penalized.
type EnemyOffScreenComplete struct {
	Enemy  *Enemy
	Score  ScoreEvent
	Whoops bool
}

// EnemySelected reports the enemy under the launcher. Enemy is nil when
// nothing is selected.
type EnemySelected struct {
	Enemy *Enemy
}

// ShowMessage displays a centered message for Ticks ticks, then calls Done.
type ShowMessage struct {
	Text  string
	Color core.Color
	Ticks int
	Done  func()
}

// LoadScene switches the visible scene.
type LoadScene struct {
	Scene Scene
}

// ScoreChanged is published whenever score, lives or level change.
type ScoreChanged struct {
	Score int
	Lives int
	Level int
}

// FocusChanged reports the terminal losing or regaining focus.
type FocusChanged struct {
	Focused bool
}

func (GameLoaded) Topic() mediator.Topic             { return TopicGameLoaded }
func (StartNewGame) Topic() mediator.Topic           { return TopicStartNewGame }
func (GameOver) Topic() mediator.Topic               { return TopicGameOver }
func (PauseGame) Topic() mediator.Topic              { return TopicPauseGame }
func (ResumeGame) Topic() mediator.Topic             { return TopicResumeGame }
func (EndGame) Topic() mediator.Topic                { return TopicEndGame }
func (LevelComplete) Topic() mediator.Topic          { return TopicLevelComplete }
func (NextLevel) Topic() mediator.Topic              { return TopicNextLevel }
func (EnemyHitStart) Topic() mediator.Topic          { return TopicEnemyHitStart }
func (EnemyHitComplete) Topic() mediator.Topic       { return TopicEnemyHitComplete }
func (EnemyOffScreenStart) Topic() mediator.Topic    { return TopicEnemyOffScreenStart }
func (EnemyOffScreenComplete) Topic() mediator.Topic { return TopicEnemyOffScreenComplete }
func (EnemySelected) Topic() mediator.Topic          { return TopicEnemySelected }
func (ShowMessage) Topic() mediator.Topic            { return TopicShowMessage }
func (LoadScene) Topic() mediator.Topic              { return TopicLoadScene }
func (ScoreChanged) Topic() mediator.Topic           { return TopicScoreChanged }
func (FocusChanged) Topic() mediator.Topic           { return TopicFocusChanged }

package hotair

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hot-air/internal/config"
	"github.com/vovakirdan/hot-air/internal/core"
	"github.com/vovakirdan/hot-air/internal/mediator"
)

// DefaultUser is recorded with high scores when the player has no name.
const DefaultUser = "XXX"

// HighScore is the result submitted when a game ends.
type HighScore struct {
	User  string
	Score int
	Party Party
	Level int
}

// ScoreSubmitter records a final score. Submit must not block the game
// loop; failures are the submitter's to log.
type ScoreSubmitter interface {
	Submit(HighScore)
}

// Controller owns the game state machine and the scoring rules. It is the
// only writer of the session and the player state.
type Controller struct {
	med     *mediator.Mediator
	player  *PlayerState
	enemies *EnemyController
	scores  ScoreSubmitter
	cfg     config.GameplayConfig
	log     *log.Logger
	user    string

	session       GameSession
	inputBound    bool
	gameOverFired bool
	focusPaused   bool
	generation    int // bumped per game so stale message callbacks are ignored

	subs []mediator.Subscription
}

// NewController wires a controller onto the mediator.
func NewController(med *mediator.Mediator, player *PlayerState, enemies *EnemyController, scores ScoreSubmitter, cfg config.GameplayConfig, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	c := &Controller{
		med:     med,
		player:  player,
		enemies: enemies,
		scores:  scores,
		cfg:     cfg,
		log:     logger,
		user:    DefaultUser,
		session: GameSession{State: StateIdle},
	}
	c.subs = []mediator.Subscription{
		mediator.On(med, func(GameLoaded) { c.med.Publish(LoadScene{Scene: SceneStart}) }),
		mediator.On(med, c.onStartNewGame),
		mediator.On(med, func(PauseGame) { c.pause() }),
		mediator.On(med, func(ResumeGame) { c.resume() }),
		mediator.On(med, func(EndGame) { c.end() }),
		mediator.On(med, c.onEnemyHit),
		mediator.On(med, c.onEnemyEscape),
		mediator.On(med, c.onLevelComplete),
		mediator.On(med, c.onNextLevel),
		mediator.On(med, c.onFocusChanged),
	}
	return c
}

// SetUser sets the name recorded with high scores.
func (c *Controller) SetUser(name string) {
	if name == "" {
		name = DefaultUser
	}
	c.user = name
}

func (c *Controller) Session() GameSession { return c.session }
func (c *Controller) Player() *PlayerState { return c.player }

// InputBound reports whether gameplay input (launcher, darts) is accepted.
func (c *Controller) InputBound() bool { return c.inputBound }

func (c *Controller) increment() int {
	return c.session.Level * c.cfg.ScoreIncrement
}

func (c *Controller) onStartNewGame(ev StartNewGame) {
	if c.session.State != StateIdle {
		return
	}
	if err := c.player.SetParty(ev.Party); err != nil {
		c.log.Error("cannot start game", "party", string(ev.Party), "error", err)
		return
	}

	c.generation++
	c.player.ResetScore()
	c.player.SetLives(c.cfg.StartLives)
	c.session = GameSession{
		Level:        1,
		Party:        ev.Party,
		State:        StatePlaying,
		PerfectLevel: true,
	}
	c.gameOverFired = false
	c.focusPaused = false
	c.inputBound = true

	c.log.Info("game started", "party", ev.Party.Name())
	c.med.Publish(LoadScene{Scene: ScenePlaying})
	c.publishScore()
	c.med.Publish(ShowMessage{Text: "Level 1"})
	c.med.Publish(NextLevel{Level: 1})
}

func (c *Controller) pause() {
	if c.session.State != StatePlaying {
		return
	}
	c.session.State = StatePaused
	c.enemies.StopProducing()
	c.inputBound = false
}

func (c *Controller) resume() {
	if c.session.State != StatePaused {
		return
	}
	c.session.State = StatePlaying
	c.enemies.StartProducing(false)
	c.inputBound = true
}

func (c *Controller) end() {
	if c.session.State != StatePaused {
		return
	}
	c.enemies.StopProducing()
	c.session.State = StateIdle
	c.inputBound = false
	c.log.Info("game abandoned", "score", c.player.Score(), "level", c.session.Level)
	c.med.Publish(LoadScene{Scene: SceneStart})
}

// Acknowledge dismisses the game-over screen and returns to the start scene.
func (c *Controller) Acknowledge() {
	if c.session.State != StateGameOver {
		return
	}
	c.session.State = StateIdle
	c.med.Publish(LoadScene{Scene: SceneStart})
}

func (c *Controller) onEnemyHit(ev EnemyHitStart) {
	if c.session.State != StatePlaying || !ev.Enemy.MarkResolved() {
		return
	}

	inc := c.increment()
	score := ScoreEvent{Cause: CauseHit}
	if ev.Enemy.Party == c.player.Party() {
		score.Delta = -inc
		score.LifeLost = true
		c.player.AddToScore(-inc)
		c.player.DecrementLives()
		c.session.PerfectLevel = false
	} else {
		score.Delta = inc
		c.player.AddToScore(inc)
	}
	c.publishScore()
	c.checkLives()

	c.med.Publish(EnemyHitComplete{Enemy: ev.Enemy, Score: score})
}

func (c *Controller) onEnemyEscape(ev EnemyOffScreenStart) {
	if c.session.State != StatePlaying || !ev.Enemy.MarkResolved() {
		return
	}

	score := ScoreEvent{Cause: CauseEscape}
	whoops := false
	if ev.Enemy.Party != c.player.Party() {
		whoops = true
		if c.player.Score() > 0 {
			score.Delta = -c.increment()
			c.player.AddToScore(score.Delta)
		} else {
			score.LifeLost = true
			c.player.DecrementLives()
		}
		c.session.PerfectLevel = false
		c.publishScore()
		c.checkLives()
	}

	c.med.Publish(EnemyOffScreenComplete{Enemy: ev.Enemy, Score: score, Whoops: whoops})
}

func (c *Controller) onLevelComplete(ev LevelComplete) {
	if c.session.State != StatePlaying {
		return
	}
	if !c.session.PerfectLevel {
		c.advance()
		return
	}

	c.player.IncrementLives()
	c.publishScore()
	gen := c.generation
	c.med.Publish(ShowMessage{
		Text:  "Perfect Level!",
		Color: core.ColorGreen,
		Done: func() {
			if c.generation == gen {
				c.advance()
			}
		},
	})
}

func (c *Controller) advance() {
	if c.session.State != StatePlaying {
		return
	}
	c.session.Level++
	c.session.PerfectLevel = true
	c.publishScore()
	c.med.Publish(ShowMessage{Text: fmt.Sprintf("Level %d", c.session.Level)})
	c.med.Publish(NextLevel{Level: c.session.Level})
}

func (c *Controller) onNextLevel(ev NextLevel) {
	if c.session.State != StatePlaying {
		return
	}
	per := max(c.cfg.EnemiesPerLevel, 1)
	start := (ev.Level - 1) * 2 * per

	c.enemies.SetLevel(ev.Level)
	c.enemies.LoadEnemySet(context.Background(), start, per)
	c.enemies.SetSpeed(float64(ev.Level) / c.cfg.SpeedDivisor)
	c.enemies.StartProducing(true)
}

func (c *Controller) onFocusChanged(ev FocusChanged) {
	if c.session.State != StatePlaying {
		return
	}
	if !ev.Focused {
		if c.enemies.IsProducing() {
			c.enemies.StopProducing()
			c.focusPaused = true
		}
		return
	}
	if c.focusPaused && !c.enemies.IsProducing() {
		c.enemies.StartProducing(false)
	}
	c.focusPaused = false
}

func (c *Controller) checkLives() {
	if c.player.Lives() > 0 || c.gameOverFired {
		return
	}
	c.gameOverFired = true
	c.session.State = StateGameOver
	c.inputBound = false
	c.enemies.StopProducing()

	final := HighScore{
		User:  c.user,
		Score: c.player.Score(),
		Party: c.player.Party(),
		Level: c.session.Level,
	}
	c.log.Info("game over", "score", final.Score, "level", final.Level, "party", final.Party.Name())
	if c.scores != nil {
		c.scores.Submit(final)
	}

	c.med.Publish(GameOver{Score: final.Score, Level: final.Level, Party: final.Party})
	c.med.Publish(LoadScene{Scene: SceneGameOver})
}

func (c *Controller) publishScore() {
	c.med.Publish(ScoreChanged{
		Score: c.player.Score(),
		Lives: c.player.Lives(),
		Level: c.session.Level,
	})
}

// Close removes the controller's subscriptions.
func (c *Controller) Close() {
	for _, sub := range c.subs {
		c.med.Unsubscribe(sub)
	}
	c.subs = nil
}

package hotair

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hot-air/internal/config"
	"github.com/vovakirdan/hot-air/internal/content"
	"github.com/vovakirdan/hot-air/internal/core"
	"github.com/vovakirdan/hot-air/internal/mediator"
)

// Layout rows.
const (
	hudRows      = 2 // score line and launcher rail
	footerRows   = 2 // separator and selected post
	launcherStep = 2 // cells per key press
)

// readiness is implemented by sources that warm up asynchronously.
type readiness interface {
	Ready(start, count int) bool
}

// Options holds the collaborators of a Game.
type Options struct {
	Config config.Config
	Source content.Source // nil uses the built-in posts
	Scores ScoreSubmitter // nil discards final scores
	Logger *log.Logger
	User   string // recorded with high scores
}

// Game implements core.Game for Hot Air. A new mediator, player,
// controller and enemy controller are built on every Reset.
type Game struct {
	opts Options
	cfg  config.Config
	log  *log.Logger
	med  *mediator.Mediator

	player  *PlayerState
	enemies *EnemyController
	ctrl    *Controller

	width, height int
	scene         Scene
	tickCount     int
	loadingTicks  int
	quit          bool

	launcherX    int
	dartCooldown int
	partyChoice  int // 0 Democrat, 1 Republican
	pauseChoice  int // 0 Resume, 1 End Game

	enemyList []*Enemy
	darts     []*Dart
	popups    []*Popup
	messages  messageQueue
	selected  *Enemy
	final     GameOver
}

var _ core.Game = (*Game)(nil)

// New creates a Hot Air game. Call Reset before stepping it.
func New(opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Source == nil {
		opts.Source = content.FallbackSource{}
	}
	cfg := opts.Config
	cfg.Gameplay.EnemiesPerLevel = max(cfg.Gameplay.EnemiesPerLevel, 1)
	if cfg.Gameplay.SpeedDivisor <= 0 {
		cfg.Gameplay.SpeedDivisor = 1.5
	}
	return &Game{
		opts: opts,
		cfg:  cfg,
		log:  opts.Logger,
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "hotair"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Hot Air"
}

// Mediator returns the event hub of the current session.
func (g *Game) Mediator() *mediator.Mediator { return g.med }

// Controller returns the state machine of the current session.
func (g *Game) Controller() *Controller { return g.ctrl }

// Enemies returns the live enemies.
func (g *Game) Enemies() []*Enemy { return g.enemyList }

// Reset builds a fresh session and shows the loading scene.
func (g *Game) Reset(rc core.RuntimeConfig) {
	if g.med == nil {
		g.med = mediator.New(g.log)
	} else {
		g.med.Reset()
	}
	g.clearWorld()

	g.width, g.height = rc.ScreenW, rc.ScreenH
	g.scene = SceneLoading
	g.tickCount = 0
	g.loadingTicks = 0
	g.quit = false
	g.partyChoice = 0
	g.pauseChoice = 0
	g.dartCooldown = 0
	g.final = GameOver{}
	g.launcherX = g.width / 2

	difficulty := config.NewDifficultyManager(g.cfg.Difficulty)
	g.player = NewPlayerState(g.cfg.Gameplay.StartLives)
	g.enemies = NewEnemyController(g.med, EnemyControllerOptions{
		Enemy:      g.cfg.Enemy,
		Spawn:      g.cfg.Spawn,
		Difficulty: difficulty,
		Source:     g.opts.Source,
		Logger:     g.log,
		Seed:       rc.Seed,
		OnSpawn:    g.addEnemy,
	})
	g.enemies.SetBounds(g.width, g.playTop(), g.playBottom())
	g.ctrl = NewController(g.med, g.player, g.enemies, g.opts.Scores, g.cfg.Gameplay, g.log)
	g.ctrl.SetUser(g.opts.User)

	mediator.On(g.med, g.onLoadScene)
	mediator.On(g.med, func(ev ShowMessage) { g.messages.push(ev, g.cfg.Gameplay.MessageTicks) })
	mediator.On(g.med, func(PauseGame) { g.pauseChoice = 0 })
	mediator.On(g.med, func(ev GameOver) { g.final = ev })
	mediator.On(g.med, func(ev EnemyHitComplete) {
		r := ev.Enemy.Rect()
		g.addPopup(core.Vec{X: float64(r.X + r.W/2 - 2), Y: float64(r.Y)}, ev.Score.Delta)
	})
	mediator.On(g.med, func(ev EnemyOffScreenComplete) {
		if ev.Whoops {
			g.addPopup(core.Vec{X: ev.Enemy.Motion.Pos.X, Y: float64(g.playTop())}, ev.Score.Delta)
		}
	})

	if p, ok := g.opts.Source.(prefetcher); ok {
		p.Prefetch(0, g.cfg.Gameplay.EnemiesPerLevel)
	}
}

// Resize adapts the play area without resetting the session.
func (g *Game) Resize(w, h int) {
	g.width, g.height = w, h
	if g.enemies != nil {
		g.enemies.SetBounds(w, g.playTop(), g.playBottom())
	}
	g.launcherX = core.Clamp(g.launcherX, 0, max(w-1, 0))
}

func (g *Game) playTop() int    { return hudRows }
func (g *Game) playBottom() int { return max(g.height-footerRows, hudRows+1) }

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tickCount++

	if in.Has(core.ActionQuit) {
		g.quit = true
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionFocusLost) {
		g.med.Publish(FocusChanged{Focused: false})
	}
	if in.Has(core.ActionFocusGained) {
		g.med.Publish(FocusChanged{Focused: true})
	}

	switch g.scene {
	case SceneLoading:
		g.stepLoading()
	case SceneStart:
		g.stepStart(in)
	case ScenePlaying:
		g.stepPlaying(in)
	case SceneGameOver:
		if in.Has(core.ActionConfirm) || in.Has(core.ActionRestart) || in.Has(core.ActionFire) {
			g.ctrl.Acknowledge()
		}
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) stepLoading() {
	g.loadingTicks++
	ready := true
	if r, ok := g.opts.Source.(readiness); ok {
		ready = r.Ready(0, g.cfg.Gameplay.EnemiesPerLevel)
	}
	if ready || g.loadingTicks >= g.cfg.Gameplay.LoadingTicks {
		g.med.Publish(GameLoaded{})
	}
}

func (g *Game) stepStart(in core.InputFrame) {
	if in.Has(core.ActionLeft) || in.Has(core.ActionUp) {
		g.partyChoice = 0
	}
	if in.Has(core.ActionRight) || in.Has(core.ActionDown) {
		g.partyChoice = 1
	}
	if in.Has(core.ActionConfirm) || in.Has(core.ActionFire) {
		g.med.Publish(StartNewGame{Party: g.chosenParty()})
	}
}

func (g *Game) chosenParty() Party {
	if g.partyChoice == 1 {
		return Republican
	}
	return Democrat
}

func (g *Game) stepPlaying(in core.InputFrame) {
	if g.ctrl.Session().State == StatePaused {
		g.stepPauseMenu(in)
		return
	}

	if in.Has(core.ActionPause) || in.Has(core.ActionBack) || in.Has(core.ActionConfirm) {
		g.med.Publish(PauseGame{})
		return
	}

	if g.ctrl.InputBound() {
		if in.Has(core.ActionLeft) {
			g.launcherX = core.Clamp(g.launcherX-launcherStep, 0, max(g.width-1, 0))
		}
		if in.Has(core.ActionRight) {
			g.launcherX = core.Clamp(g.launcherX+launcherStep, 0, max(g.width-1, 0))
		}
		if in.Has(core.ActionFire) && g.dartCooldown == 0 {
			g.darts = append(g.darts, newDart(float64(g.launcherX), float64(g.playTop()), g.cfg.Dart))
			g.dartCooldown = g.cfg.Dart.Cooldown
		}
	}

	g.stepWorld()
}

func (g *Game) stepPauseMenu(in core.InputFrame) {
	if in.Has(core.ActionUp) || in.Has(core.ActionLeft) {
		g.pauseChoice = 0
	}
	if in.Has(core.ActionDown) || in.Has(core.ActionRight) {
		g.pauseChoice = 1
	}
	switch {
	case in.Has(core.ActionPause) || in.Has(core.ActionBack):
		g.med.Publish(ResumeGame{})
	case in.Has(core.ActionConfirm) || in.Has(core.ActionFire):
		if g.pauseChoice == 1 {
			g.med.Publish(EndGame{})
		} else {
			g.med.Publish(ResumeGame{})
		}
	}
}

// stepWorld moves every entity one tick and resolves collisions.
func (g *Game) stepWorld() {
	if g.dartCooldown > 0 {
		g.dartCooldown--
	}

	g.enemies.Step()

	top, bottom := g.playTop(), g.playBottom()
	for _, e := range g.enemyList {
		e.Step(top, bottom)
	}

	for _, d := range g.darts {
		d.Step(g.cfg.Dart.Gravity, bottom)
		for _, e := range g.enemyList {
			if d.Strikes(e) {
				d.dead = true
				e.Strike()
				break
			}
		}
	}

	g.enemyList = compact(g.enemyList, func(e *Enemy) bool { return !e.Destroyed() })
	g.darts = compact(g.darts, func(d *Dart) bool { return !d.Dead() })
	g.popups = compact(g.popups, func(p *Popup) bool { return p.Step() })

	g.messages.step()
	g.updateSelection()
}

// updateSelection selects the highest live enemy under the launcher.
func (g *Game) updateSelection() {
	var best *Enemy
	for _, e := range g.enemyList {
		if e.Hit() || e.Destroyed() {
			continue
		}
		r := e.Rect()
		if g.launcherX < r.X || g.launcherX >= r.Right() {
			continue
		}
		if best == nil || e.Motion.Pos.Y < best.Motion.Pos.Y {
			best = e
		}
	}
	if best != g.selected {
		g.selected = best
		g.med.Publish(EnemySelected{Enemy: best})
	}
}

func (g *Game) addEnemy(e *Enemy) {
	g.enemyList = append(g.enemyList, e)
}

func (g *Game) addPopup(pos core.Vec, delta int) {
	g.popups = append(g.popups, newPopup(pos, delta, g.cfg.Gameplay.PopupTicks))
}

func (g *Game) onLoadScene(ev LoadScene) {
	g.scene = ev.Scene
	if ev.Scene == SceneStart || ev.Scene == ScenePlaying {
		g.clearWorld()
		g.launcherX = g.width / 2
	}
}

func (g *Game) clearWorld() {
	for _, e := range g.enemyList {
		e.Destroy()
	}
	g.enemyList = nil
	g.darts = nil
	g.popups = nil
	g.messages.clear()
	g.selected = nil
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.ctrl == nil {
		return core.GameState{Scene: string(g.scene), Quit: g.quit}
	}
	s := g.ctrl.Session()
	return core.GameState{
		Score:    g.player.Score(),
		Lives:    g.player.Lives(),
		Level:    s.Level,
		Scene:    string(g.scene),
		GameOver: s.State == StateGameOver,
		Paused:   s.State == StatePaused,
		Quit:     g.quit,
	}
}

// compact keeps the items for which keep returns true, reusing the backing array.
func compact[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	clear(items[len(out):])
	return out
}

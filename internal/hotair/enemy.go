package hotair

import (
	"math"

	"github.com/vovakirdan/hot-air/internal/config"
	"github.com/vovakirdan/hot-air/internal/content"
	"github.com/vovakirdan/hot-air/internal/core"
	"github.com/vovakirdan/hot-air/internal/mediator"
)

// Motion is a position and velocity in cells and cells per tick.
type Motion struct {
	Pos core.Vec
	Vel core.Vec
}

// Advance moves the position by one tick of velocity.
func (m *Motion) Advance() {
	m.Pos.X += m.Vel.X
	m.Pos.Y += m.Vel.Y
}

// Hitbox is a collision size anchored at an entity's position.
type Hitbox struct {
	W, H int
}

// Rect returns the hitbox placed at pos.
func (h Hitbox) Rect(pos core.Vec) core.Rect {
	x, y := pos.Cell()
	return core.NewRect(x, y, h.W, h.H)
}

// Sprite describes how an enemy is drawn.
type Sprite struct {
	Color    core.Color
	Selected bool // under the launcher
	Revealed bool // author and party shown after a hit
}

// Enemy is a balloon carrying a post. It rises on its own, reports its own
// escape, and reacts to the resolution the controller publishes for it.
type Enemy struct {
	ID      int
	Wave    int
	Party   Party
	Payload content.Payload

	Motion Motion
	Hitbox Hitbox
	Sprite Sprite

	hit       bool // struck or escaped; no longer interacts
	resolved  bool // score applied
	falling   bool
	destroyed bool

	cfg  config.EnemyConfig
	med  *mediator.Mediator
	subs []mediator.Subscription
}

func newEnemy(med *mediator.Mediator, cfg config.EnemyConfig, id, wave int, p content.Payload, party Party, x, y, speed float64) *Enemy {
	e := &Enemy{
		ID:      id,
		Wave:    wave,
		Party:   party,
		Payload: p,
		Motion: Motion{
			Pos: core.Vec{X: x, Y: y},
			Vel: core.Vec{Y: -speed * cfg.SpeedScale},
		},
		Hitbox: Hitbox{W: cfg.Width, H: cfg.Height},
		Sprite: Sprite{Color: core.ColorWhite},
		cfg:    cfg,
		med:    med,
	}
	e.subs = []mediator.Subscription{
		mediator.On(med, func(ev EnemyHitComplete) {
			if ev.Enemy == e {
				e.startFalling()
			}
		}),
		mediator.On(med, func(ev EnemyOffScreenComplete) {
			if ev.Enemy == e {
				e.Destroy()
			}
		}),
		mediator.On(med, func(ev EnemySelected) {
			e.Sprite.Selected = ev.Enemy == e
		}),
	}
	return e
}

func (e *Enemy) Hit() bool       { return e.hit }
func (e *Enemy) Resolved() bool  { return e.resolved }
func (e *Enemy) Falling() bool   { return e.falling }
func (e *Enemy) Destroyed() bool { return e.destroyed }
func (e *Enemy) Rect() core.Rect { return e.Hitbox.Rect(e.Motion.Pos) }

// MarkResolved sets the resolved flag and reports whether it was clear.
// A resolution is applied only by the caller that gets true.
func (e *Enemy) MarkResolved() bool {
	if e.resolved {
		return false
	}
	e.resolved = true
	return true
}

// Strike marks the enemy as hit by a dart and publishes EnemyHitStart.
// It returns false if the enemy was already hit or escaping.
func (e *Enemy) Strike() bool {
	if e.hit || e.destroyed {
		return false
	}
	e.hit = true
	e.med.Publish(EnemyHitStart{Enemy: e})
	return true
}

// Step advances the enemy one tick. top is the first row of the play area
// and bottom the first row below it.
func (e *Enemy) Step(top, bottom int) {
	if e.destroyed {
		return
	}

	if e.falling {
		e.Motion.Vel.Y = math.Min(e.Motion.Vel.Y*e.cfg.FallAcceleration, e.cfg.TerminalVelocity)
		e.Motion.Advance()
		if e.Motion.Pos.Y >= float64(bottom) {
			e.Destroy()
		}
		return
	}
	if e.hit {
		return
	}

	e.Motion.Advance()
	if e.Motion.Pos.Y+float64(e.Hitbox.H) < float64(top-e.cfg.OffScreenGrace) {
		e.hit = true
		e.med.Publish(EnemyOffScreenStart{Enemy: e})
	}
}

func (e *Enemy) startFalling() {
	e.falling = true
	e.Sprite.Revealed = true
	e.Sprite.Selected = false
	e.Sprite.Color = e.Party.Color()
	e.Motion.Vel.Y = math.Max(e.cfg.SpeedScale, 0.01)
}

// Destroy removes the enemy's subscriptions and marks it for removal.
func (e *Enemy) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	for _, sub := range e.subs {
		e.med.Unsubscribe(sub)
	}
	e.subs = nil
}

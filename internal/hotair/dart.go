package hotair

import (
	"math"

	"github.com/vovakirdan/hot-air/internal/config"
	"github.com/vovakirdan/hot-air/internal/core"
)

// dartMaxVelocity keeps a dart from skipping over the top third of a balloon.
const dartMaxVelocity = 1.0

// Dart falls from the launcher under gravity.
type Dart struct {
	Motion Motion
	Hitbox Hitbox
	dead   bool
}

func newDart(x, y float64, cfg config.DartConfig) *Dart {
	return &Dart{
		Motion: Motion{
			Pos: core.Vec{X: x, Y: y},
			Vel: core.Vec{Y: cfg.InitialVelocity},
		},
		Hitbox: Hitbox{W: 1, H: 1},
	}
}

// Step applies gravity and moves the dart. It dies once below bottom.
func (d *Dart) Step(gravity float64, bottom int) {
	d.Motion.Vel.Y = math.Min(d.Motion.Vel.Y+gravity, dartMaxVelocity)
	d.Motion.Advance()
	if d.Motion.Pos.Y >= float64(bottom) {
		d.dead = true
	}
}

func (d *Dart) Dead() bool      { return d.dead }
func (d *Dart) Rect() core.Rect { return d.Hitbox.Rect(d.Motion.Pos) }

// Strikes reports whether the dart tip has reached the upper third of a
// balloon that can still be hit.
func (d *Dart) Strikes(e *Enemy) bool {
	if d.dead || e.Hit() || e.Destroyed() {
		return false
	}
	if !d.Rect().Intersects(e.Rect()) {
		return false
	}
	return d.Motion.Pos.Y <= e.Motion.Pos.Y+float64(e.Hitbox.H)/3
}

package hotair

import (
	"context"
	"errors"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hot-air/internal/config"
	"github.com/vovakirdan/hot-air/internal/content"
	"github.com/vovakirdan/hot-air/internal/mediator"
)

// prefetcher is implemented by sources that can warm a batch in the background.
type prefetcher interface {
	Prefetch(start, count int)
}

// EnemyControllerOptions configures an EnemyController.
type EnemyControllerOptions struct {
	Enemy      config.EnemyConfig
	Spawn      config.SpawnConfig
	Difficulty *config.DifficultyManager // nil keeps the base interval
	Source     content.Source
	Logger     *log.Logger
	Seed       int64
	OnSpawn    func(*Enemy) // receives every spawned enemy
}

// EnemyController spawns the enemies of the current level on a tick timer.
// Once spawned, an enemy runs on its own; the controller only counts
// resolutions to know when the level is complete.
type EnemyController struct {
	med  *mediator.Mediator
	opts EnemyControllerOptions
	log  *log.Logger
	rng  *rand.Rand

	width, top, bottom int

	set     []content.Payload
	parties []Party
	next    int // index of the next payload to spawn
	retired int
	wave    int
	level   int
	nextID  int
	done    bool

	producing bool
	timer     int
	speed     float64

	subs []mediator.Subscription
}

// NewEnemyController creates a controller subscribed to enemy resolutions.
func NewEnemyController(med *mediator.Mediator, opts EnemyControllerOptions) *EnemyController {
	if opts.Source == nil {
		opts.Source = content.FallbackSource{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	c := &EnemyController{
		med:    med,
		opts:   opts,
		log:    opts.Logger,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		level:  1,
		width:  80,
		bottom: 24,
	}
	c.subs = []mediator.Subscription{
		mediator.On(med, func(ev EnemyHitComplete) { c.retire(ev.Enemy) }),
		mediator.On(med, func(ev EnemyOffScreenComplete) { c.retire(ev.Enemy) }),
	}
	return c
}

// SetBounds sets the play area enemies spawn into.
func (c *EnemyController) SetBounds(width, top, bottom int) {
	c.width, c.top, c.bottom = width, top, bottom
}

// SetLevel sets the level reported in LevelComplete and used for pacing.
func (c *EnemyController) SetLevel(level int) {
	c.level = level
}

// SetSpeed sets the rise speed given to newly spawned enemies.
func (c *EnemyController) SetSpeed(v float64) {
	c.speed = v
}

func (c *EnemyController) Speed() float64    { return c.speed }
func (c *EnemyController) IsProducing() bool { return c.producing }

// Remaining returns how many enemies of the set have not spawned yet.
func (c *EnemyController) Remaining() int {
	return len(c.set) - c.next
}

// LoadEnemySet replaces the current set with count payloads starting at
// start. Missing payloads are filled from the built-in posts. Producing
// stops until StartProducing is called.
func (c *EnemyController) LoadEnemySet(ctx context.Context, start, count int) {
	rows, err := c.opts.Source.Load(ctx, start, count)
	switch {
	case errors.Is(err, content.ErrNotReady):
		c.log.Debug("content not ready, using built-in posts", "start", start, "count", count)
	case err != nil:
		c.log.Warn("could not load enemy set", "start", start, "count", count, "error", err)
	}
	if len(rows) > count {
		rows = rows[:count]
	}
	if len(rows) < count {
		rows = append(rows, content.Fallback(start+len(rows), count-len(rows))...)
	}

	c.set = rows
	c.parties = make([]Party, len(rows))
	for i, p := range rows {
		party, err := ParseParty(p.Party)
		if err != nil {
			// Untagged posts alternate so both parties appear.
			party = Democrat
			if i%2 == 1 {
				party = Republican
			}
		}
		c.parties[i] = party
	}

	c.wave++
	c.next = 0
	c.retired = 0
	c.done = false
	c.producing = false

	if p, ok := c.opts.Source.(prefetcher); ok {
		p.Prefetch(start+2*count, count)
	}
}

// StartProducing starts the spawn timer. With immediate set, the first
// enemy spawns on the next Step; otherwise after one interval.
func (c *EnemyController) StartProducing(immediate bool) {
	if c.next >= len(c.set) {
		return
	}
	c.producing = true
	if immediate {
		c.timer = 0
	} else {
		c.timer = c.interval()
	}
}

// StopProducing stops the spawn timer. Enemies already spawned keep moving.
func (c *EnemyController) StopProducing() {
	c.producing = false
}

// Step advances the spawn timer one tick.
func (c *EnemyController) Step() {
	if !c.producing {
		return
	}
	if c.timer > 0 {
		c.timer--
		return
	}
	c.spawnNext()
	c.timer = c.interval()
}

func (c *EnemyController) interval() int {
	if c.opts.Difficulty == nil {
		return max(c.opts.Spawn.BaseInterval, 1)
	}
	return c.opts.Difficulty.SpawnInterval(c.opts.Spawn, c.level)
}

func (c *EnemyController) spawnNext() {
	p := c.set[c.next]
	party := c.parties[c.next]
	c.next++
	if c.next >= len(c.set) {
		c.producing = false
	}

	span := c.width - c.opts.Enemy.Width
	x := 0
	if span > 0 {
		x = c.rng.Intn(span + 1)
	}

	c.nextID++
	e := newEnemy(c.med, c.opts.Enemy, c.nextID, c.wave, p, party, float64(x), float64(c.bottom), c.speed)
	if c.opts.OnSpawn != nil {
		c.opts.OnSpawn(e)
	}
}

func (c *EnemyController) retire(e *Enemy) {
	if e == nil || e.Wave != c.wave {
		return
	}
	c.retired++
	if !c.done && c.next >= len(c.set) && c.retired >= len(c.set) {
		c.done = true
		c.med.Publish(LevelComplete{Level: c.level})
	}
}

// Close removes the controller's subscriptions.
func (c *EnemyController) Close() {
	for _, sub := range c.subs {
		c.med.Unsubscribe(sub)
	}
	c.subs = nil
	c.producing = false
}

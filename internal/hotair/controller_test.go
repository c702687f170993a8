package hotair

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hot-air/internal/config"
	"github.com/vovakirdan/hot-air/internal/content"
	"github.com/vovakirdan/hot-air/internal/mediator"
)

type scoreRecorder struct {
	scores []HighScore
}

func (r *scoreRecorder) Submit(hs HighScore) {
	r.scores = append(r.scores, hs)
}

type spySource struct {
	calls [][2]int
}

func (s *spySource) Load(_ context.Context, start, count int) ([]content.Payload, error) {
	s.calls = append(s.calls, [2]int{start, count})
	return content.Fallback(start, count), nil
}

type harness struct {
	med     *mediator.Mediator
	ctrl    *Controller
	enemies *EnemyController
	scores  *scoreRecorder
	source  *spySource
	spawned []*Enemy
	msgs    []ShowMessage
	overs   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	discard := log.New(io.Discard)
	cfg := config.Default()
	h := &harness{
		med:    mediator.New(discard),
		scores: &scoreRecorder{},
		source: &spySource{},
	}
	h.enemies = NewEnemyController(h.med, EnemyControllerOptions{
		Enemy:   cfg.Enemy,
		Spawn:   cfg.Spawn,
		Source:  h.source,
		Logger:  discard,
		Seed:    1,
		OnSpawn: func(e *Enemy) { h.spawned = append(h.spawned, e) },
	})
	h.enemies.SetBounds(80, 2, 22)
	h.ctrl = NewController(h.med, NewPlayerState(cfg.Gameplay.StartLives), h.enemies, h.scores, cfg.Gameplay, discard)
	mediator.On(h.med, func(ev ShowMessage) { h.msgs = append(h.msgs, ev) })
	mediator.On(h.med, func(GameOver) { h.overs++ })
	return h
}

func (h *harness) start(party Party) {
	h.med.Publish(StartNewGame{Party: party})
}

// enemy creates a stray enemy that does not belong to the current wave.
func (h *harness) enemy(party Party) *Enemy {
	return newEnemy(h.med, config.Default().Enemy, 999, -1, content.Payload{}, party, 10, 10, 1)
}

func (h *harness) player() *PlayerState { return h.ctrl.Player() }

func TestStartNewGame(t *testing.T) {
	h := newHarness(t)
	h.start(Democrat)

	s := h.ctrl.Session()
	if s.State != StatePlaying || s.Level != 1 || !s.PerfectLevel {
		t.Errorf("Unexpected session after start: %+v", s)
	}
	if h.player().Lives() != 3 {
		t.Errorf("Expected 3 lives, got %d", h.player().Lives())
	}
	if !h.ctrl.InputBound() {
		t.Error("Gameplay input should be bound after start")
	}
	if len(h.source.calls) != 1 || h.source.calls[0] != [2]int{0, 2} {
		t.Errorf("Expected level 1 set load (0, 2), got %v", h.source.calls)
	}
	if !h.enemies.IsProducing() {
		t.Error("Enemy controller should be producing")
	}
}

func TestStartNewGameRejectsInvalidParty(t *testing.T) {
	h := newHarness(t)
	h.start(Party("x"))

	if h.ctrl.Session().State != StateIdle {
		t.Errorf("Invalid party should not start a game, state=%v", h.ctrl.Session().State)
	}
}

func TestHitScoring(t *testing.T) {
	h := newHarness(t)
	h.start(Democrat)
	h.ctrl.session.Level = 2

	h.enemy(Republican).Strike()
	if h.player().Score() != 200 || h.player().Lives() != 3 {
		t.Errorf("Opponent hit: score=%d lives=%d, want 200/3", h.player().Score(), h.player().Lives())
	}
	if !h.ctrl.Session().PerfectLevel {
		t.Error("Opponent hit should keep the perfect flag")
	}

	h.enemy(Democrat).Strike()
	if h.player().Score() != 0 || h.player().Lives() != 2 {
		t.Errorf("Own-party hit: score=%d lives=%d, want 0/2", h.player().Score(), h.player().Lives())
	}
	if h.ctrl.Session().PerfectLevel {
		t.Error("Own-party hit should clear the perfect flag")
	}
}

func TestHitCompleteCarriesDelta(t *testing.T) {
	h := newHarness(t)
	h.start(Republican)

	var got []ScoreEvent
	mediator.On(h.med, func(ev EnemyHitComplete) { got = append(got, ev.Score) })

	h.enemy(Democrat).Strike()
	h.enemy(Republican).Strike()

	if len(got) != 2 {
		t.Fatalf("Expected 2 hit completions, got %d", len(got))
	}
	if got[0].Delta != 100 || got[0].Cause != CauseHit || got[0].LifeLost {
		t.Errorf("Unexpected reward event: %+v", got[0])
	}
	if got[1].Delta != -100 || !got[1].LifeLost {
		t.Errorf("Unexpected penalty event: %+v", got[1])
	}
}

func TestEscapeScoring(t *testing.T) {
	tests := []struct {
		name       string
		enemy      Party
		score      int
		wantScore  int
		wantLives  int
		wantWhoops bool
		perfect    bool
	}{
		{"opponent with score", Republican, 500, 300, 3, true, false},
		{"opponent without score", Republican, 0, 0, 2, true, false},
		{"opponent with negative score", Republican, -200, -200, 2, true, false},
		{"friendly", Democrat, 500, 500, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.start(Democrat)
			h.ctrl.session.Level = 2
			h.player().AddToScore(tt.score)

			var whoops bool
			mediator.On(h.med, func(ev EnemyOffScreenComplete) { whoops = ev.Whoops })
			h.med.Publish(EnemyOffScreenStart{Enemy: h.enemy(tt.enemy)})

			if h.player().Score() != tt.wantScore {
				t.Errorf("score = %d, want %d", h.player().Score(), tt.wantScore)
			}
			if h.player().Lives() != tt.wantLives {
				t.Errorf("lives = %d, want %d", h.player().Lives(), tt.wantLives)
			}
			if whoops != tt.wantWhoops {
				t.Errorf("whoops = %v, want %v", whoops, tt.wantWhoops)
			}
			if h.ctrl.Session().PerfectLevel != tt.perfect {
				t.Errorf("perfect = %v, want %v", h.ctrl.Session().PerfectLevel, tt.perfect)
			}
		})
	}
}

func TestResolutionIsIdempotent(t *testing.T) {
	t.Run("hit then escape", func(t *testing.T) {
		h := newHarness(t)
		h.start(Democrat)
		e := h.enemy(Republican)

		h.med.Publish(EnemyHitStart{Enemy: e})
		h.med.Publish(EnemyOffScreenStart{Enemy: e})
		h.med.Publish(EnemyHitStart{Enemy: e})

		if h.player().Score() != 100 || h.player().Lives() != 3 {
			t.Errorf("score=%d lives=%d, want 100/3", h.player().Score(), h.player().Lives())
		}
	})

	t.Run("escape then hit", func(t *testing.T) {
		h := newHarness(t)
		h.start(Democrat)
		e := h.enemy(Republican)

		h.med.Publish(EnemyOffScreenStart{Enemy: e})
		h.med.Publish(EnemyHitStart{Enemy: e})

		if h.player().Score() != 0 || h.player().Lives() != 2 {
			t.Errorf("score=%d lives=%d, want 0/2", h.player().Score(), h.player().Lives())
		}
	})

	t.Run("strike twice", func(t *testing.T) {
		h := newHarness(t)
		h.start(Democrat)
		e := h.enemy(Republican)

		if !e.Strike() {
			t.Fatal("first strike should register")
		}
		if e.Strike() {
			t.Error("second strike should be ignored")
		}
		if h.player().Score() != 100 {
			t.Errorf("score=%d, want 100", h.player().Score())
		}
	})
}

func TestLevelCompletePerfect(t *testing.T) {
	h := newHarness(t)
	h.start(Democrat)
	h.msgs = nil

	h.med.Publish(LevelComplete{Level: 1})

	if h.player().Lives() != 4 {
		t.Errorf("Perfect level should grant one life, lives=%d", h.player().Lives())
	}
	if h.ctrl.Session().Level != 1 {
		t.Error("Level should not advance before the message finishes")
	}
	if len(h.msgs) != 1 || h.msgs[0].Text != "Perfect Level!" || h.msgs[0].Done == nil {
		t.Fatalf("Expected Perfect Level message with callback, got %+v", h.msgs)
	}

	h.msgs[0].Done()

	s := h.ctrl.Session()
	if s.Level != 2 || !s.PerfectLevel {
		t.Errorf("After message: level=%d perfect=%v, want 2/true", s.Level, s.PerfectLevel)
	}
	if h.player().Lives() != 4 {
		t.Errorf("Bonus life should be granted exactly once, lives=%d", h.player().Lives())
	}
	last := h.source.calls[len(h.source.calls)-1]
	if last != [2]int{4, 2} {
		t.Errorf("Level 2 set should start at 4, got %v", last)
	}
	if h.enemies.Speed() != 2/1.5 {
		t.Errorf("Level 2 speed = %v, want %v", h.enemies.Speed(), 2/1.5)
	}
}

func TestLevelCompleteImperfect(t *testing.T) {
	h := newHarness(t)
	h.start(Democrat)
	h.enemy(Democrat).Strike()

	h.med.Publish(LevelComplete{Level: 1})

	s := h.ctrl.Session()
	if s.Level != 2 {
		t.Errorf("Level should advance immediately, got %d", s.Level)
	}
	if !s.PerfectLevel {
		t.Error("Perfect flag should reset to true for the next level")
	}
	if h.player().Lives() != 2 {
		t.Errorf("No bonus life expected, lives=%d", h.player().Lives())
	}
}

func TestStaleMessageCallbackIgnored(t *testing.T) {
	h := newHarness(t)
	h.start(Democrat)
	h.msgs = nil
	h.med.Publish(LevelComplete{Level: 1})
	done := h.msgs[0].Done

	h.med.Publish(PauseGame{})
	h.med.Publish(EndGame{})
	h.start(Republican)
	done()

	if h.ctrl.Session().Level != 1 {
		t.Errorf("Callback from a previous game advanced the level to %d", h.ctrl.Session().Level)
	}
}

func TestGameOverFiresOnce(t *testing.T) {
	h := newHarness(t)
	h.start(Democrat)
	h.player().SetLives(1)
	h.player().AddToScore(700)

	h.enemy(Democrat).Strike()

	if h.ctrl.Session().State != StateGameOver {
		t.Fatalf("Expected game over, state=%v", h.ctrl.Session().State)
	}
	if h.player().Lives() != 0 {
		t.Errorf("Lives should be 0, got %d", h.player().Lives())
	}

	h.enemy(Democrat).Strike()
	h.med.Publish(EnemyOffScreenStart{Enemy: h.enemy(Republican)})

	if h.overs != 1 {
		t.Errorf("GameOver published %d times, want 1", h.overs)
	}
	if len(h.scores.scores) != 1 {
		t.Fatalf("Score submitted %d times, want 1", len(h.scores.scores))
	}
	got := h.scores.scores[0]
	if got.Score != 600 || got.Party != Democrat || got.User != DefaultUser || got.Level != 1 {
		t.Errorf("Unexpected submitted score: %+v", got)
	}
	if h.ctrl.InputBound() {
		t.Error("Input should be unbound after game over")
	}
	if h.enemies.IsProducing() {
		t.Error("Spawning should stop on game over")
	}
}

func TestAcknowledgeReturnsToIdle(t *testing.T) {
	h := newHarness(t)
	var scenes []Scene
	mediator.On(h.med, func(ev LoadScene) { scenes = append(scenes, ev.Scene) })

	h.start(Democrat)
	h.player().SetLives(1)
	h.med.Publish(EnemyOffScreenStart{Enemy: h.enemy(Republican)})
	h.ctrl.Acknowledge()

	if h.ctrl.Session().State != StateIdle {
		t.Errorf("Expected idle, got %v", h.ctrl.Session().State)
	}
	want := []Scene{ScenePlaying, SceneGameOver, SceneStart}
	if len(scenes) != len(want) {
		t.Fatalf("scenes = %v, want %v", scenes, want)
	}
	for i := range want {
		if scenes[i] != want[i] {
			t.Errorf("scene %d = %v, want %v", i, scenes[i], want[i])
		}
	}

	h.start(Republican)
	if h.ctrl.Session().State != StatePlaying || h.player().Lives() != 3 || h.player().Score() != 0 {
		t.Error("A new game should start fresh after acknowledgment")
	}
}

func TestPauseResumeGuards(t *testing.T) {
	h := newHarness(t)

	h.med.Publish(PauseGame{})
	if h.ctrl.Session().State != StateIdle {
		t.Error("Pause should be ignored while idle")
	}

	h.start(Democrat)
	h.med.Publish(ResumeGame{})
	if h.ctrl.Session().State != StatePlaying {
		t.Error("Resume should be ignored while playing")
	}
	h.med.Publish(EndGame{})
	if h.ctrl.Session().State != StatePlaying {
		t.Error("EndGame should only act from the pause menu")
	}

	h.med.Publish(PauseGame{})
	h.med.Publish(PauseGame{})
	if h.ctrl.Session().State != StatePaused {
		t.Fatal("Expected paused")
	}
	if h.enemies.IsProducing() || h.ctrl.InputBound() {
		t.Error("Pause should stop spawning and unbind input")
	}

	h.med.Publish(ResumeGame{})
	if h.ctrl.Session().State != StatePlaying || !h.enemies.IsProducing() || !h.ctrl.InputBound() {
		t.Error("Resume should restore spawning and input")
	}

	h.med.Publish(PauseGame{})
	h.med.Publish(EndGame{})
	if h.ctrl.Session().State != StateIdle {
		t.Errorf("EndGame from pause should go idle, got %v", h.ctrl.Session().State)
	}
	if len(h.scores.scores) != 0 {
		t.Error("Abandoned games should not submit a score")
	}
}

func TestHitsIgnoredWhilePaused(t *testing.T) {
	h := newHarness(t)
	h.start(Democrat)
	h.med.Publish(PauseGame{})

	e := h.enemy(Republican)
	h.med.Publish(EnemyHitStart{Enemy: e})
	if h.player().Score() != 0 || e.Resolved() {
		t.Error("Hits should not resolve while paused")
	}
}

func TestFocusLossPausesSpawning(t *testing.T) {
	h := newHarness(t)
	h.start(Democrat)

	h.med.Publish(FocusChanged{Focused: false})
	if h.enemies.IsProducing() {
		t.Error("Focus loss should stop spawning")
	}
	h.med.Publish(FocusChanged{Focused: true})
	if !h.enemies.IsProducing() {
		t.Error("Focus regain should restart spawning")
	}
}

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hot-air/internal/core"
	"github.com/vovakirdan/hot-air/internal/storage"
)

type fakeGame struct {
	resets  int
	w, h    int
	steps   []core.InputFrame
	quitOn  int
	state   core.GameState
	content string
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.w, g.h = cfg.ScreenW, cfg.ScreenH
}

func (g *fakeGame) Resize(w, h int) { g.w, g.h = w, h }

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	copied := core.NewInputFrame()
	for a, ok := range in.Actions {
		if ok {
			copied.Set(a)
		}
	}
	g.steps = append(g.steps, copied)
	if g.quitOn > 0 && len(g.steps) >= g.quitOn {
		g.state.Quit = true
	}
	return core.StepResult{State: g.state}
}

func (g *fakeGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawTextColored(0, 0, g.content, core.ColorBrightRed)
}

func (g *fakeGame) State() core.GameState { return g.state }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		want   core.Action
		isQuit bool
	}{
		{keyRunes("a"), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{keyRunes("d"), core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionFire, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{keyRunes("p"), core.ActionPause, false},
		{keyRunes("r"), core.ActionRestart, false},
		{keyRunes("q"), core.ActionQuit, false},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{keyRunes("z"), core.ActionNone, false},
	}
	for _, tt := range tests {
		got, quit := km.MapKey(tt.msg)
		if got != tt.want || quit != tt.isQuit {
			t.Errorf("MapKey(%q) = %v,%v want %v,%v", tt.msg.String(), got, quit, tt.want, tt.isQuit)
		}
	}
}

func TestMapFocus(t *testing.T) {
	km := NewKeyMapper()
	if got := km.MapFocus(tea.BlurMsg{}); got != core.ActionFocusLost {
		t.Errorf("blur = %v", got)
	}
	if got := km.MapFocus(tea.FocusMsg{}); got != core.ActionFocusGained {
		t.Errorf("focus = %v", got)
	}
	if got := km.MapFocus(tea.WindowSizeMsg{}); got != core.ActionNone {
		t.Errorf("other = %v", got)
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelForwardsInputOnTick(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 30, Seed: 1})
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init should start the tick loop")
	}
	if g.resets != 1 {
		t.Errorf("Init should reset the game once, got %d", g.resets)
	}

	m, _ = update(t, m, keyRunes("a"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(t, m, tea.BlurMsg{})
	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}

	if len(g.steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(g.steps))
	}
	in := g.steps[0]
	for _, a := range []core.Action{core.ActionLeft, core.ActionFire, core.ActionFocusLost} {
		if !in.Has(a) {
			t.Errorf("step input missing %v", a)
		}
	}

	update(t, m, TickMsg(time.Now()))
	if len(g.steps[1].Actions) != 0 {
		t.Errorf("input not cleared between ticks: %v", g.steps[1].Actions)
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, core.RuntimeConfig{ScreenW: 40, ScreenH: 10})
	m.Init()

	update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if g.resets != 1 {
		t.Error("resize should not reset the game")
	}
	if g.w != 100 || g.h != 30 {
		t.Errorf("game size = %dx%d", g.w, g.h)
	}
}

func TestModelQuits(t *testing.T) {
	g := &fakeGame{quitOn: 1}
	m := NewModel(g, core.RuntimeConfig{ScreenW: 20, ScreenH: 5})
	m.Init()

	m, _ = update(t, m, keyRunes("q"))
	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil || !m.quitting {
		t.Error("game quit should stop the program")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}

	m2 := NewModel(&fakeGame{}, core.RuntimeConfig{ScreenW: 20, ScreenH: 5})
	m2, _ = update(t, m2, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m2.quitting {
		t.Error("ctrl+c should quit immediately")
	}
}

func TestViewRendersGame(t *testing.T) {
	g := &fakeGame{content: "POP"}
	m := NewModel(g, core.RuntimeConfig{ScreenW: 10, ScreenH: 2})
	view := m.View()
	if !strings.Contains(view, "POP") {
		t.Errorf("view missing game output: %q", view)
	}
	if got := strings.Count(view, "\n"); got != 1 {
		t.Errorf("expected 2 rows, got %d newlines", got)
	}
}

type fakeScores struct {
	all   []storage.HighScore
	stats map[string]*storage.PartyStats
	err   error
}

func (f *fakeScores) TopHighScores(context.Context, int) ([]storage.HighScore, error) {
	return f.all, f.err
}

func (f *fakeScores) TopHighScoresByParty(_ context.Context, party string, _ int) ([]storage.HighScore, error) {
	var out []storage.HighScore
	for _, s := range f.all {
		if s.Party == party {
			out = append(out, s)
		}
	}
	return out, f.err
}

func (f *fakeScores) StatsByParty(context.Context) (map[string]*storage.PartyStats, error) {
	return f.stats, f.err
}

func TestScoreboardTabs(t *testing.T) {
	store := &fakeScores{
		all: []storage.HighScore{
			{User: "AAA", Score: 900, Party: "d"},
			{User: "BBB", Score: 500, Party: "r"},
			{User: "CCC", Score: 100, Party: "d"},
		},
		stats: map[string]*storage.PartyStats{
			"d": {Party: "d", GamesCount: 2, HighScore: 900, TotalScore: 1000},
			"r": {Party: "r", GamesCount: 1, HighScore: 500, TotalScore: 500},
		},
	}
	m := NewScoreboardModel(store, 100, 30)
	if len(m.scores) != 3 {
		t.Fatalf("all tab should show 3 scores, got %d", len(m.scores))
	}
	if ps := m.currentStats(); ps.GamesCount != 3 || ps.HighScore != 900 {
		t.Errorf("aggregate stats = %+v", ps)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if len(m.scores) != 2 || m.scores[0].User != "AAA" {
		t.Errorf("democrat tab = %+v", m.scores)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	next, _ = next.(ScoreboardModel).Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if scoreTabs[m.tab].title != "Republicans" || len(m.scores) != 1 {
		t.Errorf("expected republican tab, got %q with %d scores", scoreTabs[m.tab].title, len(m.scores))
	}
	if !strings.Contains(m.View(), "Republicans") {
		t.Error("view should name the selected tab")
	}
}

func TestScoreboardShowsLoadError(t *testing.T) {
	m := NewScoreboardModel(&fakeScores{err: errors.New("disk gone")}, 60, 20)
	if !strings.Contains(m.View(), "disk gone") {
		t.Error("load error should be shown")
	}
}

func TestScoreboardQuit(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || next.(ScoreboardModel).View() != "" {
		t.Error("esc should leave the scoreboard")
	}
}

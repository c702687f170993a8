package hotair

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/hot-air/internal/core"
)

// Render draws the current scene to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	switch g.scene {
	case SceneLoading:
		g.renderLoading(dst)
	case SceneStart:
		g.renderStart(dst)
	case ScenePlaying:
		g.renderPlaying(dst)
	case SceneGameOver:
		g.renderGameOver(dst)
	}
}

func (g *Game) renderTitle(dst *core.Screen, y int) {
	dst.DrawTextCenteredColored(y, "H O T   A I R", core.ColorOrange)
	dst.DrawTextCenteredColored(y+1, "~ pop the other side's hot air ~", core.ColorGray)
}

func (g *Game) renderLoading(dst *core.Screen) {
	mid := dst.Height() / 2
	g.renderTitle(dst, mid-2)
	dots := strings.Repeat(".", (g.loadingTicks/15)%4)
	dst.DrawTextCentered(mid+1, fmt.Sprintf("Loading posts%-3s", dots))
}

func (g *Game) renderStart(dst *core.Screen) {
	mid := dst.Height() / 2
	g.renderTitle(dst, mid-6)

	dst.DrawTextCentered(mid-3, "Balloons carry posts from members of Congress.")
	dst.DrawTextCentered(mid-2, "Pop the other party's balloons. Spare your own.")
	dst.DrawTextCentered(mid-1, "Missed opponents cost points, or a life when you have none.")

	dst.DrawTextCentered(mid+1, "Choose your party:")
	dem, rep := "  Democrat  ", "  Republican  "
	if g.partyChoice == 0 {
		dem = "[ Democrat ]"
	} else {
		rep = "[ Republican ]"
	}
	line := dem + "      " + rep
	x := (dst.Width() - utf8.RuneCountInString(line)) / 2
	dst.DrawTextColored(x, mid+3, dem, Democrat.Color())
	dst.DrawTextColored(x+utf8.RuneCountInString(dem)+6, mid+3, rep, Republican.Color())

	dst.DrawTextCenteredColored(dst.Height()-2, "←/→ choose   Enter start   Space drop dart   P pause   Q quit", core.ColorGray)
}

func (g *Game) renderPlaying(dst *core.Screen) {
	g.renderHUD(dst)

	for _, e := range g.enemyList {
		drawEnemy(dst, e)
	}
	for _, d := range g.darts {
		x, y := d.Motion.Pos.Cell()
		dst.SetColored(x, y, '↓', core.ColorBrightWhite)
	}
	for _, p := range g.popups {
		x, y := p.Pos.Cell()
		dst.DrawTextColored(x, y, p.Text, p.Color)
	}

	g.renderFooter(dst)

	if m := g.messages.current(); m != nil {
		dst.DrawTextCenteredColored(dst.Height()/2, m.Text, m.Color)
	}

	if g.ctrl.Session().State == StatePaused {
		g.renderPauseMenu(dst)
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	s := g.ctrl.Session()
	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", g.player.Score()))
	dst.DrawText(16, 0, fmt.Sprintf("Level: %d", s.Level))

	lives := strings.Repeat("♥", g.player.Lives())
	dst.DrawText(28, 0, "Lives: ")
	dst.DrawTextColored(35, 0, lives, core.ColorRed)

	party := "You: " + g.player.Party().Name()
	dst.DrawTextColored(dst.Width()-utf8.RuneCountInString(party)-1, 0, party, g.player.Party().Color())

	dst.DrawHLine(0, 1, dst.Width(), '·', core.ColorGray)
	dst.SetColored(g.launcherX, 1, '▼', core.ColorYellow)
}

func (g *Game) renderFooter(dst *core.Screen) {
	y := dst.Height() - footerRows
	dst.DrawHLine(0, y, dst.Width(), '─', core.ColorGray)

	e := g.selected
	if e == nil {
		dst.DrawTextColored(1, y+1, "Move over a balloon to read it.", core.ColorGray)
		return
	}
	text := "\"" + oneLine(e.Payload.Text) + "\""
	dst.DrawText(1, y+1, truncate(text, dst.Width()-2))
}

// drawEnemy draws a balloon with its string below it.
func drawEnemy(dst *core.Screen, e *Enemy) {
	r := e.Rect()
	color := e.Sprite.Color
	if e.Sprite.Selected {
		color = core.ColorYellow
	}

	inner := max(r.W-2, 1)
	label := "?"
	if e.Sprite.Revealed {
		label = "@" + e.Payload.Handle
		if e.Payload.Handle == "" {
			label = e.Party.Name()
		}
	}
	label = truncate(label, inner)
	pad := inner - utf8.RuneCountInString(label)

	rows := []string{
		"╭" + strings.Repeat("─", inner) + "╮",
		"│" + strings.Repeat(" ", pad/2) + label + strings.Repeat(" ", pad-pad/2) + "│",
		"╰" + strings.Repeat("─", inner/2) + "┬" + strings.Repeat("─", inner-inner/2-1) + "╯",
		strings.Repeat(" ", inner/2+1) + "│",
	}
	for i := 0; i < r.H && i < len(rows); i++ {
		c := color
		if i == len(rows)-1 {
			c = core.ColorGray
		}
		dst.DrawTextColored(r.X, r.Y+i, rows[i], c)
	}

	if e.Sprite.Selected {
		dst.SetColored(r.X-1, r.Y+1, '►', core.ColorYellow)
	}
}

func (g *Game) renderPauseMenu(dst *core.Screen) {
	w, h := 24, 7
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorYellow)
	dst.DrawTextCenteredColored(box.Y+1, "PAUSED", core.ColorYellow)

	items := []string{"Resume", "End Game"}
	for i, item := range items {
		prefix := "  "
		c := core.ColorDefault
		if i == g.pauseChoice {
			prefix = "> "
			c = core.ColorBrightWhite
		}
		dst.DrawTextColored(box.X+7, box.Y+3+i, prefix+item, c)
	}
}

func (g *Game) renderGameOver(dst *core.Screen) {
	w, h := 34, 10
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	dst.DrawBox(box, core.ColorRed)

	dst.DrawTextCenteredColored(box.Y+2, "GAME OVER", core.ColorBrightRed)
	dst.DrawTextCentered(box.Y+4, fmt.Sprintf("Final score: %d", g.final.Score))
	dst.DrawTextCentered(box.Y+5, fmt.Sprintf("Level reached: %d", g.final.Level))
	dst.DrawTextCenteredColored(box.Y+6, g.final.Party.Name(), g.final.Party.Color())
	dst.DrawTextCenteredColored(box.Y+8, "Press Enter to continue", core.ColorGray)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n == 1 {
		return string(runes[:1])
	}
	return string(runes[:n-1]) + "…"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

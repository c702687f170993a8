package hotair

import (
	"fmt"

	"github.com/vovakirdan/hot-air/internal/core"
)

const popupRise = 0.08

// Popup is a floating score change that rises and expires.
type Popup struct {
	Pos   core.Vec
	Text  string
	Color core.Color
	ticks int
}

func newPopup(pos core.Vec, delta int, ticks int) *Popup {
	p := &Popup{Pos: pos, ticks: ticks}
	switch {
	case delta > 0:
		p.Text, p.Color = fmt.Sprintf("+%d", delta), core.ColorGreen
	case delta < 0:
		p.Text, p.Color = fmt.Sprintf("%d", delta), core.ColorRed
	default:
		p.Text, p.Color = "whoops!", core.ColorOrange
	}
	return p
}

// Step moves the popup up one tick and reports whether it is still alive.
func (p *Popup) Step() bool {
	p.Pos.Y -= popupRise
	p.ticks--
	return p.ticks > 0
}

// Message is a timed centered overlay.
type Message struct {
	Text  string
	Color core.Color
	ticks int
	done  func()
}

// messageQueue shows messages one at a time in publish order.
type messageQueue struct {
	items []*Message
}

func (q *messageQueue) push(ev ShowMessage, defaultTicks int) {
	ticks := ev.Ticks
	if ticks <= 0 {
		ticks = defaultTicks
	}
	color := ev.Color
	if color == core.ColorDefault {
		color = core.ColorYellow
	}
	q.items = append(q.items, &Message{Text: ev.Text, Color: color, ticks: ticks, done: ev.Done})
}

// current returns the message on screen, or nil.
func (q *messageQueue) current() *Message {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// step counts down the current message. When it expires it is removed
// before its callback runs, so the callback may queue the next message.
func (q *messageQueue) step() {
	m := q.current()
	if m == nil {
		return
	}
	m.ticks--
	if m.ticks > 0 {
		return
	}
	q.items = q.items[1:]
	if m.done != nil {
		m.done()
	}
}

func (q *messageQueue) clear() {
	q.items = nil
}

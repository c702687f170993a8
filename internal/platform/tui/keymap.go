package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hot-air/internal/core"
)

// KeyMapper translates Bubble Tea messages to game actions.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// isQuit is true only for ctrl+c, which leaves without asking the game.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c":
		return core.ActionQuit, true
	case "q":
		return core.ActionQuit, false
	case "a", "left", "h":
		return core.ActionLeft, false
	case "d", "right", "l":
		return core.ActionRight, false
	case "w", "up", "k":
		return core.ActionUp, false
	case "s", "down", "j":
		return core.ActionDown, false
	case " ":
		return core.ActionFire, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a hard quit.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapFocus translates terminal focus reports. It returns ActionNone for any
// other message.
func (km *KeyMapper) MapFocus(msg tea.Msg) core.Action {
	switch msg.(type) {
	case tea.FocusMsg:
		return core.ActionFocusGained
	case tea.BlurMsg:
		return core.ActionFocusLost
	}
	return core.ActionNone
}

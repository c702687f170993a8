package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone        Action = iota
	ActionLeft               // A, Left arrow - move launcher / menu left
	ActionRight              // D, Right arrow - move launcher / menu right
	ActionUp                 // W, Up arrow - menu up
	ActionDown               // S, Down arrow - menu down
	ActionFire               // Space - drop a dart
	ActionConfirm            // Enter - confirm selection, pause during play
	ActionBack               // B, Escape - go back
	ActionRestart            // R key - restart after game over
	ActionQuit               // Q, Ctrl+C - exit game/session
	ActionPause              // P - pause/unpause game
	ActionFocusLost          // terminal lost focus
	ActionFocusGained        // terminal regained focus
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionFire:
		return "Fire"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionFocusLost:
		return "FocusLost"
	case ActionFocusGained:
		return "FocusGained"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Package hotair implements the Hot Air balloon-popping game: the event
// wiring, the level and scoring state machine, the enemy spawner and the
// entities the player interacts with.
package hotair

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/hot-air/internal/core"
)

// ErrInvalidParty is returned when a value is not a known party.
var ErrInvalidParty = errors.New("hotair: invalid party")

// Party is a political affiliation held by the player and by every balloon.
type Party string

const (
	Democrat   Party = "d"
	Republican Party = "r"
)

// ParseParty accepts a party code or name, case-insensitively.
func ParseParty(s string) (Party, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "dem", "democrat", "democrats":
		return Democrat, nil
	case "r", "rep", "republican", "republicans":
		return Republican, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidParty, s)
}

// Valid reports whether p is one of the two parties.
func (p Party) Valid() bool {
	return p == Democrat || p == Republican
}

// Opponent returns the other party.
func (p Party) Opponent() Party {
	if p == Democrat {
		return Republican
	}
	return Democrat
}

// Name returns the display name of the party.
func (p Party) Name() string {
	switch p {
	case Democrat:
		return "Democrat"
	case Republican:
		return "Republican"
	}
	return "Unknown"
}

// Color returns the color balloons of this party are drawn in once revealed.
func (p Party) Color() core.Color {
	switch p {
	case Democrat:
		return core.ColorBrightBlue
	case Republican:
		return core.ColorBrightRed
	}
	return core.ColorWhite
}

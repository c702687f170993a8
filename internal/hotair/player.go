package hotair

// PlayerState holds the score, lives and party of the current player.
// Lives never drop below zero; detecting game over is the controller's job.
type PlayerState struct {
	score int
	lives int
	party Party
}

// NewPlayerState creates a player with the given lives and no party.
func NewPlayerState(lives int) *PlayerState {
	p := &PlayerState{}
	p.SetLives(lives)
	return p
}

func (p *PlayerState) AddToScore(delta int) { p.score += delta }
func (p *PlayerState) Score() int           { return p.score }
func (p *PlayerState) Lives() int           { return p.lives }
func (p *PlayerState) Party() Party         { return p.party }
func (p *PlayerState) IncrementLives()      { p.lives++ }

// DecrementLives removes one life, stopping at zero.
func (p *PlayerState) DecrementLives() {
	if p.lives > 0 {
		p.lives--
	}
}

// SetLives sets the remaining lives, clamping negative values to zero.
func (p *PlayerState) SetLives(n int) {
	if n < 0 {
		n = 0
	}
	p.lives = n
}

// SetParty sets the player's party. Invalid values are rejected and the
// current party is kept.
func (p *PlayerState) SetParty(party Party) error {
	if !party.Valid() {
		return ErrInvalidParty
	}
	p.party = party
	return nil
}

// ResetScore sets the score back to zero.
func (p *PlayerState) ResetScore() { p.score = 0 }

// internal/game/types.go
//
// Session types for a single Bingo game.
// Defines:
//   - State: coarse session status (playing/won).
//   - Session: the card being played plus its outcome.

package game

import (
	"time"

	"github.com/robalobadob/dingobingo/internal/bingo"
)

// State is the coarse status of a session.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
)

// Session holds one card and the player's progress on it.
type Session struct {
	ID             string     // Unique session identifier (UUID).
	Mode           bingo.Mode // Win rule for this card.
	Card           bingo.Card // Current selection state.
	Finished       bool       // True once the card has won.
	WinningPattern []int      // Cell indices of the win; empty while playing.
	Toggles        int        // Number of accepted cell toggles.
	StartedAt      time.Time
}

// View is the JSON shape of a session returned to clients.
type View struct {
	GameID         string         `json:"gameId"`
	Mode           bingo.ModeInfo `json:"mode"`
	Card           bingo.Card     `json:"card"`
	State          State          `json:"state"`
	WinningPattern []int          `json:"winningPattern"`
	Toggles        int            `json:"toggles"`
}

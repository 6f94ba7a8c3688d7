// internal/game/engine.go
//
// Session engine for a single Bingo card.
// Responsibilities:
//   - Start sessions from a generated card.
//   - Validate and apply cell toggles (range, free space, finished game).
//   - Re-evaluate the card after each toggle and record a win.
//
// Notes:
//   - Card generation and win rules live in the bingo package; this package
//     only owns the mutable selection state.
//   - Restarting a game means starting a new session.

package game

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/dingobingo/internal/bingo"
)

var (
	ErrFinished     = errors.New("game finished")
	ErrInvalidIndex = errors.New("invalid cell index")
	ErrFreeSpace    = errors.New("free space cannot be toggled")
)

// New starts a session with a fresh card generated from pool.
func New(gen *bingo.Generator, pool []string, mode bingo.Mode) *Session {
	return FromCard(gen.Generate(pool, mode), mode)
}

// FromCard starts a session on an existing card (e.g. the daily card).
func FromCard(card bingo.Card, mode bingo.Mode) *Session {
	return &Session{
		ID:             uuid.NewString(),
		Mode:           mode,
		Card:           card,
		WinningPattern: []int{},
		StartedAt:      time.Now().UTC(),
	}
}

// Toggle flips the selection of cell index and re-evaluates the card.
// Returns the evaluation, the new state, or an error if the toggle was rejected.
//
// Validation rules:
//   - Session must not be finished.
//   - index must address a cell of the card.
//   - The free space is never togglable.
func (s *Session) Toggle(index int) (bingo.WinResult, State, error) {
	if s.Finished {
		return bingo.WinResult{IsWin: true, WinningPattern: s.WinningPattern}, s.State(), ErrFinished
	}
	if index < 0 || index >= len(s.Card) {
		return bingo.WinResult{WinningPattern: []int{}}, s.State(), ErrInvalidIndex
	}
	if s.Card[index].IsFreeSpace {
		return bingo.WinResult{WinningPattern: []int{}}, s.State(), ErrFreeSpace
	}

	s.Card[index].Selected = !s.Card[index].Selected
	s.Toggles++

	res := bingo.Evaluate(s.Card, s.Mode)
	if res.IsWin {
		s.Finished = true
		s.WinningPattern = res.WinningPattern
	}
	return res, s.State(), nil
}

// State reports the coarse session state.
func (s *Session) State() State {
	if s.Finished {
		return StateWon
	}
	return StatePlaying
}

// View returns a snapshot safe to hand to an encoder.
func (s *Session) View() View {
	pattern := make([]int, len(s.WinningPattern))
	copy(pattern, s.WinningPattern)
	return View{
		GameID:         s.ID,
		Mode:           s.Mode.Info(),
		Card:           s.Card.Clone(),
		State:          s.State(),
		WinningPattern: pattern,
		Toggles:        s.Toggles,
	}
}

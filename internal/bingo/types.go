// internal/bingo/types.go
//
// Core type definitions for the Bingo card engine.
// Defines:
//   - Cell: one square of the 5x5 grid.
//   - Card: the 25 cells of one game, row-major.
//   - Mode: the closed set of win rules (classic/blackout/corners/rowsAndColumns).
//   - WinResult: the outcome of evaluating a card under a mode.

package bingo

import (
	"errors"
	"fmt"
)

const (
	Size       = 5           // cells per row/column
	TotalCells = Size * Size // cells per card
	CenterCell = TotalCells / 2

	FreeSpaceText = "FREE"
)

// Mode selects the win rule for a card.
type Mode string

const (
	ModeClassic        Mode = "classic"
	ModeBlackout       Mode = "blackout"
	ModeCorners        Mode = "corners"
	ModeRowsAndColumns Mode = "rowsAndColumns"
)

// ModeInfo is the static display data for a mode.
type ModeInfo struct {
	ID          Mode   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var modes = [...]ModeInfo{
	{ModeClassic, "Classic", "Five in a row (horizontal, vertical, or diagonal). Center square is FREE!"},
	{ModeBlackout, "Blackout", "Mark all squares on the card."},
	{ModeCorners, "Corners", "Mark all four corner squares."},
	{ModeRowsAndColumns, "Rows & Columns", "Mark any full row AND any full column."},
}

// ErrUnknownMode is returned by ParseMode for values outside the enumeration.
var ErrUnknownMode = errors.New("unknown game mode")

// Modes returns the mode reference data in display order.
func Modes() []ModeInfo {
	out := make([]ModeInfo, len(modes))
	copy(out, modes[:])
	return out
}

// ParseMode validates s against the four known modes.
func ParseMode(s string) (Mode, error) {
	for _, m := range modes {
		if string(m.ID) == s {
			return m.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Info returns the display data for m. Unknown modes yield a zero ModeInfo.
func (m Mode) Info() ModeInfo {
	for _, mi := range modes {
		if mi.ID == m {
			return mi
		}
	}
	return ModeInfo{}
}

// HasFreeSpace reports whether cards in this mode reserve the center cell.
func (m Mode) HasFreeSpace() bool { return m == ModeClassic }

// RequiredPhrases is the number of phrases a card consumes in this mode.
func (m Mode) RequiredPhrases() int {
	if m.HasFreeSpace() {
		return TotalCells - 1
	}
	return TotalCells
}

// Cell is one Bingo square.
type Cell struct {
	ID          string `json:"id"`   // "square-{index}", stable for the card's lifetime
	Text        string `json:"text"` // display phrase, never empty
	Selected    bool   `json:"selected"`
	IsFreeSpace bool   `json:"isFreeSpace,omitempty"` // classic center only; never togglable
}

// Card is the full grid for one game, indexed row*Size + col.
type Card []Cell

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := make(Card, len(c))
	copy(out, c)
	return out
}

// WinResult is the outcome of Evaluate.
// WinningPattern holds cell indices in first-insertion order and is empty
// (never nil) when IsWin is false.
type WinResult struct {
	IsWin          bool  `json:"isWin"`
	WinningPattern []int `json:"winningPattern"`
}

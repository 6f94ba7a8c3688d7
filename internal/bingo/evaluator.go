// internal/bingo/evaluator.go
//
// Win detection.
// Each mode has its own pure check; Evaluate dispatches with an exhaustive
// switch. Line helpers work on indices so patterns come out directly.
//
// Pattern order:
//   - classic: every complete row (top→bottom), column (left→right), then
//     the main and anti diagonal, deduplicated in first-insertion order.
//   - rowsAndColumns: the first complete row, then the first complete column.

package bingo

// Evaluate reports whether card wins under mode. card is not modified.
func Evaluate(card Card, mode Mode) WinResult {
	if len(card) != TotalCells {
		return noWin()
	}
	var pattern []int
	switch mode {
	case ModeClassic:
		pattern = classicWin(card)
	case ModeBlackout:
		pattern = blackoutWin(card)
	case ModeCorners:
		pattern = cornersWin(card)
	case ModeRowsAndColumns:
		pattern = rowsAndColumnsWin(card)
	}
	if len(pattern) == 0 {
		return noWin()
	}
	return WinResult{IsWin: true, WinningPattern: pattern}
}

func noWin() WinResult { return WinResult{WinningPattern: []int{}} }

func classicWin(card Card) []int {
	var p patternSet
	for i := 0; i < Size; i++ {
		if r := row(i); allSelected(card, r) {
			p.add(r...)
		}
	}
	for j := 0; j < Size; j++ {
		if c := column(j); allSelected(card, c) {
			p.add(c...)
		}
	}
	for _, d := range diagonals() {
		if allSelected(card, d) {
			p.add(d...)
		}
	}
	return p.indices
}

func blackoutWin(card Card) []int {
	all := make([]int, TotalCells)
	for i := range all {
		all[i] = i
	}
	if !allSelected(card, all) {
		return nil
	}
	return all
}

func cornersWin(card Card) []int {
	c := corners()
	if !allSelected(card, c) {
		return nil
	}
	return c
}

func rowsAndColumnsWin(card Card) []int {
	var firstRow, firstCol []int
	for i := 0; i < Size && firstRow == nil; i++ {
		if r := row(i); allSelected(card, r) {
			firstRow = r
		}
	}
	for j := 0; j < Size && firstCol == nil; j++ {
		if c := column(j); allSelected(card, c) {
			firstCol = c
		}
	}
	if firstRow == nil || firstCol == nil {
		return nil
	}
	var p patternSet
	p.add(firstRow...)
	p.add(firstCol...)
	return p.indices
}

// row returns the indices of row i.
func row(i int) []int {
	out := make([]int, Size)
	for k := range out {
		out[k] = i*Size + k
	}
	return out
}

// column returns the indices of column j.
func column(j int) []int {
	out := make([]int, Size)
	for k := range out {
		out[k] = k*Size + j
	}
	return out
}

// diagonals returns the main ({0,6,12,18,24}) and anti ({4,8,12,16,20}) diagonals.
func diagonals() [2][]int {
	main := make([]int, Size)
	anti := make([]int, Size)
	for k := 0; k < Size; k++ {
		main[k] = k*Size + k
		anti[k] = k*Size + (Size - 1 - k)
	}
	return [2][]int{main, anti}
}

func corners() []int {
	return []int{0, Size - 1, TotalCells - Size, TotalCells - 1}
}

// allSelected is true iff every indexed cell is selected. Free cells are
// created selected, so they always count.
func allSelected(card Card, idx []int) bool {
	for _, i := range idx {
		if !card[i].Selected {
			return false
		}
	}
	return true
}

// patternSet is an insertion-ordered set of cell indices.
type patternSet struct {
	seen    [TotalCells]bool
	indices []int
}

func (p *patternSet) add(idx ...int) {
	for _, i := range idx {
		if !p.seen[i] {
			p.seen[i] = true
			p.indices = append(p.indices, i)
		}
	}
}

// internal/bingo/generator.go
//
// Card generation.
// Responsibilities:
//   - Pad short phrase pools from the injected default list.
//   - Shuffle with Fisher–Yates over the injected random source.
//   - Lay out 25 cells row-major, reserving the classic center as FREE.
//
// Generate never fails: a short pool is padded and, if even the defaults run
// out, the remaining cells get synthetic "Phrase N" labels.

package bingo

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
)

// Generator builds cards. It is not safe for concurrent use because the
// underlying random source is not; guard it or use one per goroutine.
type Generator struct {
	defaults []string
	rng      *rand.Rand
}

// NewGenerator returns a Generator that pads from defaults and shuffles
// with src. The defaults slice is copied.
func NewGenerator(defaults []string, src rand.Source) *Generator {
	d := make([]string, len(defaults))
	copy(d, defaults)
	return &Generator{defaults: d, rng: rand.New(src)}
}

// NewRandomSource returns a ChaCha8 source seeded from crypto/rand.
func NewRandomSource() rand.Source {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return rand.NewChaCha8(seed)
}

// Generate builds a fresh card from pool for mode. pool is not modified.
func (g *Generator) Generate(pool []string, mode Mode) Card {
	required := mode.RequiredPhrases()

	phrases := make([]string, len(pool), max(len(pool), required))
	copy(phrases, pool)
	if missing := required - len(phrases); missing > 0 {
		extra := g.shuffled(g.defaults)
		if missing > len(extra) {
			missing = len(extra)
		}
		phrases = append(phrases, extra[:missing]...)
	}
	g.shuffle(phrases)

	card := make(Card, TotalCells)
	for i := range card {
		id := fmt.Sprintf("square-%d", i)
		if mode.HasFreeSpace() && i == CenterCell {
			card[i] = Cell{ID: id, Text: FreeSpaceText, Selected: true, IsFreeSpace: true}
			continue
		}
		text := fmt.Sprintf("Phrase %d", i+1)
		if n := len(phrases); n > 0 {
			text, phrases = phrases[n-1], phrases[:n-1]
		}
		card[i] = Cell{ID: id, Text: text}
	}
	return card
}

// shuffled returns a shuffled copy of in.
func (g *Generator) shuffled(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	g.shuffle(out)
	return out
}

// shuffle is an in-place Fisher–Yates permutation.
func (g *Generator) shuffle(s []string) {
	for i := len(s) - 1; i > 0; i-- {
		j := g.rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

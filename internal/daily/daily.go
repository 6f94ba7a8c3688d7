// internal/daily/daily.go
//
// Deterministic daily card: everyone playing on the same UTC date (and mode)
// gets the same layout. The layout is driven by a ChaCha8 stream keyed with
// HMAC-SHA256(salt, YYYY-MM-DD), so it cannot be predicted without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"math/rand/v2"
	"time"

	"github.com/robalobadob/dingobingo/internal/bingo"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns HMAC-SHA256(salt, DateKey(t)).
func Seed(t time.Time, salt string) [32]byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	var seed [32]byte
	copy(seed[:], h.Sum(nil))
	return seed
}

// Card generates the card for t's date. pool is used both as the phrase pool
// and for padding, so a short pool still yields the same card for everyone.
func Card(t time.Time, salt string, pool []string, mode bingo.Mode) bingo.Card {
	gen := bingo.NewGenerator(pool, rand.NewChaCha8(Seed(t, salt)))
	return gen.Generate(pool, mode)
}

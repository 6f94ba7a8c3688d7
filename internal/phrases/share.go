package phrases

import (
	"errors"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/robalobadob/dingobingo/internal/bingo"
)

// Delimiter joins phrases inside a share link.
const Delimiter = ";;;"

// MinSetupPhrases is the smallest list the setup form accepts.
const MinSetupPhrases = 5

// ErrTooFewPhrases is returned by ParseList for lists under MinSetupPhrases.
var ErrTooFewPhrases = errors.New("please provide at least 5 comma-separated phrases")

// Encode joins a phrase list for embedding in a share link.
func Encode(list []string) string {
	return strings.Join(list, Delimiter)
}

// Decode splits a share-link value back into phrases, trimming each one and
// dropping empties.
func Decode(s string) []string {
	return Normalize(strings.Split(s, Delimiter))
}

// ShareURL builds "{base}/?phrases={encoded}".
func ShareURL(base string, list []string) string {
	return strings.TrimRight(base, "/") + "/?phrases=" + url.QueryEscape(Encode(list))
}

// ShareQR renders link as a PNG QR code of size×size pixels.
func ShareQR(link string, size int) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, size)
}

// ParseList parses comma-separated setup input.
func ParseList(input string) ([]string, error) {
	list := Normalize(strings.Split(input, ","))
	if len(list) < MinSetupPhrases {
		return nil, ErrTooFewPhrases
	}
	return list, nil
}

// Sufficient reports whether n phrases fill a card in mode without padding.
func Sufficient(n int, mode bingo.Mode) bool {
	return n >= mode.RequiredPhrases()
}

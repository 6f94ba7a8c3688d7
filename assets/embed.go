// assets/embed.go
//
// Files compiled into the binary:
//   - default_phrases.txt: the built-in 30-phrase pool.
//   - sql/*.sql: schema migrations, applied in lexical order.

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed default_phrases.txt sql/*.sql
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// DefaultPhrases returns the embedded phrase list in file order.
func DefaultPhrases() ([]string, error) {
	return readLines("default_phrases.txt")
}

// Migrations exposes the sql directory rooted at its own level.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}

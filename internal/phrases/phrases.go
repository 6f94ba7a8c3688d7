// internal/phrases/phrases.go
//
// Phrase pool sourcing.
//
// Responsibilities:
//   - Load the default phrase list from a configured file or fall back to the
//     embedded list in the assets package.
//   - Normalize user-provided lists (trim, drop empties).
//
// File formats (Load):
//   - *.yaml / *.yml: either a bare sequence of strings or a mapping with a
//     "phrases" key.
//   - anything else: one phrase per line; blank lines and "#" comments skipped.
//
// Lists are returned as fresh slices; nothing in this package keeps state.

package phrases

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/dingobingo/assets"
)

// ErrEmpty is returned when a phrase source yields no usable phrases.
var ErrEmpty = errors.New("phrases: list is empty")

// Load returns the default phrase list. An empty path selects the embedded list.
func Load(path string) ([]string, error) {
	var (
		list []string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case path == "":
		list, err = assets.DefaultPhrases()
	case ext == ".yaml" || ext == ".yml":
		list, err = readYAMLFile(path)
	default:
		list, err = readLineFile(path)
	}
	if err != nil {
		return nil, err
	}
	list = Normalize(list)
	if len(list) == 0 {
		return nil, ErrEmpty
	}
	return list, nil
}

// readLineFile loads one phrase per line from a text file.
func readLineFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// readYAMLFile accepts either `- phrase` sequences or `phrases: [...]`.
func readYAMLFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []string
	if err := yaml.Unmarshal(b, &list); err == nil {
		return list, nil
	}
	var doc struct {
		Phrases []string `yaml:"phrases"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Phrases, nil
}

// Normalize trims every phrase and drops the empty ones. Order and
// duplicates are kept.
func Normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Dedupe drops case-insensitive repeats, keeping the first spelling.
func Dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, p := range list {
		k := strings.ToLower(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

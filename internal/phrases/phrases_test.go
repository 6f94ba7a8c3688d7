package phrases

import (
	"bytes"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/robalobadob/dingobingo/internal/bingo"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoad_Embedded(t *testing.T) {
	list, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(list) != 30 {
		t.Fatalf("expected 30 default phrases, got %d", len(list))
	}
	if list[0] != "Sunshine" || list[29] != "Almost There" {
		t.Errorf("unexpected ends: %q .. %q", list[0], list[29])
	}
}

func TestLoad_TextFile(t *testing.T) {
	p := writeFile(t, "office.txt", "# office bingo\nCoffee Spill\n\n  Reply All  \nLate Meeting\n")
	list, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"Coffee Spill", "Reply All", "Late Meeting"}
	if !reflect.DeepEqual(list, want) {
		t.Errorf("got %v, want %v", list, want)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	tests := map[string]string{
		"list.yaml":   "- Beach\n- Sunglasses\n- ' Road Trip '\n",
		"mapping.yml": "phrases:\n  - Beach\n  - Sunglasses\n  - Road Trip\n",
	}
	want := []string{"Beach", "Sunglasses", "Road Trip"}
	for name, body := range tests {
		list, err := Load(writeFile(t, name, body))
		if err != nil {
			t.Fatalf("%s: Load: %v", name, err)
		}
		if !reflect.DeepEqual(list, want) {
			t.Errorf("%s: got %v, want %v", name, list, want)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "blank.txt", "# nothing\n\n")); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := Load(writeFile(t, "bad.yaml", "phrases: [unclosed\n")); err == nil {
		t.Error("expected YAML parse error")
	}
}

func TestNormalizeAndDedupe(t *testing.T) {
	in := []string{" a ", "", "B", "  ", "b", "a"}
	if got := Normalize(in); !reflect.DeepEqual(got, []string{"a", "B", "b", "a"}) {
		t.Errorf("Normalize = %v", got)
	}
	if got := Dedupe(Normalize(in)); !reflect.DeepEqual(got, []string{"a", "B"}) {
		t.Errorf("Dedupe = %v", got)
	}
}

func TestEncodeDecodeShareLink(t *testing.T) {
	list := []string{"Hot Coffee", "Rock & Roll", "50% Off", "a,b"}
	link := ShareURL("http://localhost:5173/", list)

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse %q: %v", link, err)
	}
	if u.Path != "/" {
		t.Errorf("path = %q", u.Path)
	}
	if got := Decode(u.Query().Get("phrases")); !reflect.DeepEqual(got, list) {
		t.Errorf("round trip = %v, want %v", got, list)
	}
}

func TestDecode_TrimsAndDropsEmpty(t *testing.T) {
	got := Decode(" one ;;;;;; two;;;   ;;;three ")
	if want := []string{"one", "two", "three"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := Decode(""); len(got) != 0 {
		t.Errorf("Decode(\"\") = %v", got)
	}
}

func TestShareQR(t *testing.T) {
	png, err := ShareQR("http://localhost:5173/?phrases=a%3B%3B%3Bb", 128)
	if err != nil {
		t.Fatalf("ShareQR: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("expected PNG header, got %q", png[:8])
	}
}

func TestParseList(t *testing.T) {
	list, err := ParseList("Beach, Ice Cream,, Sunglasses , Road Trip, Camping")
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if want := []string{"Beach", "Ice Cream", "Sunglasses", "Road Trip", "Camping"}; !reflect.DeepEqual(list, want) {
		t.Errorf("got %v", list)
	}
	if _, err := ParseList("one, two, , three, four"); !errors.Is(err, ErrTooFewPhrases) {
		t.Errorf("expected ErrTooFewPhrases, got %v", err)
	}
	if _, err := ParseList(strings.Repeat(",", 10)); !errors.Is(err, ErrTooFewPhrases) {
		t.Errorf("expected ErrTooFewPhrases for blank input, got %v", err)
	}
}

func TestSufficient(t *testing.T) {
	if !Sufficient(24, bingo.ModeClassic) || Sufficient(23, bingo.ModeClassic) {
		t.Error("classic threshold should be 24")
	}
	if !Sufficient(25, bingo.ModeCorners) || Sufficient(24, bingo.ModeCorners) {
		t.Error("corners threshold should be 25")
	}
}

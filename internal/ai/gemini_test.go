package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

// fakeGemini serves a generateContent endpoint that answers with text.
func fakeGemini(t *testing.T, status int, text string, seen *generateRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(text))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]string{"text": text}}}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeneratePhrases(t *testing.T) {
	var req generateRequest
	srv := fakeGemini(t, http.StatusOK, `{"phrases":["Sand Castle"," Sunscreen ","sunscreen","","Beach Ball"]}`, &req)
	c := New("k", "test-model").WithBaseURL(srv.URL)

	got, err := c.GeneratePhrases(context.Background(), "Summer Vacation", 0)
	if err != nil {
		t.Fatalf("GeneratePhrases: %v", err)
	}
	if want := []string{"Sand Castle", "Sunscreen", "Beach Ball"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if len(req.Contents) != 1 || !strings.Contains(req.Contents[0].Parts[0].Text, "Summer Vacation") {
		t.Errorf("prompt did not carry the theme: %+v", req.Contents)
	}
	if !strings.Contains(req.Contents[0].Parts[0].Text, "25 distinct") {
		t.Error("default count should be 25")
	}
	if req.GenerationConfig.ResponseMimeType != "application/json" {
		t.Errorf("mime type = %q", req.GenerationConfig.ResponseMimeType)
	}
}

func TestGeneratePhrases_FencedJSON(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, "```json\n{\"phrases\":[\"Owl\"]}\n```", nil)
	got, err := New("k", "test-model").WithBaseURL(srv.URL).GeneratePhrases(context.Background(), "Night", 3)
	if err != nil {
		t.Fatalf("GeneratePhrases: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Owl"}) {
		t.Errorf("got %v", got)
	}
}

func TestGeneratePhrases_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := New("", "").GeneratePhrases(ctx, "x", 5); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := New("k", "").GeneratePhrases(ctx, "   ", 5); !errors.Is(err, ErrEmptyTheme) {
		t.Errorf("expected ErrEmptyTheme, got %v", err)
	}

	srv := fakeGemini(t, http.StatusTooManyRequests, `{"error":"quota"}`, nil)
	_, err := New("k", "test-model").WithBaseURL(srv.URL).GeneratePhrases(ctx, "x", 5)
	if err == nil || !strings.HasPrefix(err.Error(), "AI service error: status 429") {
		t.Errorf("unexpected error: %v", err)
	}

	bad := fakeGemini(t, http.StatusOK, `not json`, nil)
	if _, err := New("k", "test-model").WithBaseURL(bad.URL).GeneratePhrases(ctx, "x", 5); err == nil {
		t.Error("expected error for invalid model JSON")
	}

	empty := fakeGemini(t, http.StatusOK, `{"phrases":[]}`, nil)
	if _, err := New("k", "test-model").WithBaseURL(empty.URL).GeneratePhrases(ctx, "x", 5); err == nil {
		t.Error("expected error for empty phrase list")
	}
}

func TestFilterPhrases(t *testing.T) {
	var req generateRequest
	srv := fakeGemini(t, http.StatusOK,
		`{"relevantPhrases":["Reply All","Coffee Spill"],"inappropriatePhrases":["Tax Fraud"]}`, &req)
	c := New("k", "test-model").WithBaseURL(srv.URL)

	got, err := c.FilterPhrases(context.Background(), "Office Life", []string{"Reply All", " Coffee Spill", "", "Tax Fraud"})
	if err != nil {
		t.Fatalf("FilterPhrases: %v", err)
	}
	if !reflect.DeepEqual(got.Relevant, []string{"Reply All", "Coffee Spill"}) {
		t.Errorf("relevant = %v", got.Relevant)
	}
	if !reflect.DeepEqual(got.Inappropriate, []string{"Tax Fraud"}) {
		t.Errorf("inappropriate = %v", got.Inappropriate)
	}
	if !strings.Contains(req.Contents[0].Parts[0].Text, `"Coffee Spill"`) {
		t.Error("prompt should list the normalized phrases")
	}
}

func TestFilterPhrases_Validation(t *testing.T) {
	c := New("k", "")
	if _, err := c.FilterPhrases(context.Background(), "", []string{"a"}); !errors.Is(err, ErrEmptyTheme) {
		t.Errorf("expected ErrEmptyTheme, got %v", err)
	}
	if _, err := c.FilterPhrases(context.Background(), "t", []string{" ", ""}); !errors.Is(err, ErrNoPhrases) {
		t.Errorf("expected ErrNoPhrases, got %v", err)
	}
}

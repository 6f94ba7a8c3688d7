// internal/ai/gemini.go
//
// Phrase generation and filtering backed by the Gemini generateContent API.
//
// The rest of the server treats this package as a black box: a theme (and
// optionally a phrase list) goes in, strings come out. Model output is
// requested as JSON and decoded into small response structs.
//
// Environment (via config): GEMINI_API_KEY, GEMINI_MODEL.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/robalobadob/dingobingo/internal/phrases"
)

const (
	DefaultModel   = "gemini-1.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultCount   = 25
	MaxCount       = 100
)

var (
	ErrNotConfigured = errors.New("AI service is not configured")
	ErrEmptyTheme    = errors.New("theme is required")
	ErrNoPhrases     = errors.New("no phrases to filter")
)

// Filtered is the outcome of FilterPhrases.
type Filtered struct {
	Relevant      []string `json:"relevantPhrases"`
	Inappropriate []string `json:"inappropriatePhrases"`
}

// Client calls the Gemini REST API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// New returns a Client. An empty model selects DefaultModel.
func New(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

// WithBaseURL points the client at another endpoint (tests, proxies).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

// GeneratePhrases asks the model for count short, all-ages phrases on theme.
// count <= 0 selects DefaultCount; larger values are capped at MaxCount.
func (c *Client) GeneratePhrases(ctx context.Context, theme string, count int) ([]string, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, ErrEmptyTheme
	}
	if count <= 0 {
		count = DefaultCount
	}
	if count > MaxCount {
		count = MaxCount
	}

	var out struct {
		Phrases []string `json:"phrases"`
	}
	if err := c.generateJSON(ctx, generatePrompt(theme, count), 0.7, &out); err != nil {
		return nil, err
	}
	list := phrases.Dedupe(phrases.Normalize(out.Phrases))
	if len(list) == 0 {
		return nil, fmt.Errorf("AI service error: model returned no phrases")
	}
	return list, nil
}

// FilterPhrases splits list into phrases relevant to theme and the rest.
func (c *Client) FilterPhrases(ctx context.Context, theme string, list []string) (Filtered, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return Filtered{}, ErrEmptyTheme
	}
	list = phrases.Normalize(list)
	if len(list) == 0 {
		return Filtered{}, ErrNoPhrases
	}

	var out Filtered
	if err := c.generateJSON(ctx, filterPrompt(theme, list), 0.2, &out); err != nil {
		return Filtered{}, err
	}
	out.Relevant = phrases.Normalize(out.Relevant)
	out.Inappropriate = phrases.Normalize(out.Inappropriate)
	return out, nil
}

func generatePrompt(theme string, count int) string {
	return fmt.Sprintf(`You write squares for a Bingo card.
Theme: %s
Produce %d distinct phrases. Every phrase must fit the theme, be 2 to 4 words long,
and be suitable for all ages. Avoid near-duplicates.
Respond with JSON only: {"phrases": ["...", "..."]}`, theme, count)
}

func filterPrompt(theme string, list []string) string {
	quoted, _ := json.Marshal(list)
	return fmt.Sprintf(`You review squares for a Bingo card.
Theme: %s
Phrases: %s
Keep a phrase only if it clearly fits the theme and is suitable for all ages.
Anything off-theme, offensive or harmful goes in the second list.
Respond with JSON only: {"relevantPhrases": [...], "inappropriatePhrases": [...]}`, theme, quoted)
}

// ------------------------------ transport ----------------------------------

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content `json:"contents"`
	GenerationConfig struct {
		Temperature      float64 `json:"temperature"`
		ResponseMimeType string  `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generateJSON sends prompt and decodes the model's JSON answer into out.
func (c *Client) generateJSON(ctx context.Context, prompt string, temperature float64, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var reqBody generateRequest
	reqBody.Contents = []content{{Parts: []part{{Text: prompt}}}}
	reqBody.GenerationConfig.Temperature = temperature
	reqBody.GenerationConfig.ResponseMimeType = "application/json"
	data, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("AI service error: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AI service error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("AI service error: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("AI service error: model responded without text")
	}
	text := stripFence(parsed.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("AI service error: invalid JSON from model: %w", err)
	}
	return nil
}

// stripFence removes a ```json ... ``` wrapper some models add anyway.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

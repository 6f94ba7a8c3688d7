package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/dingobingo/internal/ai"
	"github.com/robalobadob/dingobingo/internal/phrases"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

// mountPhrases registers /phrases/* (defaults, setup parsing, sharing, saved
// lists and AI suggestions).
func (s *Server) mountPhrases(r chi.Router) {
	r.Get("/phrases/default", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"phrases": s.defaults, "count": len(s.defaults)})
	})
	r.Post("/phrases/parse", s.handleParsePhrases)
	r.Get("/phrases/share/qr", s.handleShareQR)

	r.With(s.requireAuth()).Get("/phrases/mine", s.handleGetMyPhrases)
	r.With(s.requireAuth()).Put("/phrases/mine", s.handlePutMyPhrases)

	r.Post("/phrases/generate", s.handleGeneratePhrases)
	r.Post("/phrases/filter", s.handleFilterPhrases)
}

type phraseListRes struct {
	Phrases  []string `json:"phrases"`
	ShareURL string   `json:"shareUrl"`
}

func (s *Server) listRes(list []string) phraseListRes {
	return phraseListRes{Phrases: list, ShareURL: phrases.ShareURL(s.cfg.PublicURL, list)}
}

// handleParsePhrases parses the comma-separated setup form input.
func (s *Server) handleParsePhrases(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	list, err := phrases.ParseList(body.Input)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "too_few_phrases")
		return
	}
	writeJSON(w, http.StatusOK, s.listRes(list))
}

// handleShareQR renders the share link of ?phrases= as a PNG QR code.
func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	list := phrases.Decode(r.URL.Query().Get("phrases"))
	if len(list) == 0 {
		writeErr(w, http.StatusBadRequest, "no_phrases")
		return
	}
	size := defaultQRSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > maxQRSize {
			writeErr(w, http.StatusBadRequest, "invalid_size")
			return
		}
		size = n
	}
	png, err := phrases.ShareQR(phrases.ShareURL(s.cfg.PublicURL, list), size)
	if err != nil {
		log.Error().Err(err).Msg("render qr")
		writeErr(w, http.StatusInternalServerError, "qr_failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}

// handleGetMyPhrases returns the signed-in user's saved list (possibly empty).
func (s *Server) handleGetMyPhrases(w http.ResponseWriter, r *http.Request) {
	list, err := s.loadUserPhrases(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		log.Error().Err(err).Msg("load phrases")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, s.listRes(list))
}

// handlePutMyPhrases replaces the saved list. Same minimum as the setup form.
func (s *Server) handlePutMyPhrases(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phrases []string `json:"phrases"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	list := phrases.Normalize(body.Phrases)
	if len(list) < phrases.MinSetupPhrases {
		writeErr(w, http.StatusBadRequest, "too_few_phrases")
		return
	}
	if err := s.saveUserPhrases(r.Context(), userFrom(r.Context()).ID, list); err != nil {
		log.Error().Err(err).Msg("save phrases")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, s.listRes(list))
}

// loadUserPhrases returns the saved list or an empty slice when none exists.
func (s *Server) loadUserPhrases(ctx context.Context, userID string) ([]string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT phrases FROM user_phrases WHERE user_id=?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Server) saveUserPhrases(ctx context.Context, userID string, list []string) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_phrases (user_id, phrases, updated_at) VALUES (?,?,?)
		 ON CONFLICT(user_id) DO UPDATE SET phrases=excluded.phrases, updated_at=excluded.updated_at`,
		userID, string(raw), time.Now().UTC().Format(time.RFC3339))
	return err
}

// aiError maps collaborator errors to HTTP status and error code.
func aiError(err error) (int, string) {
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return http.StatusServiceUnavailable, "ai_unavailable"
	case errors.Is(err, ai.ErrEmptyTheme):
		return http.StatusBadRequest, "theme_required"
	case errors.Is(err, ai.ErrNoPhrases):
		return http.StatusBadRequest, "no_phrases"
	default:
		return http.StatusBadGateway, "ai_failed"
	}
}

func (s *Server) handleGeneratePhrases(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
		Count int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	if s.ai == nil {
		writeErr(w, http.StatusServiceUnavailable, "ai_unavailable")
		return
	}
	list, err := s.ai.GeneratePhrases(r.Context(), body.Theme, body.Count)
	if err != nil {
		status, code := aiError(err)
		if status == http.StatusBadGateway {
			log.Warn().Err(err).Str("theme", body.Theme).Msg("generate phrases")
		}
		writeErr(w, status, code)
		return
	}
	writeJSON(w, http.StatusOK, s.listRes(list))
}

func (s *Server) handleFilterPhrases(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme   string   `json:"theme"`
		Phrases []string `json:"phrases"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	if s.ai == nil {
		writeErr(w, http.StatusServiceUnavailable, "ai_unavailable")
		return
	}
	out, err := s.ai.FilterPhrases(r.Context(), body.Theme, body.Phrases)
	if err != nil {
		status, code := aiError(err)
		if status == http.StatusBadGateway {
			log.Warn().Err(err).Str("theme", body.Theme).Msg("filter phrases")
		}
		writeErr(w, status, code)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

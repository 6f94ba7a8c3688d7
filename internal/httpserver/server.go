// internal/httpserver/server.go
//
// HTTP server wiring for the Bingo backend.
// Responsibilities:
//   - Router + middleware (CORS, timeouts, panic recovery, request IDs, JSON).
//   - Public endpoints: "/", "/health", "/modes".
//   - Game endpoints (optional auth): POST /game/new, POST /game/toggle,
//     GET /game/{id}, GET /game/ws.
//   - Phrase endpoints: defaults, setup parsing, share QR, saved list, AI.
//   - Daily card endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Cards live in the in-memory store; the games table only records
//     ownership, toggle counts and outcomes for history/stats.
//   - Optional auth decorates requests with user context when a valid token is
//     present; routes still run for guests (anonymous cookie).

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/dingobingo/internal/ai"
	"github.com/robalobadob/dingobingo/internal/bingo"
	"github.com/robalobadob/dingobingo/internal/config"
	"github.com/robalobadob/dingobingo/internal/game"
	"github.com/robalobadob/dingobingo/internal/phrases"
	"github.com/robalobadob/dingobingo/internal/store"
)

// PhraseAI is the external phrase generator/filter.
type PhraseAI interface {
	GeneratePhrases(ctx context.Context, theme string, count int) ([]string, error)
	FilterPhrases(ctx context.Context, theme string, list []string) (ai.Filtered, error)
}

// Options carries the server's configuration and collaborators.
type Options struct {
	Config  config.Config
	Phrases []string    // default pool; also pads short pools
	AI      PhraseAI    // nil disables /phrases/generate and /phrases/filter
	Random  rand.Source // card shuffling; nil seeds from crypto/rand
}

// Server bundles router, in-memory session store, and DB handle.
type Server struct {
	r        *chi.Mux
	store    store.Store
	db       *sql.DB
	cfg      config.Config
	defaults []string
	ai       PhraseAI

	genMu sync.Mutex // guards gen
	gen   *bingo.Generator

	playMu sync.Mutex // serializes toggles and snapshots of sessions
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, opts Options) *Server {
	src := opts.Random
	if src == nil {
		src = bingo.NewRandomSource()
	}
	s := &Server{
		r:        chi.NewRouter(),
		store:    st,
		db:       db,
		cfg:      opts.Config,
		defaults: opts.Phrases,
		ai:       opts.AI,
		gen:      bingo.NewGenerator(opts.Phrases, src),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.r.Use(s.withOptionalAuth())

	// The socket outlives any request timeout, so it sits outside the group.
	s.r.Get("/game/ws", s.handleGameSocket)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"bingo-go","endpoints":["/health","/modes","POST /game/new","POST /game/toggle","/phrases/*","/daily/*","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/modes", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, bingo.Modes())
		})

		// Game endpoints (guests can play)
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/toggle", s.handleToggle)
		r.Get("/game/{id}", s.handleGetGame)

		s.mountPhrases(r)
		s.mountDaily(r)
		s.mountAuthRoutes(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// newCard generates a card under genMu; the generator is not goroutine-safe.
func (s *Server) newCard(pool []string, mode bingo.Mode) *game.Session {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return game.New(s.gen, pool, mode)
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode    string   `json:"mode"`
	Phrases []string `json:"phrases"` // explicit pool
	Shared  string   `json:"shared"`  // raw ?phrases= value from a share link

	// Replaces names the card being restarted; it is dropped from the store.
	Replaces string `json:"replaces"`
}

type newGameRes struct {
	game.View
	PhraseSource      string `json:"phraseSource"` // shared | request | saved | default
	SufficientPhrases bool   `json:"sufficientPhrases"`
}

// resolvePool picks the phrase pool for a new card. Precedence: share link,
// explicit list, the signed-in user's saved list, the defaults.
func (s *Server) resolvePool(ctx context.Context, req newGameReq) ([]string, string) {
	if list := phrases.Decode(req.Shared); len(list) > 0 {
		return list, "shared"
	}
	if list := phrases.Normalize(req.Phrases); len(list) > 0 {
		return list, "request"
	}
	if me := userFrom(ctx); me != nil {
		list, err := s.loadUserPhrases(ctx, me.ID)
		if err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("load saved phrases")
		} else if len(list) > 0 {
			return list, "saved"
		}
	}
	return s.defaults, "default"
}

// handleNewGame generates a card, stores the session, and records an owner
// row (user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	mode, err := bingo.ParseMode(req.Mode)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_mode")
		return
	}

	pool, source := s.resolvePool(r.Context(), req)
	sess := s.newCard(pool, mode)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save game")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if req.Replaces != "" {
		_ = s.store.Delete(r.Context(), req.Replaces)
	}
	s.recordNewGame(w, r, sess)

	writeJSON(w, http.StatusOK, newGameRes{
		View:              sess.View(),
		PhraseSource:      source,
		SufficientPhrases: phrases.Sufficient(len(pool), mode),
	})
}

// recordNewGame inserts the games row and bumps games_played (best effort).
func (s *Server) recordNewGame(w http.ResponseWriter, r *http.Request, sess *game.Session) {
	now := sess.StartedAt.Format(time.RFC3339)
	if me := userFrom(r.Context()); me != nil {
		if _, err := s.db.Exec(`INSERT INTO games (id, user_id, mode, started_at) VALUES (?,?,?,?)`,
			sess.ID, me.ID, string(sess.Mode), now); err != nil {
			log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert user game row")
			return
		}
		if _, err := s.db.Exec(`UPDATE users SET games_played = games_played + 1 WHERE id=?`, me.ID); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump games played")
		}
		return
	}
	anon := s.ensureAnonID(w, r)
	if _, err := s.db.Exec(`INSERT INTO games (id, anonymous_id, mode, started_at) VALUES (?,?,?,?)`,
		sess.ID, anon, string(sess.Mode), now); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert anon game row")
	}
}

// toggleReq/Res payloads for POST /game/toggle (and the socket).
type toggleReq struct {
	GameID string `json:"gameId"`
	Index  int    `json:"index"`
}

type toggleRes struct {
	Cell           bingo.Cell `json:"cell"`
	Index          int        `json:"index"`
	IsWin          bool       `json:"isWin"`
	WinningPattern []int      `json:"winningPattern"`
	State          game.State `json:"state"`
	Toggles        int        `json:"toggles"`
}

// toggleError maps session errors to HTTP status and error code.
func toggleError(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrFinished):
		return http.StatusConflict, "game_finished"
	case errors.Is(err, game.ErrInvalidIndex):
		return http.StatusBadRequest, "invalid_index"
	case errors.Is(err, game.ErrFreeSpace):
		return http.StatusBadRequest, "free_space"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "toggle_failed"
	}
}

// applyToggle toggles a cell of a stored session and persists the outcome.
func (s *Server) applyToggle(ctx context.Context, gameID string, index int) (toggleRes, error) {
	sess, err := s.store.Get(ctx, gameID)
	if err != nil {
		return toggleRes{}, err
	}

	s.playMu.Lock()
	res, state, err := sess.Toggle(index)
	out := toggleRes{
		Index:          index,
		IsWin:          res.IsWin,
		WinningPattern: res.WinningPattern,
		State:          state,
		Toggles:        sess.Toggles,
	}
	if index >= 0 && index < len(sess.Card) {
		out.Cell = sess.Card[index]
	}
	s.playMu.Unlock()
	if err != nil {
		return out, err
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return out, err
	}
	s.recordToggle(gameID, res.IsWin)
	return out, nil
}

// recordToggle updates counters/history in one transaction (best effort).
func (s *Server) recordToggle(gameID string, won bool) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin toggle tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET toggles = toggles + 1 WHERE id=?`, gameID); err != nil {
		log.Warn().Err(err).Msg("update toggles")
	}
	if won {
		if _, err := tx.Exec(`UPDATE games SET status='won', finished_at=? WHERE id=?`,
			time.Now().UTC().Format(time.RFC3339), gameID); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		var userID sql.NullString
		if err := tx.QueryRow(`SELECT user_id FROM games WHERE id=?`, gameID).Scan(&userID); err == nil && userID.Valid {
			if _, err := tx.Exec(`UPDATE users SET wins = wins + 1 WHERE id=?`, userID.String); err != nil {
				log.Warn().Err(err).Str("user", userID.String).Msg("bump wins")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit toggle tx")
	}
}

// handleToggle applies a toggle to an in-memory session.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	out, err := s.applyToggle(r.Context(), req.GameID, req.Index)
	if err != nil {
		status, code := toggleError(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Str("gameId", req.GameID).Msg("toggle")
		}
		writeErr(w, status, code)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetGame returns the current view of a session.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	s.playMu.Lock()
	v := sess.View()
	s.playMu.Unlock()
	writeJSON(w, http.StatusOK, v)
}

// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Card" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily card (creates or reuses session)
//   - POST /daily/toggle      → toggle a cell of today's daily card
//   - GET  /daily/leaderboard → fetch top results for today (or a given date)
//
// Each player gets one daily result per day (enforced by DB + in-memory session).
// The card is the default phrase list shuffled by a date + salt seed, so every
// player sees the same card for a given day and mode.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/dingobingo/internal/bingo"
	"github.com/robalobadob/dingobingo/internal/daily"
	"github.com/robalobadob/dingobingo/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions and their cards
}

// dailySession is an in-progress daily card.
type dailySession struct {
	*game.Session
	UserID string
	Date   string
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/toggle", dd.handleToggle)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// playerID returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r.Context()); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewReq struct {
	Mode string `json:"mode"` // empty selects classic
}

// dailyNewRes is returned by /daily/new. Game is nil once today is played.
type dailyNewRes struct {
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Game   *game.View `json:"game,omitempty"`
}

// handleNew creates or reuses today's daily session.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session (the first mode chosen
//     today sticks).
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	var req dailyNewReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	mode := bingo.ModeClassic
	if req.Mode != "" {
		m, err := bingo.ParseMode(req.Mode)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid_mode")
			return
		}
		mode = m
	}

	uid := d.playerID(w, r)
	now := d.now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	sess, ok := d.sessions[key]
	if !ok {
		card := daily.Card(now, d.salt, d.srv.defaults, mode)
		sess = &dailySession{Session: game.FromCard(card, mode), UserID: uid, Date: date}
		d.sessions[key] = sess
	}
	v := sess.View()
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &v})
}

// -----------------------------------------------------------------------------
// /daily/toggle

// dailyToggleRes is the response payload for /daily/toggle.
type dailyToggleRes struct {
	toggleRes
	State string `json:"state"` // playing | won | locked
}

// handleToggle applies a toggle to today's daily card and records the result
// on a win.
func (d *dailyServer) handleToggle(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var p toggleReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	date := daily.DateKey(d.now())

	d.mu.Lock()
	sess, ok := d.sessions[uid+"|"+date]
	if !ok || sess.ID != p.GameID {
		d.mu.Unlock()
		writeErr(w, http.StatusConflict, "no_session")
		return
	}
	res, state, err := sess.Toggle(p.Index)
	out := dailyToggleRes{toggleRes: toggleRes{
		Index:          p.Index,
		IsWin:          res.IsWin,
		WinningPattern: res.WinningPattern,
		Toggles:        sess.Toggles,
	}, State: string(state)}
	if err == nil {
		out.Cell = sess.Card[p.Index]
	}
	elapsed := d.now().Sub(sess.StartedAt)
	d.mu.Unlock()

	switch {
	case errors.Is(err, game.ErrFinished):
		out.State = "locked"
		writeJSON(w, http.StatusOK, out)
		return
	case err != nil:
		status, code := toggleError(err)
		writeErr(w, status, code)
		return
	}

	if res.IsWin {
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:    uid,
			Date:      date,
			Mode:      string(sess.Mode),
			Toggles:   out.Toggles,
			ElapsedMs: int(elapsed.Milliseconds()),
		}); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, daily.DefaultLeaderboardLimit)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

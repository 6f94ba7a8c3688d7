package httpserver

import (
	"net/http"
	"testing"

	"github.com/robalobadob/dingobingo/internal/bingo"
)

func TestDaily_PlayOncePerDay(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/daily/new", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("daily/new: %d %s", w.Code, w.Body.String())
	}
	anon := cookieNamed(t, w, anonCookieName)
	first := decode[dailyNewRes](t, w)
	if first.Played || first.Game == nil || first.Game.Mode.ID != bingo.ModeClassic {
		t.Fatalf("unexpected daily/new: %s", w.Body.String())
	}

	// A second call reuses the session, whatever mode is asked for.
	w = do(t, s, http.MethodPost, "/daily/new", map[string]string{"mode": "blackout"}, anon)
	again := decode[dailyNewRes](t, w)
	if again.Game == nil || again.Game.GameID != first.Game.GameID {
		t.Fatalf("expected the same daily session, got %s", w.Body.String())
	}

	// Another player gets the same card.
	w = do(t, s, http.MethodPost, "/daily/new", nil)
	other := decode[dailyNewRes](t, w)
	for i := range first.Game.Card {
		if other.Game.Card[i].Text != first.Game.Card[i].Text {
			t.Fatalf("daily cards differ at %d: %q vs %q", i, first.Game.Card[i].Text, other.Game.Card[i].Text)
		}
	}

	id := first.Game.GameID
	if w := do(t, s, http.MethodPost, "/daily/toggle", toggleReq{GameID: "wrong", Index: 0}, anon); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for foreign game id, got %d", w.Code)
	}
	if w := do(t, s, http.MethodPost, "/daily/toggle", toggleReq{GameID: id, Index: bingo.CenterCell}, anon); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for free space, got %d", w.Code)
	}

	var last dailyToggleRes
	for i := 0; i < bingo.Size; i++ {
		w := do(t, s, http.MethodPost, "/daily/toggle", toggleReq{GameID: id, Index: i}, anon)
		last = decode[dailyToggleRes](t, w)
	}
	if !last.IsWin || last.State != "won" || len(last.WinningPattern) != bingo.Size {
		t.Fatalf("expected top row win, got %+v", last)
	}

	w = do(t, s, http.MethodPost, "/daily/toggle", toggleReq{GameID: id, Index: 5}, anon)
	if locked := decode[dailyToggleRes](t, w); locked.State != "locked" {
		t.Errorf("expected locked state after win, got %q", locked.State)
	}

	w = do(t, s, http.MethodPost, "/daily/new", nil, anon)
	if res := decode[dailyNewRes](t, w); !res.Played || res.Game != nil {
		t.Errorf("expected played=true after win, got %s", w.Body.String())
	}

	w = do(t, s, http.MethodGet, "/daily/leaderboard", nil)
	lb := decode[lbRes](t, w)
	if len(lb.Top) != 1 || lb.Top[0].UserID != anon.Value || lb.Top[0].Toggles != bingo.Size {
		t.Errorf("unexpected leaderboard: %+v", lb)
	}
}

func TestDaily_InvalidMode(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, "/daily/new", map[string]string{"mode": "zigzag"})
	if w.Code != http.StatusBadRequest || errCode(t, w) != "invalid_mode" {
		t.Errorf("expected invalid_mode, got %d %s", w.Code, w.Body.String())
	}
}

package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
	wsWriteWait  = 10 * time.Second
	wsReadLimit  = 512
)

// wsMessage is every frame the server sends on /game/ws.
type wsMessage struct {
	Type    string `json:"type"` // state | toggle | error
	Payload any    `json:"payload"`
}

// wsToggle is the only frame a client sends.
type wsToggle struct {
	Index int `json:"index"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.cfg.ClientOrigin
		},
	}
}

// handleGameSocket streams toggles for one card: the client sends {index},
// the server answers with the toggle result or an error frame.
func (s *Server) handleGameSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	sess, err := s.store.Get(r.Context(), gameID)
	if err != nil {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			}
		}
	}()

	s.playMu.Lock()
	initial := wsMessage{Type: "state", Payload: sess.View()}
	s.playMu.Unlock()
	if err := writeFrame(conn, initial); err != nil {
		return
	}

	for {
		var in wsToggle
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("gameId", gameID).Msg("websocket closed")
			}
			return
		}
		msg := wsMessage{Type: "toggle"}
		out, err := s.applyToggle(r.Context(), gameID, in.Index)
		if err != nil {
			_, code := toggleError(err)
			msg = wsMessage{Type: "error", Payload: map[string]string{"error": code}}
		} else {
			msg.Payload = out
		}
		if err := writeFrame(conn, msg); err != nil {
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, msg wsMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}

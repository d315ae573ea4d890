package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
)

const maxSocketMessage = 4096

var errUnknownAction = errors.New("unknown action")

// socketMessage is the JSON envelope exchanged over /ws in both directions.
type socketMessage struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type movePayload struct {
	Cell int `json:"cell"`
}

type jumpPayload struct {
	Step int `json:"step"`
}

type replyPayload struct {
	View  *app.View `json:"view,omitempty"`
	Error string    `json:"error,omitempty"`
}

// socket serves the JSON action channel used by client-rendered front ends.
type socket struct {
	svc      *app.Service
	log      *zap.Logger
	cookie   string
	upgrader websocket.Upgrader
}

func (s *socket) serve(w http.ResponseWriter, r *http.Request) {
	var hdr http.Header
	id, ok := sessionFromCookie(r, s.cookie)
	if !ok {
		c := newSessionCookie(s.cookie)
		id = c.Value
		hdr = http.Header{"Set-Cookie": {c.String()}}
	}

	conn, err := s.upgrader.Upgrade(w, r, hdr)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		s.log.Debug("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxSocketMessage)

	log := s.log.With(zap.String("session", id))
	log.Debug("connection established")
	s.svc.Open(id)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed", zap.Error(err))
			}
			return
		}

		out := s.handle(id, data)
		if err := conn.WriteJSON(out); err != nil {
			log.Warn("write reply", zap.Error(err))
			return
		}
	}
}

// handle decodes one message and applies it to the session's game.
func (s *socket) handle(id string, data []byte) socketMessage {
	var msg socketMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return reply("error", nil, fmt.Errorf("malformed message: %w", err))
	}

	var (
		v   app.View
		err error
	)
	switch msg.Action {
	case "state":
		v = s.svc.Open(id)
	case "move":
		var p movePayload
		if err = decodePayload(msg.Payload, &p); err == nil {
			v, err = s.svc.ApplyMove(id, p.Cell)
		}
	case "jump":
		var p jumpPayload
		if err = decodePayload(msg.Payload, &p); err == nil {
			v, err = s.svc.JumpTo(id, p.Step)
		}
	case "restart":
		v, err = s.svc.Restart(id)
	default:
		return reply(msg.Action, nil, fmt.Errorf("%w %q", errUnknownAction, msg.Action))
	}
	if v.ID == "" {
		return reply(msg.Action, nil, err)
	}
	return reply(msg.Action, &v, err)
}

func decodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return errors.New("missing payload")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return nil
}

func reply(action string, v *app.View, err error) socketMessage {
	p := replyPayload{View: v}
	if err != nil {
		p.Error = err.Error()
	}
	raw, _ := json.Marshal(p)
	return socketMessage{Action: action, Payload: raw}
}

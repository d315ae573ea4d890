package app

import "github.com/jaminalder/tictactoe-timetravel/internal/domain"

// View is a read-only snapshot of a session's game, rebuilt after every
// mutation. Nothing in it is fed back into the game.
type View struct {
	ID         string        `json:"id"`
	Board      domain.Board  `json:"board"`
	Step       int           `json:"step"`
	Status     domain.Status `json:"status"`
	StatusText string        `json:"status_text"`
	Moves      []MoveItem    `json:"moves"`
}

// MoveItem is one entry of the history navigator.
type MoveItem struct {
	Step    int    `json:"step"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

func buildView(sess *Session) View {
	g := &sess.Game
	st := g.Status()
	v := View{
		ID:         sess.ID,
		Board:      g.Board(),
		Step:       g.Step(),
		Status:     st,
		StatusText: st.String(),
	}
	labels := g.Labels()
	v.Moves = make([]MoveItem, len(labels))
	for i, label := range labels {
		v.Moves[i] = MoveItem{Step: i, Label: label, Current: i == v.Step}
	}
	return v
}

package domain

import "encoding/json"

// Outcome classifies a board.
type Outcome int

const (
	InProgress Outcome = iota
	Won
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Status is derived from a board on every read and never stored.
// Winner and Line are set when Outcome is Won; Next when InProgress.
type Status struct {
	Outcome Outcome
	Winner  Cell
	Line    Line
	Next    Cell
}

// String renders the status line shown above the history.
func (s Status) String() string {
	switch s.Outcome {
	case Won:
		return "Winner: " + s.Winner.String()
	case Draw:
		return "Draw"
	default:
		return "Next player: " + s.Next.String()
	}
}

// Winning reports whether cell i belongs to the winning line.
func (s Status) Winning(i int) bool {
	return s.Outcome == Won && s.Line.Contains(i)
}

func (s Status) MarshalJSON() ([]byte, error) {
	out := struct {
		Outcome string `json:"outcome"`
		Text    string `json:"text"`
		Winner  Cell   `json:"winner,omitempty"`
		Line    []int  `json:"line,omitempty"`
		Next    Cell   `json:"next,omitempty"`
	}{Outcome: s.Outcome.String(), Text: s.String(), Winner: s.Winner, Next: s.Next}
	if s.Outcome == Won {
		out.Line = s.Line[:]
	}
	return json.Marshal(out)
}

package domain

import (
	"errors"
	"fmt"
)

// ErrStepOutOfRange is returned when a step does not index an existing history entry.
var ErrStepOutOfRange = errors.New("step out of range")

// Move is the 1-based (row, col) of a placement.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func moveFor(idx int) Move {
	return Move{Row: idx/3 + 1, Col: idx%3 + 1}
}

// HistoryEntry is a board snapshot and the move that produced it.
// Move is nil for the initial empty board.
type HistoryEntry struct {
	Board Board
	Move  *Move
}

// Game holds the move history of a Tic-Tac-Toe match and the step being viewed.
type Game struct {
	history []HistoryEntry
	step    int
}

// New returns a game with a single empty board and X to move.
func New() Game {
	return Game{history: []HistoryEntry{{}}}
}

// ApplyMove places the next player's symbol at idx (0..8) on the board at the
// current step. Entries after the current step are discarded first. The move
// is ignored, and false returned, if the current board already has a winner,
// the cell is occupied or idx is off the board.
func (g *Game) ApplyMove(idx int) bool {
	if idx < 0 || idx >= len(Board{}) {
		return false
	}
	g.init()
	board := g.history[g.step].Board
	if CalculateWinner(board) != Empty || board[idx] != Empty {
		return false
	}

	board[idx] = g.NextPlayer()
	mv := moveFor(idx)

	// Truncate the future, then append. The three-index slice forces a fresh
	// backing array so snapshots handed out by History are never overwritten.
	g.history = append(g.history[:g.step+1:g.step+1], HistoryEntry{Board: board, Move: &mv})
	g.step = len(g.history) - 1
	return true
}

// JumpTo moves the current step to an existing history entry.
func (g *Game) JumpTo(step int) error {
	g.init()
	if step < 0 || step >= len(g.history) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrStepOutOfRange, step, len(g.history))
	}
	g.step = step
	return nil
}

// Restart discards every move.
func (g *Game) Restart() {
	*g = New()
}

// Step returns the index of the history entry being viewed.
func (g *Game) Step() int { return g.step }

// Len returns the number of history entries, including the empty start.
func (g *Game) Len() int {
	if len(g.history) == 0 {
		return 1
	}
	return len(g.history)
}

// NextPlayer is X on even steps and O on odd ones.
func (g *Game) NextPlayer() Cell {
	if g.step%2 == 0 {
		return X
	}
	return O
}

// Board returns the board at the current step.
func (g *Game) Board() Board {
	if len(g.history) == 0 {
		return Board{}
	}
	return g.history[g.step].Board
}

// BoardAt returns the snapshot stored at step.
func (g *Game) BoardAt(step int) (Board, error) {
	e, err := g.entry(step)
	if err != nil {
		return Board{}, err
	}
	return e.Board, nil
}

// MoveLabel describes a history entry for the navigator.
func (g *Game) MoveLabel(step int) (string, error) {
	e, err := g.entry(step)
	if err != nil {
		return "", err
	}
	return label(step, e), nil
}

// Labels returns the navigator label of every stored step, in order.
func (g *Game) Labels() []string {
	h := g.History()
	out := make([]string, len(h))
	for i, e := range h {
		out[i] = label(i, e)
	}
	return out
}

func label(step int, e HistoryEntry) string {
	if e.Move == nil {
		return "Go to game start"
	}
	return fmt.Sprintf("Go to move -> %d (%d, %d)", step, e.Move.Row, e.Move.Col)
}

// History returns a copy of the stored entries.
func (g *Game) History() []HistoryEntry {
	if len(g.history) == 0 {
		return []HistoryEntry{{}}
	}
	out := make([]HistoryEntry, len(g.history))
	copy(out, g.history)
	return out
}

// Status derives the game status from the board at the current step.
func (g *Game) Status() Status {
	board := g.Board()
	if w, ln, ok := WinningLine(board); ok {
		return Status{Outcome: Won, Winner: w, Line: ln}
	}
	if board.Full() {
		return Status{Outcome: Draw}
	}
	return Status{Outcome: InProgress, Next: g.NextPlayer()}
}

func (g *Game) entry(step int) (HistoryEntry, error) {
	h := g.History()
	if step < 0 || step >= len(h) {
		return HistoryEntry{}, fmt.Errorf("%w: %d not in [0, %d)", ErrStepOutOfRange, step, len(h))
	}
	return h[step], nil
}

// init lets the zero Game behave like New().
func (g *Game) init() {
	if len(g.history) == 0 {
		g.history = []HistoryEntry{{}}
		g.step = 0
	}
}

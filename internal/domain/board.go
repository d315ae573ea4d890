package domain

import "fmt"

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// MarshalText encodes a cell as "X", "O" or "" so boards serialise as symbol arrays.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(b []byte) error {
	switch string(b) {
	case "X":
		*c = X
	case "O":
		*c = O
	case "":
		*c = Empty
	default:
		return fmt.Errorf("unknown cell symbol %q", b)
	}
	return nil
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Line is one of the eight winning triples.
type Line [3]int

// Lines is evaluated in order; the first complete line decides the winner.
var Lines = [8]Line{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Contains reports whether the line passes through cell i.
func (l Line) Contains(i int) bool {
	return l[0] == i || l[1] == i || l[2] == i
}

// CalculateWinner returns the symbol of the first complete line, or Empty.
// A full board without a complete line has no winner.
func CalculateWinner(b Board) Cell {
	w, _, _ := WinningLine(b)
	return w
}

// WinningLine is CalculateWinner plus the line that decided it.
func WinningLine(b Board) (Cell, Line, bool) {
	for _, ln := range Lines {
		a := b[ln[0]]
		if a != Empty && a == b[ln[1]] && a == b[ln[2]] {
			return a, ln, true
		}
	}
	return Empty, Line{}, false
}

// Full reports whether every cell is occupied.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

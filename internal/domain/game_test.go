package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to apply a sequence of cell indexes
func playMoves(t *testing.T, g *Game, moves ...int) {
	t.Helper()
	for i, m := range moves {
		require.True(t, g.ApplyMove(m), "move %d (cell %d) was ignored", i, m)
	}
}

func TestNewGameInitialState(t *testing.T) {
	g := New()

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 0, g.Step())
	assert.Equal(t, X, g.NextPlayer())
	assert.Equal(t, Board{}, g.Board())
	assert.Equal(t, "Next player: X", g.Status().String())

	label, err := g.MoveLabel(0)
	require.NoError(t, err)
	assert.Equal(t, "Go to game start", label)
}

func TestZeroGameBehavesLikeNew(t *testing.T) {
	var g Game

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, X, g.NextPlayer())
	require.True(t, g.ApplyMove(4))
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, X, g.Board()[4])
}

func TestApplyMove(t *testing.T) {
	t.Run("Places symbol, records move and flips turn", func(t *testing.T) {
		g := New()

		// When: X plays the centre-right cell
		applied := g.ApplyMove(5)

		// Then: a new snapshot is appended and O is next
		require.True(t, applied)
		assert.Equal(t, 2, g.Len())
		assert.Equal(t, 1, g.Step())
		assert.Equal(t, X, g.Board()[5])
		assert.Equal(t, O, g.NextPlayer())

		label, err := g.MoveLabel(1)
		require.NoError(t, err)
		assert.Equal(t, "Go to move -> 1 (2, 3)", label)
	})

	t.Run("Earlier snapshots are not mutated", func(t *testing.T) {
		g := New()
		playMoves(t, &g, 0, 8)

		first, err := g.BoardAt(1)
		require.NoError(t, err)
		assert.Equal(t, Board{X}, first)

		start, err := g.BoardAt(0)
		require.NoError(t, err)
		assert.Equal(t, Board{}, start)
	})

	t.Run("Occupied cell is a no-op", func(t *testing.T) {
		// Given: X on cell 0
		g := New()
		playMoves(t, &g, 0)
		before := g.History()

		// When: O clicks the same cell
		applied := g.ApplyMove(0)

		// Then: nothing changes
		assert.False(t, applied)
		assert.Equal(t, before, g.History())
		assert.Equal(t, 1, g.Step())
		assert.Equal(t, O, g.NextPlayer())
	})

	t.Run("Off-board index is a no-op", func(t *testing.T) {
		g := New()
		for _, idx := range []int{-1, 9, 42} {
			assert.False(t, g.ApplyMove(idx))
		}
		assert.Equal(t, 1, g.Len())
	})

	t.Run("Move after a win is a no-op even with empty cells", func(t *testing.T) {
		// Given: X wins on the top row
		g := New()
		playMoves(t, &g, 0, 4, 1, 3, 2)
		require.Equal(t, "Winner: X", g.Status().String())

		// When: another cell is clicked
		applied := g.ApplyMove(5)

		// Then: the history is untouched
		assert.False(t, applied)
		assert.Equal(t, 6, g.Len())
		assert.Equal(t, 5, g.Step())
		assert.Equal(t, Empty, g.Board()[5])
	})
}

func TestJumpTo(t *testing.T) {
	t.Run("Jump to start shows empty board without dropping history", func(t *testing.T) {
		g := New()
		playMoves(t, &g, 0, 4, 8)

		require.NoError(t, g.JumpTo(0))

		assert.Equal(t, Board{}, g.Board())
		assert.Equal(t, X, g.NextPlayer())
		assert.Equal(t, 4, g.Len())
		assert.Equal(t, "Next player: X", g.Status().String())
	})

	t.Run("Next player follows step parity", func(t *testing.T) {
		g := New()
		playMoves(t, &g, 0, 4, 8)

		require.NoError(t, g.JumpTo(1))
		assert.Equal(t, O, g.NextPlayer())
		require.NoError(t, g.JumpTo(2))
		assert.Equal(t, X, g.NextPlayer())
	})

	t.Run("Move after jump truncates the future", func(t *testing.T) {
		// Given: four moves played
		g := New()
		playMoves(t, &g, 0, 1, 2, 3)
		previous := 1

		// When: jumping back and playing a different cell
		require.NoError(t, g.JumpTo(previous))
		require.True(t, g.ApplyMove(7))

		// Then: history is previous + 2 long and ends with the new move
		assert.Equal(t, previous+2, g.Len())
		assert.Equal(t, previous+1, g.Step())
		assert.Equal(t, Board{X, Empty, Empty, Empty, Empty, Empty, Empty, O}, g.Board())
		label, err := g.MoveLabel(2)
		require.NoError(t, err)
		assert.Equal(t, "Go to move -> 2 (3, 2)", label)
	})

	t.Run("Snapshots taken before truncation survive it", func(t *testing.T) {
		g := New()
		playMoves(t, &g, 0, 1, 2)
		old := g.History()

		require.NoError(t, g.JumpTo(1))
		require.True(t, g.ApplyMove(8))

		assert.Equal(t, Board{X, O, X}, old[3].Board)
	})

	t.Run("Jumping to before a win allows a different continuation", func(t *testing.T) {
		g := New()
		playMoves(t, &g, 0, 4, 1, 3, 2)

		require.NoError(t, g.JumpTo(4))
		assert.Equal(t, "Next player: X", g.Status().String())
		require.True(t, g.ApplyMove(6))
		assert.Equal(t, 6, g.Len())
	})

	t.Run("Out of range step is rejected", func(t *testing.T) {
		g := New()
		playMoves(t, &g, 0)

		for _, step := range []int{-1, 2, 100} {
			err := g.JumpTo(step)
			require.ErrorIs(t, err, ErrStepOutOfRange)
		}
		assert.Equal(t, 1, g.Step())
		assert.Equal(t, 2, g.Len())

		_, err := g.BoardAt(5)
		assert.ErrorIs(t, err, ErrStepOutOfRange)
		_, err = g.MoveLabel(-1)
		assert.ErrorIs(t, err, ErrStepOutOfRange)
	})
}

func TestLabels(t *testing.T) {
	// Given: a game rewound into the middle of its history
	g := New()
	playMoves(t, &g, 0, 5, 7)
	require.NoError(t, g.JumpTo(1))

	// When: listing the navigator labels
	labels := g.Labels()

	// Then: every stored step is listed and agrees with MoveLabel
	assert.Equal(t, []string{
		"Go to game start",
		"Go to move -> 1 (1, 1)",
		"Go to move -> 2 (2, 3)",
		"Go to move -> 3 (3, 2)",
	}, labels)
	for i, want := range labels {
		got, err := g.MoveLabel(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	var zero Game
	assert.Equal(t, []string{"Go to game start"}, zero.Labels())
}

func TestRestart(t *testing.T) {
	g := New()
	playMoves(t, &g, 0, 4, 1)
	require.NoError(t, g.JumpTo(1))

	g.Restart()

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 0, g.Step())
	assert.Equal(t, Board{}, g.Board())
	assert.Equal(t, X, g.NextPlayer())
}

func TestStatus(t *testing.T) {
	t.Run("Winner on top row", func(t *testing.T) {
		g := New()
		playMoves(t, &g, 0, 4, 1, 3, 2)

		st := g.Status()
		assert.Equal(t, Won, st.Outcome)
		assert.Equal(t, X, st.Winner)
		assert.Equal(t, Line{0, 1, 2}, st.Line)
		assert.True(t, st.Winning(1))
		assert.False(t, st.Winning(4))
	})

	t.Run("O wins on a diagonal", func(t *testing.T) {
		g := New()
		playMoves(t, &g, 0, 2, 1, 4, 8, 6)
		assert.Equal(t, "Winner: O", g.Status().String())
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// X:0,1,5,6,8 / O:2,3,4,7
		g := New()
		playMoves(t, &g, 0, 2, 1, 3, 5, 4, 6, 7, 8)

		st := g.Status()
		assert.Equal(t, Draw, st.Outcome)
		assert.Equal(t, "Draw", st.String())
		assert.False(t, st.Winning(0))
	})

	t.Run("Status follows the viewed step", func(t *testing.T) {
		g := New()
		playMoves(t, &g, 0, 4, 1, 3, 2)
		require.NoError(t, g.JumpTo(3))
		assert.Equal(t, "Next player: O", g.Status().String())
	})
}

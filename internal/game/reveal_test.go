package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmarcus/sweeper/internal/game"
	"github.com/ajmarcus/sweeper/internal/grid"
)

func TestRevealPreconditions(t *testing.T) {
	st, err := game.Generate(grid.MustNew(9), 1, draws(4), false)
	require.NoError(t, err)

	_, err = st.Reveal(9)
	assert.ErrorIs(t, err, game.ErrCellOutOfRange)
	_, err = st.Reveal(-1)
	assert.ErrorIs(t, err, game.ErrCellOutOfRange)
	_, err = st.Reveal(4)
	assert.ErrorIs(t, err, game.ErrMineCell)
	assert.Equal(t, 0, st.Visited.Size())
}

func TestRevealNumberedCellStops(t *testing.T) {
	st, err := game.Generate(grid.MustNew(100), 1, draws(23), false)
	require.NoError(t, err)

	res, err := st.Reveal(12)
	require.NoError(t, err)
	assert.Equal(t, game.RevealResult{{Cell: 12, Adjacent: 1}}, res)
	assert.Equal(t, 1, st.Visited.Size())

	n, ok := st.Adjacent(12)
	assert.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestRevealFloodsEverySafeCell(t *testing.T) {
	topo := grid.MustNew(100)
	st, err := game.Generate(topo, 1, draws(23), false)
	require.NoError(t, err)

	res, err := st.Reveal(45)
	require.NoError(t, err)

	// A single mine cannot wall off any region, so one flood covers the board.
	assert.Equal(t, 99, st.Visited.Size())
	assert.Len(t, res, 99)
	assert.False(t, st.Visited.Has(23))

	seen := map[int]bool{}
	for _, rc := range res {
		assert.False(t, seen[rc.Cell], "cell %d revealed twice", rc.Cell)
		seen[rc.Cell] = true
		assert.Equal(t, topo.NeighborMineCount(rc.Cell, st.Mines), rc.Adjacent)
	}
	for _, j := range topo.Neighbors(23) {
		n, ok := st.Adjacent(j)
		assert.True(t, ok)
		assert.Equal(t, 1, n, "neighbor %d", j)
	}
	assert.Equal(t, 45, res[0].Cell)
}

func TestRevealStopsAtWall(t *testing.T) {
	// Column 2 of a 5x5 board is solid mines; the left two columns are a
	// separate region from the right two.
	topo := grid.MustNew(25)
	st, err := game.Generate(topo, 5, draws(2, 7, 12, 17, 22), false)
	require.NoError(t, err)

	_, err = st.Reveal(0)
	require.NoError(t, err)

	for i := 0; i < topo.Size; i++ {
		left := topo.Col(i) < 2
		assert.Equal(t, left, st.Visited.Has(i), "cell %d", i)
	}
	n, _ := st.Adjacent(0)
	assert.Equal(t, 0, n)
	n, _ = st.Adjacent(6)
	assert.Equal(t, 3, n)
}

func TestRevealIsIdempotent(t *testing.T) {
	st, err := game.Generate(grid.MustNew(16), 0, nil, false)
	require.NoError(t, err)

	first, err := st.Reveal(5)
	require.NoError(t, err)
	assert.Len(t, first, 16)

	again, err := st.Reveal(10)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, 16, st.Visited.Size())
}

func TestRevealLargeEmptyBoard(t *testing.T) {
	st, err := game.Generate(grid.MustNew(250000), 0, nil, false)
	require.NoError(t, err)

	res, err := st.Reveal(0)
	require.NoError(t, err)
	assert.Len(t, res, 250000)
}

func TestRevealVisitOrderFollowsNeighbors(t *testing.T) {
	st, err := game.Generate(grid.MustNew(9), 0, nil, false)
	require.NoError(t, err)

	res, err := st.Reveal(4)
	require.NoError(t, err)

	order := make([]int, 0, len(res))
	for _, rc := range res {
		order = append(order, rc.Cell)
	}
	// Depth first: each cell descends into its first unvisited neighbor.
	assert.Equal(t, []int{4, 3, 0, 1, 2, 5, 7, 6, 8}, order)
}

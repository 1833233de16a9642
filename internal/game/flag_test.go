package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmarcus/sweeper/internal/game"
	"github.com/ajmarcus/sweeper/internal/grid"
)

func TestToggleOrRevealFlagsPlainCell(t *testing.T) {
	st, err := game.Generate(grid.MustNew(9), 1, draws(4), false)
	require.NoError(t, err)

	click, err := st.ToggleOrReveal(0)
	require.NoError(t, err)
	assert.Equal(t, game.ClickFlagged, click.Kind)
	assert.True(t, st.Flags.Has(0))
	assert.Equal(t, 0, st.Visited.Size())
}

func TestToggleOrRevealUnflagSafe(t *testing.T) {
	st, err := game.Generate(grid.MustNew(9), 1, draws(4), false)
	require.NoError(t, err)

	_, err = st.ToggleOrReveal(0)
	require.NoError(t, err)
	click, err := st.ToggleOrReveal(0)
	require.NoError(t, err)

	assert.Equal(t, game.ClickRevealed, click.Kind)
	assert.Equal(t, game.RevealResult{{Cell: 0, Adjacent: 1}}, click.Reveal)
	assert.False(t, st.Flags.Has(0))
	assert.True(t, st.Visited.Has(0))
}

// A mine always explodes when its flag is lifted, whatever surrounds it.
func TestToggleOrRevealUnflagMine(t *testing.T) {
	for _, mines := range [][]int{{4}, {4, 0, 1, 2, 3, 5, 6, 7, 8}, {0}, {8, 7}} {
		st, err := game.Generate(grid.MustNew(9), len(mines), draws(mines...), false)
		require.NoError(t, err)

		cell := mines[0]
		_, err = st.ToggleOrReveal(cell)
		require.NoError(t, err)
		click, err := st.ToggleOrReveal(cell)
		require.NoError(t, err)

		assert.Equal(t, game.ClickExploded, click.Kind, "mines %v", mines)
		ex, ok := st.Exploded()
		assert.True(t, ok)
		assert.Equal(t, cell, ex)
		assert.False(t, st.Visited.Has(cell))
	}
}

func TestToggleOrRevealIgnoresRevealedCell(t *testing.T) {
	st, err := game.Generate(grid.MustNew(9), 1, draws(4), false)
	require.NoError(t, err)
	_, err = st.Reveal(0)
	require.NoError(t, err)

	click, err := st.ToggleOrReveal(0)
	require.NoError(t, err)
	assert.Equal(t, game.ClickIgnored, click.Kind)
	assert.False(t, st.Flags.Has(0))
}

func TestToggleOrRevealLiftsFlagSweptByFlood(t *testing.T) {
	st, err := game.Generate(grid.MustNew(9), 0, nil, false)
	require.NoError(t, err)

	_, err = st.ToggleOrReveal(8)
	require.NoError(t, err)
	_, err = st.Reveal(0)
	require.NoError(t, err)
	require.True(t, st.Visited.Has(8))
	require.True(t, st.Flags.Has(8))

	click, err := st.ToggleOrReveal(8)
	require.NoError(t, err)
	assert.Equal(t, game.ClickRevealed, click.Kind)
	assert.Empty(t, click.Reveal)
	assert.False(t, st.Flags.Has(8))
}

func TestToggleOrRevealOutOfRange(t *testing.T) {
	st, err := game.Generate(grid.MustNew(9), 0, nil, false)
	require.NoError(t, err)
	_, err = st.ToggleOrReveal(9)
	assert.ErrorIs(t, err, game.ErrCellOutOfRange)
}

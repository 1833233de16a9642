package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmarcus/sweeper/internal/grid"
)

func TestNew(t *testing.T) {
	for _, size := range []int{1, 4, 9, 100, 256} {
		topo, err := grid.New(size)
		require.NoError(t, err)
		assert.Equal(t, size, topo.RowWidth*topo.RowWidth)
	}
	for _, size := range []int{0, -4, 2, 10, 99} {
		_, err := grid.New(size)
		assert.ErrorIs(t, err, grid.ErrNotSquare, "size %d", size)
	}
}

func TestRowBounds(t *testing.T) {
	topo := grid.MustNew(100)
	assert.Equal(t, 20, topo.RowStart(23))
	assert.Equal(t, 29, topo.RowEnd(23))
	assert.Equal(t, 13, topo.RowAbove(23))
	assert.Equal(t, 33, topo.RowBelow(23))
	assert.Equal(t, 2, topo.Row(23))
	assert.Equal(t, 3, topo.Col(23))
}

// With ten cells per row the span matches the last-digit rule: i stays put
// when it ends in 0 (start) or 9 (end), otherwise it moves one step.
func TestSpanMatchesLastDigitRule(t *testing.T) {
	topo := grid.MustNew(100)
	for i := 0; i < topo.Size; i++ {
		wantStart, wantEnd := i-1, i+1
		if i%10 == 0 {
			wantStart = i
		}
		if i%10 == 9 {
			wantEnd = i
		}
		assert.Equal(t, wantStart, topo.SpanStart(i), "start of %d", i)
		assert.Equal(t, wantEnd, topo.SpanEnd(i), "end of %d", i)
	}
}

func TestNeighborsCardinality(t *testing.T) {
	for _, size := range []int{4, 9, 25, 100} {
		topo := grid.MustNew(size)
		w := topo.RowWidth
		for i := 0; i < size; i++ {
			n := topo.Neighbors(i)
			r, c := topo.Row(i), topo.Col(i)
			edgeRow := r == 0 || r == w-1
			edgeCol := c == 0 || c == w-1

			want := 8
			switch {
			case edgeRow && edgeCol:
				want = 3
			case edgeRow || edgeCol:
				want = 5
			}
			require.Len(t, n, want, "size %d cell %d", size, i)
			assert.NotContains(t, n, i)

			seen := map[int]bool{}
			for _, j := range n {
				assert.True(t, topo.InBounds(j))
				assert.False(t, seen[j], "duplicate %d", j)
				seen[j] = true
				dr, dc := topo.Row(j)-r, topo.Col(j)-c
				assert.True(t, dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1, "%d is not adjacent to %d", j, i)
			}
		}
	}
}

func TestNeighborsOrder(t *testing.T) {
	topo := grid.MustNew(100)
	assert.Equal(t, []int{22, 24, 12, 13, 14, 32, 33, 34}, topo.Neighbors(23))
	assert.Equal(t, []int{1, 10, 11}, topo.Neighbors(0))
	assert.Equal(t, []int{98, 88, 89}, topo.Neighbors(99))
}

func TestNeighborsSingleCell(t *testing.T) {
	topo := grid.MustNew(1)
	assert.Empty(t, topo.Neighbors(0))
}

func TestNeighborMineCount(t *testing.T) {
	topo := grid.MustNew(100)
	mines := make([]uint8, topo.Size)
	mines[23] = 1

	assert.Equal(t, 1, topo.NeighborMineCount(12, mines))
	assert.Equal(t, 0, topo.NeighborMineCount(45, mines))
	assert.Equal(t, 0, topo.NeighborMineCount(20, mines))
	for _, j := range topo.Neighbors(23) {
		assert.Equal(t, 1, topo.NeighborMineCount(j, mines), "neighbor %d", j)
	}
}

func TestNeighborMineCountEdges(t *testing.T) {
	topo := grid.MustNew(9)
	mines := []uint8{
		1, 0, 1,
		0, 0, 0,
		1, 0, 1,
	}
	assert.Equal(t, 4, topo.NeighborMineCount(4, mines))
	assert.Equal(t, 2, topo.NeighborMineCount(1, mines))
	assert.Equal(t, 2, topo.NeighborMineCount(3, mines))
	assert.Equal(t, 2, topo.NeighborMineCount(7, mines))
}

func TestNeighborMineCountMatchesDiscreteSum(t *testing.T) {
	topo := grid.MustNew(49)
	mines := make([]uint8, topo.Size)
	for _, m := range []int{0, 6, 8, 17, 24, 30, 42, 48} {
		mines[m] = 1
	}
	for i := 0; i < topo.Size; i++ {
		if mines[i] == 1 {
			continue
		}
		want := 0
		for _, j := range topo.Neighbors(i) {
			want += int(mines[j])
		}
		assert.Equal(t, want, topo.NeighborMineCount(i, mines), "cell %d", i)
	}
}

package daily_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmarcus/sweeper/internal/daily"
	"github.com/ajmarcus/sweeper/internal/game"
	"github.com/ajmarcus/sweeper/internal/grid"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	local := time.Date(2026, 3, 2, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-01", daily.DateKey(local))
}

func TestSeedIsDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)

	a1, a2 := daily.Seed(day, "salt")
	b1, b2 := daily.Seed(later, "salt")
	assert.Equal(t, a1, b1)
	assert.Equal(t, a2, b2)

	c1, _ := daily.Seed(day.Add(24*time.Hour), "salt")
	assert.NotEqual(t, a1, c1)
	d1, _ := daily.Seed(day, "pepper")
	assert.NotEqual(t, a1, d1)
}

func TestSourceDealsSameBoard(t *testing.T) {
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	topo := grid.MustNew(100)

	a, err := game.Generate(topo, 10, daily.Source(day, "salt"), true)
	require.NoError(t, err)
	b, err := game.Generate(topo, 10, daily.Source(day, "salt"), true)
	require.NoError(t, err)
	assert.Equal(t, a.Mines, b.Mines)
}

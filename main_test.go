package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadOptionsDefaults(t *testing.T) {
	for _, k := range []string{"BOARD_SIZE", "MINE_COUNT", "DAILY_MINES", "DAILY_SALT", "MINES_DISTINCT"} {
		t.Setenv(k, "")
	}
	opts := loadOptions()
	assert.Equal(t, 100, opts.BoardSize)
	assert.Equal(t, 3, opts.MineCount)
	assert.Equal(t, 10, opts.DailyMines)
	assert.False(t, opts.Distinct)
}

func TestLoadOptionsFromEnv(t *testing.T) {
	t.Setenv("BOARD_SIZE", "64")
	t.Setenv("MINE_COUNT", "seven")
	t.Setenv("DAILY_MINES", "12")
	t.Setenv("DAILY_SALT", "pepper")
	t.Setenv("MINES_DISTINCT", "true")

	opts := loadOptions()
	assert.Equal(t, 64, opts.BoardSize)
	assert.Equal(t, 3, opts.MineCount, "non-integer falls back to the default")
	assert.Equal(t, 12, opts.DailyMines)
	assert.Equal(t, "pepper", opts.DailySalt)
	assert.True(t, opts.Distinct)
}

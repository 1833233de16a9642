package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ajmarcus/sweeper/internal/database"
	"github.com/ajmarcus/sweeper/internal/httpserver"
	"github.com/ajmarcus/sweeper/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if getEnv("NODE_ENV", "development") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.Open(getEnv("DB_PATH", "./data/sweeper.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	opts := loadOptions()
	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db, opts)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Int("boardSize", opts.BoardSize).Int("mines", opts.MineCount).
		Bool("distinct", opts.Distinct).Msg("starting sweeper")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// loadOptions reads board settings from the environment over the defaults.
func loadOptions() httpserver.Options {
	opts := httpserver.DefaultOptions()
	opts.BoardSize = envInt("BOARD_SIZE", opts.BoardSize)
	opts.MineCount = envInt("MINE_COUNT", opts.MineCount)
	opts.DailyMines = envInt("DAILY_MINES", opts.DailyMines)
	opts.DailySalt = getEnv("DAILY_SALT", opts.DailySalt)
	if v, err := strconv.ParseBool(getEnv("MINES_DISTINCT", "false")); err == nil {
		opts.Distinct = v
	}
	return opts
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer setting")
	}
	return def
}

// internal/httpserver/server.go
//
// HTTP server wiring for the sweeper backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, GET /game/{id},
//     POST /game/{id}/cells/{cell}, POST /game/{id}/restart.
//   - Daily board endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (auth.go).
//   - Recording board outcomes and user stats in the database.
//
// Notes:
//   - Live games sit in the session store; the database only sees outcomes.
//   - A click is a single POST; the response carries the click, the outcome it
//     led to, and a fresh snapshot for the renderer.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/ajmarcus/sweeper/internal/game"
	"github.com/ajmarcus/sweeper/internal/grid"
	"github.com/ajmarcus/sweeper/internal/store"
)

// maxBoardSize bounds the boards a client may ask for.
const maxBoardSize = 10000

// Options configures board defaults and test seams.
type Options struct {
	BoardSize  int    // cells on a default board
	MineCount  int    // mines on a player's first board
	Distinct   bool   // place mines without replacement
	DailySalt  string // HMAC salt for the daily board
	DailyMines int    // mines on the daily board

	Scheduler game.Scheduler     // nil → real timers
	NewSource func() game.Source // nil → shared random source
	Now       func() time.Time   // nil → time.Now
}

// DefaultOptions mirrors the classic 10x10 board with three mines.
func DefaultOptions() Options {
	return Options{
		BoardSize:  100,
		MineCount:  3,
		DailySalt:  "local_dev_salt",
		DailyMines: 10,
	}
}

// Server bundles router, in-memory game store, and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	opts  Options
	daily *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, opts Options) *Server {
	if opts.Scheduler == nil {
		opts.Scheduler = game.TimerScheduler{}
	}
	if opts.NewSource == nil {
		opts.NewSource = game.DefaultSource
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), store: st, db: db, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"sweeper","endpoints":["/health","POST /game/new","POST /game/{id}/cells/{cell}","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "games": s.store.Len()})
	})

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.r.With(s.withOptionalAuth()).Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/cells/{cell}", s.handleCell)
		r.Post("/{id}/restart", s.handleRestart)
	})

	// Daily board: OPTIONAL AUTH (guests can play; results recorded on win)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Size  *int `json:"size"`  // optional; must be a perfect square
	Mines *int `json:"mines"` // optional; mines on the first board
}
type newGameRes struct {
	GameID   string        `json:"gameId"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// handleNewGame creates a new in-memory game with the requested or default board.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	cfg := s.gameConfig()
	if req.Size != nil {
		cfg.Size = *req.Size
	}
	if req.Mines != nil {
		cfg.MineQuota = *req.Mines
	}
	if cfg.Size > maxBoardSize {
		http.Error(w, `{"error":"board_too_large"}`, http.StatusBadRequest)
		return
	}

	g, err := game.New(cfg)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Debug().Str("gameId", g.ID()).Int("size", cfg.Size).Int("mines", cfg.MineQuota).Msg("new game")

	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID(), Snapshot: g.Snapshot()})
}

// gameConfig returns the default board configuration for a new game.
func (s *Server) gameConfig() game.Config {
	return game.Config{
		Size:      s.opts.BoardSize,
		MineQuota: s.opts.MineCount,
		Distinct:  s.opts.Distinct,
		Source:    s.opts.NewSource(),
		Scheduler: s.opts.Scheduler,
		Listener:  logListener{},
	}
}

// handleGetGame returns the current snapshot of a game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

// cellRes is the response payload for POST /game/{id}/cells/{cell}.
type cellRes struct {
	Click    game.Click    `json:"click"`
	Outcome  game.Outcome  `json:"outcome"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// handleCell is the per-click entry point: flag, unflag/reveal, or explode.
// Board outcomes are recorded best effort once the click is applied.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	cell, err := strconv.Atoi(chi.URLParam(r, "cell"))
	if err != nil {
		http.Error(w, `{"error":"bad_cell"}`, http.StatusBadRequest)
		return
	}

	click, outcome, err := g.Interact(cell)
	if err != nil {
		writeGameError(w, err)
		return
	}
	snap := g.Snapshot()

	s.recordBoard(w, r, snap)
	if s.daily != nil {
		s.daily.observe(r.Context(), snap)
	}

	_ = json.NewEncoder(w).Encode(cellRes{Click: click, Outcome: outcome, Snapshot: snap})
}

// handleRestart deals a fresh board on an unfinished game.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := g.Restart(); err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

// lookup loads the game named in the URL or writes a 404.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return g, true
}

// writeGameError maps engine errors to HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrFrozen):
		http.Error(w, `{"error":"frozen"}`, http.StatusConflict)
	case errors.Is(err, game.ErrCellOutOfRange):
		http.Error(w, `{"error":"cell_out_of_range"}`, http.StatusBadRequest)
	case errors.Is(err, grid.ErrNotSquare):
		http.Error(w, `{"error":"size_not_square"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrMineCount):
		http.Error(w, `{"error":"bad_mine_count"}`, http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("game error")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}

// recordBoard upserts the board's row and, once it is decided, its outcome and
// the player's stats. Failures are logged and never fail the click.
func (s *Server) recordBoard(w http.ResponseWriter, r *http.Request, snap game.Snapshot) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	ownerCol := "anonymous_id"
	ownerArg := any(s.ensureAnonID(w, r))
	if me != nil {
		ownerCol = "user_id"
		ownerArg = any(me.ID)
	}

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin board tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO games (id, game_id, `+ownerCol+`, size, mines, started_at, status, clicks)
	                      VALUES (?,?,?,?,?,?,?,0)`,
		snap.BoardID, snap.ID, ownerArg, snap.Size, snap.Mines, snap.StartedAt.Format(time.RFC3339), string(game.OutcomePlaying)); err != nil {
		log.Warn().Err(err).Str("boardId", snap.BoardID).Msg("insert board row")
		return
	}
	if _, err := tx.Exec(`UPDATE games SET clicks=? WHERE id=? AND `+ownerCol+`=?`, snap.Clicks, snap.BoardID, ownerArg); err != nil {
		log.Warn().Err(err).Msg("update clicks")
	}

	if snap.Outcome != game.OutcomePlaying {
		res, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND status=? AND `+ownerCol+`=?`,
			string(snap.Outcome), s.opts.Now().UTC().Format(time.RFC3339), snap.BoardID, string(game.OutcomePlaying), ownerArg)
		if err != nil {
			log.Warn().Err(err).Msg("finish board")
		} else if n, _ := res.RowsAffected(); n == 1 && me != nil {
			if err := bumpStats(tx, me.ID, snap.Outcome == game.OutcomeWin); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit board tx")
	}
}

// bumpStats increments games played; updates wins and streak based on result (within tx).
func bumpStats(tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRow(`SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.Exec(`UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}

// ------------------------------ listener -----------------------------------

// logListener reports the outcome sequence of every game to the log.
type logListener struct{}

func (logListener) OnOutcome(gameID string, o game.Outcome, stage int, label string) {
	log.Info().Str("gameId", gameID).Str("outcome", string(o)).Int("stage", stage).Str("label", label).Msg("outcome stage")
}

func (logListener) OnRestart(snap game.Snapshot) {
	log.Info().Str("gameId", snap.ID).Str("boardId", snap.BoardID).Int("round", snap.Round).
		Int("mines", snap.MineQuota).Msg("board dealt")
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

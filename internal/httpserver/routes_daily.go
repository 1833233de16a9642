// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily board.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → deal (or resume) today's board
//   - GET  /daily/leaderboard → fastest clears for today (or a given date)
//
// Every player gets the same first board on a given day: mines come from a
// source seeded by HMAC(salt, date). Only that first board counts; a loss
// locks the player out for the day, a win is recorded once.
// Clicks go through the regular /game/{id}/cells/{cell} route.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/ajmarcus/sweeper/internal/daily"
	"github.com/ajmarcus/sweeper/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	mu       sync.Mutex               // guards sessions and byGame
	sessions map[string]*dailySession // keyed by userID|date
	byGame   map[string]*dailySession // keyed by game ID
}

// dailySession tracks one player's daily board.
type dailySession struct {
	GameID   string
	UserID   string
	Date     string
	Finished bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.opts.DailySalt,
		sessions: make(map[string]*dailySession),
		byGame:   make(map[string]*dailySession),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// newRes is returned by /daily/new.
type newRes struct {
	GameID   string         `json:"gameId"`
	Date     string         `json:"date"`
	Played   bool           `json:"played"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}

// handleNew deals today's board or resumes the player's session.
// - Already recorded in the DB, or lost today → Played=true.
// - Otherwise create/reuse the in-memory session and return its board.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	now := d.srv.opts.Now()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(newRes{Date: date, Played: true})
		return
	} else if err != nil {
		log.Warn().Err(err).Msg("daily already played")
	}

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if ok {
		if sess.Finished {
			_ = json.NewEncoder(w).Encode(newRes{GameID: sess.GameID, Date: date, Played: true})
			return
		}
		if g, err := d.srv.store.Get(r.Context(), sess.GameID); err == nil {
			snap := g.Snapshot()
			_ = json.NewEncoder(w).Encode(newRes{GameID: sess.GameID, Date: date, Snapshot: &snap})
			return
		}
	}

	cfg := d.srv.gameConfig()
	cfg.MineQuota = d.srv.opts.DailyMines
	cfg.Distinct = true
	cfg.Source = daily.Source(now, d.salt)
	g, err := game.New(cfg)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	sess = &dailySession{GameID: g.ID(), UserID: uid, Date: date}
	d.mu.Lock()
	d.sessions[key] = sess
	d.byGame[g.ID()] = sess
	d.mu.Unlock()

	snap := g.Snapshot()
	_ = json.NewEncoder(w).Encode(newRes{GameID: g.ID(), Date: date, Snapshot: &snap})
}

// observe closes a daily session when its first board is decided, recording
// the result on a win. Snapshots of other games are ignored.
func (d *dailyServer) observe(ctx context.Context, snap game.Snapshot) {
	if snap.Outcome == game.OutcomePlaying || snap.Round != 1 {
		return
	}
	d.mu.Lock()
	sess, ok := d.byGame[snap.ID]
	if !ok || sess.Finished {
		d.mu.Unlock()
		return
	}
	sess.Finished = true
	d.mu.Unlock()

	if snap.Outcome != game.OutcomeWin {
		return
	}
	elapsed := int(d.srv.opts.Now().Sub(snap.StartedAt).Milliseconds())
	if err := d.store.InsertResult(ctx, daily.Result{
		UserID:    sess.UserID,
		Date:      sess.Date,
		Mines:     snap.Mines,
		Clicks:    snap.Clicks,
		ElapsedMs: max(elapsed, 0),
	}); err != nil {
		log.Warn().Err(err).Str("user", sess.UserID).Msg("insert daily result")
	}
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.opts.Now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}

// internal/game/machine.go
//
// Game state machine for one player's sequence of boards.
// Responsibilities:
//   - Route each cell interaction through ToggleOrReveal, then decide win/loss.
//   - Raise the mine quota by quotaStep after a win.
//   - Freeze the board on win/loss and run the outcome sequence:
//     stage 1 label → stage 2 label → fresh board, each after a fixed wait.
//   - Hand out Snapshots for renderers.
//
// State transitions:
//   playing → win | loss   (on a click)
//   win | loss → playing   (after the outcome sequence, never on input)
//
// Every entry point, including scheduler callbacks, holds g.mu. Listener
// methods run under the lock and must not call back into the Game.

package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ajmarcus/sweeper/internal/grid"
)

const (
	stageOneDelay = 250 * time.Millisecond
	stageTwoDelay = 750 * time.Millisecond
	restartDelay  = time.Second

	quotaStep = 3
)

// outcomeLabels are the labels shown on every cell at stage 1 and stage 2.
var outcomeLabels = map[Outcome][2]string{
	OutcomeWin:  {"😊", "👻"},
	OutcomeLoss: {"💣", "😱"},
}

// ErrFrozen is returned for input that arrives during the outcome sequence.
var ErrFrozen = errors.New("board is frozen")

// Listener receives the outcome sequence.
type Listener interface {
	OnOutcome(gameID string, outcome Outcome, stage int, label string)
	OnRestart(snap Snapshot)
}

type nopListener struct{}

func (nopListener) OnOutcome(string, Outcome, int, string) {}
func (nopListener) OnRestart(Snapshot)                     {}

// Config configures a new Game. Zero-valued collaborators get defaults.
type Config struct {
	Size      int  // cells on the board; must be a perfect square
	MineQuota int  // mines requested for the first board
	Distinct  bool // place mines without replacement
	Source    Source
	Scheduler Scheduler
	Listener  Listener
}

// Game owns the State of the board in play.
type Game struct {
	mu sync.Mutex

	id       string
	topo     grid.Topology
	distinct bool
	src      Source
	sched    Scheduler
	listener Listener

	quota     int // mines requested for the next board
	boardMine int // mines requested for the current board
	state     *State
	boardID   string
	round     int
	clicks    int
	startedAt time.Time

	outcome Outcome
	frozen  bool
	stage   int
	label   string
}

// New validates cfg and deals the first board.
func New(cfg Config) (*Game, error) {
	topo, err := grid.New(cfg.Size)
	if err != nil {
		return nil, err
	}
	g := &Game{
		id:       uuid.NewString(),
		topo:     topo,
		distinct: cfg.Distinct,
		src:      cfg.Source,
		sched:    cfg.Scheduler,
		listener: cfg.Listener,
		quota:    cfg.MineQuota,
	}
	if g.src == nil {
		g.src = DefaultSource()
	}
	if g.sched == nil {
		g.sched = TimerScheduler{}
	}
	if g.listener == nil {
		g.listener = nopListener{}
	}
	if err := g.deal(); err != nil {
		return nil, err
	}
	return g, nil
}

// ID returns the game's identifier; it is stable across boards.
func (g *Game) ID() string { return g.id }

// Quota returns the mine count the next board will be dealt with.
func (g *Game) Quota() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.quota
}

// Interact applies one click to cell and returns its effect plus the outcome
// it led to. Input is rejected while the board is frozen.
func (g *Game) Interact(cell int) (Click, Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.topo.InBounds(cell) {
		return Click{}, g.outcome, fmt.Errorf("click %d: %w", cell, ErrCellOutOfRange)
	}
	if g.frozen {
		return Click{}, g.outcome, ErrFrozen
	}

	click, err := g.state.ToggleOrReveal(cell)
	if err != nil {
		return Click{}, g.outcome, err
	}
	g.clicks++

	switch {
	case click.Kind == ClickExploded:
		g.finish(OutcomeLoss)
	case g.won():
		g.quota = max(min(g.quota+quotaStep, g.topo.Size-1), 0)
		g.finish(OutcomeWin)
	}
	return click, g.outcome, nil
}

// Restart deals a fresh board at the current quota. It fails while an outcome
// sequence is running; that sequence ends in its own restart.
func (g *Game) Restart() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return ErrFrozen
	}
	return g.deal()
}

// Snapshot returns a copy of the current board for rendering.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// won requires the flags to be exactly the mines and every other cell visited.
func (g *Game) won() bool {
	s := g.state
	if s.Flags.Size() != s.MinePositions.Size() {
		return false
	}
	covered := true
	s.MinePositions.Each(func(c int) {
		if !s.Flags.Has(c) {
			covered = false
		}
	})
	return covered && s.Visited.Size()+s.MinePositions.Size() == s.Topo.Size
}

// finish freezes the board and schedules stage 1.
func (g *Game) finish(o Outcome) {
	g.outcome, g.frozen = o, true
	g.sched.AfterFunc(stageOneDelay, func() { g.showStage(1) })
}

func (g *Game) showStage(stage int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stage = stage
	g.label = outcomeLabels[g.outcome][stage-1]
	g.listener.OnOutcome(g.id, g.outcome, stage, g.label)

	if stage == 1 {
		g.sched.AfterFunc(stageTwoDelay, func() { g.showStage(2) })
		return
	}
	g.sched.AfterFunc(restartDelay, g.restartAfterOutcome)
}

func (g *Game) restartAfterOutcome() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.deal(); err != nil {
		log.Error().Err(err).Str("gameId", g.id).Msg("deal board")
		return
	}
	g.listener.OnRestart(g.snapshot())
}

// deal discards the current State and starts a new board. Caller holds g.mu
// (or owns g exclusively during New).
func (g *Game) deal() error {
	st, err := Generate(g.topo, g.quota, g.src, g.distinct)
	if err != nil {
		return err
	}
	g.state = st
	g.boardMine = g.quota
	g.boardID = uuid.NewString()
	g.round++
	g.clicks = 0
	g.startedAt = time.Now().UTC()
	g.outcome = OutcomePlaying
	g.frozen = false
	g.stage = 0
	g.label = ""
	return nil
}

func (g *Game) snapshot() Snapshot {
	s := g.state
	exploded, hasExploded := s.Exploded()

	cells := make([]CellView, s.Topo.Size)
	for i := range cells {
		v := CellView{
			Flagged:  s.Flags.Has(i),
			Visited:  s.Visited.Has(i),
			Exploded: hasExploded && exploded == i,
		}
		if n, ok := s.Adjacent(i); ok {
			v.Adjacent = &n
		}
		cells[i] = v
	}

	return Snapshot{
		ID:        g.id,
		BoardID:   g.boardID,
		Round:     g.round,
		StartedAt: g.startedAt,
		Size:      s.Topo.Size,
		RowWidth:  s.Topo.RowWidth,
		MineQuota: g.boardMine,
		Mines:     s.MinePositions.Size(),
		Flags:     s.Flags.Size(),
		Clicks:    g.clicks,
		Outcome:   g.outcome,
		Frozen:    g.frozen,
		Stage:     g.stage,
		Label:     g.label,
		Cells:     cells,
	}
}

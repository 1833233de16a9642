// internal/game/types.go
//
// Core type definitions for the mine-flagging game engine.
// Defines:
//   - Outcome: coarse game state (playing/win/loss).
//   - ClickKind / Click: what a single cell interaction did.
//   - State: the mutable record for one board (mines, flags, visited cells).
//   - CellView / Snapshot: read-only views handed to renderers.

package game

import (
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/ajmarcus/sweeper/internal/grid"
)

// Outcome is the state of a game as seen by the state machine.
type Outcome string

const (
	OutcomePlaying Outcome = "playing"
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
)

// ClickKind classifies the effect of one interaction on one cell.
type ClickKind string

const (
	// ClickFlagged: a flag was placed and nothing else happened.
	ClickFlagged ClickKind = "flagged"
	// ClickRevealed: a flag was lifted from a safe cell and the cell was revealed.
	ClickRevealed ClickKind = "revealed"
	// ClickExploded: a flag was lifted from a mine.
	ClickExploded ClickKind = "exploded"
	// ClickIgnored: the cell was already revealed.
	ClickIgnored ClickKind = "ignored"
)

// Click is the result of FlagController.ToggleOrReveal.
type Click struct {
	Kind   ClickKind    `json:"kind"`
	Cell   int          `json:"cell"`
	Reveal RevealResult `json:"reveal,omitempty"`
}

// RevealedCell is one cell uncovered by a reveal, with its annotation.
type RevealedCell struct {
	Cell     int `json:"cell"`
	Adjacent int `json:"adjacent"`
}

// RevealResult lists the cells uncovered by one reveal, in visit order.
type RevealResult []RevealedCell

// State holds one board's mutable game record.
// It is created by Generate and replaced wholesale on restart.
type State struct {
	Topo          grid.Topology
	Mines         []uint8         // 1 = mine; authority for counting
	MinePositions mapset.Set[int] // authority for win comparison
	Flags         mapset.Set[int] // cells flagged by the player
	Visited       mapset.Set[int] // cells revealed so far
	adjacent      []int           // annotation per cell, -1 until revealed
	exploded      int             // mine cell that ended the game, -1 if none
}

// IsMine reports whether cell holds a mine.
func (s *State) IsMine(cell int) bool { return s.Mines[cell] == 1 }

// Adjacent returns the annotation recorded when cell was revealed.
func (s *State) Adjacent(cell int) (int, bool) {
	n := s.adjacent[cell]
	return n, n >= 0
}

// Exploded returns the mine cell that ended the game, if any.
func (s *State) Exploded() (int, bool) { return s.exploded, s.exploded >= 0 }

// CellView is the per-cell state a renderer needs.
type CellView struct {
	Flagged  bool `json:"flagged"`
	Visited  bool `json:"visited"`
	Adjacent *int `json:"adjacent"` // nil until revealed
	Exploded bool `json:"exploded"`
}

// Snapshot is a read-only copy of a game, safe to hand across goroutines.
type Snapshot struct {
	ID        string     `json:"id"`
	BoardID   string     `json:"boardId"`
	Round     int        `json:"round"`
	StartedAt time.Time  `json:"startedAt"`
	Size      int        `json:"size"`
	RowWidth  int        `json:"rowWidth"`
	MineQuota int        `json:"mineQuota"` // requested mines for this board
	Mines     int        `json:"mines"`     // mines actually placed
	Flags     int        `json:"flags"`
	Clicks    int        `json:"clicks"`
	Outcome   Outcome    `json:"outcome"`
	Frozen    bool       `json:"frozen"`
	Stage     int        `json:"stage"`           // 0 while playing, 1 or 2 during the outcome sequence
	Label     string     `json:"label,omitempty"` // label every cell shows during a stage
	Cells     []CellView `json:"cells"`
}

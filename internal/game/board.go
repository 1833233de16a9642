// internal/game/board.go
//
// Board generation.
// Responsibilities:
//   - Allocate a fresh State for a topology: mine array, mine position set,
//     empty flag and visited sets, cleared annotations.
//   - Place mines by independent uniform draws, or without replacement when
//     distinct placement is requested.
//
// Notes:
//   - Independent draws may land on the same cell twice; the board then holds
//     fewer mines than requested. MinePositions always reflects what was placed.

package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/zyedidia/generic/mapset"

	"github.com/ajmarcus/sweeper/internal/grid"
)

// ErrMineCount is returned when a mine count cannot fit on the board.
var ErrMineCount = errors.New("mine count out of range")

// Source draws a uniform integer in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// globalSource draws from math/rand/v2's shared, concurrency-safe generator.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns the process-wide random source.
func DefaultSource() Source { return globalSource{} }

// Generate builds a fresh State with mineCount mine draws.
// When distinct is false every draw is independent and duplicates collapse.
func Generate(topo grid.Topology, mineCount int, src Source, distinct bool) (*State, error) {
	if mineCount < 0 || mineCount > topo.Size {
		return nil, fmt.Errorf("%d mines on %d cells: %w", mineCount, topo.Size, ErrMineCount)
	}
	if src == nil {
		src = DefaultSource()
	}

	s := &State{
		Topo:          topo,
		Mines:         make([]uint8, topo.Size),
		MinePositions: mapset.New[int](),
		Flags:         mapset.New[int](),
		Visited:       mapset.New[int](),
		adjacent:      make([]int, topo.Size),
		exploded:      -1,
	}
	for i := range s.adjacent {
		s.adjacent[i] = -1
	}

	if distinct {
		placeDistinct(s, mineCount, src)
	} else {
		for i := 0; i < mineCount; i++ {
			s.placeMine(src.IntN(topo.Size))
		}
	}
	return s, nil
}

// placeDistinct runs a partial Fisher–Yates shuffle over all cells.
func placeDistinct(s *State, mineCount int, src Source) {
	cells := make([]int, s.Topo.Size)
	for i := range cells {
		cells[i] = i
	}
	for i := 0; i < mineCount; i++ {
		j := i + src.IntN(len(cells)-i)
		cells[i], cells[j] = cells[j], cells[i]
		s.placeMine(cells[i])
	}
}

// placeMine keeps the mine array and position set in lock-step.
func (s *State) placeMine(cell int) {
	s.Mines[cell] = 1
	s.MinePositions.Put(cell)
}

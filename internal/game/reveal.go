// internal/game/reveal.go
//
// Reveal propagation.
// Responsibilities:
//   - Annotate a safe cell with its neighbor mine count.
//   - Flood zero-count regions outward until numbered cells bound them.
//
// The flood runs on an explicit LIFO worklist instead of the call stack, so
// large empty boards cannot exhaust goroutine stack. Neighbors are pushed in
// reverse so they come off the stack in Neighbors order, the same order a
// recursive walk would visit them.

package game

import (
	"errors"
	"fmt"

	"github.com/gammazero/deque"
)

var (
	// ErrCellOutOfRange is returned for a cell index outside the board.
	ErrCellOutOfRange = errors.New("cell out of range")
	// ErrMineCell is returned when asked to reveal a mine.
	ErrMineCell = errors.New("cell is a mine")
)

// Reveal uncovers cell, which must not be a mine, and floods outward from it
// while cells have no neighboring mines. Cells are visited at most once.
func (s *State) Reveal(cell int) (RevealResult, error) {
	if !s.Topo.InBounds(cell) {
		return nil, fmt.Errorf("reveal %d: %w", cell, ErrCellOutOfRange)
	}
	if s.IsMine(cell) {
		return nil, fmt.Errorf("reveal %d: %w", cell, ErrMineCell)
	}
	return s.flood(cell), nil
}

// flood assumes cell is in range and safe. A zero-count cell has no mines in
// its neighborhood, so every cell it pushes is safe as well.
func (s *State) flood(cell int) RevealResult {
	var (
		out   RevealResult
		stack deque.Deque[int]
	)
	stack.PushBack(cell)

	for stack.Len() > 0 {
		c := stack.PopBack()
		if s.Visited.Has(c) {
			continue
		}
		n := s.Topo.NeighborMineCount(c, s.Mines)
		s.Visited.Put(c)
		s.adjacent[c] = n
		out = append(out, RevealedCell{Cell: c, Adjacent: n})
		if n > 0 {
			continue
		}

		next := s.Topo.Neighbors(c)
		for i := len(next) - 1; i >= 0; i-- {
			if !s.Visited.Has(next[i]) {
				stack.PushBack(next[i])
			}
		}
	}
	return out
}

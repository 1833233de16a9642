// internal/game/flag.go
//
// Flag handling for a single cell interaction.
//
// A click on a plain hidden cell plants a flag. A click on a flagged cell
// lifts the flag and commits to the cell: a mine explodes, anything else is
// revealed. Revealed cells ignore clicks, except that a flag left on a cell
// later swept by a flood can still be lifted.

package game

import "fmt"

// ToggleOrReveal applies one interaction to cell. It is the only writer of Flags.
func (s *State) ToggleOrReveal(cell int) (Click, error) {
	if !s.Topo.InBounds(cell) {
		return Click{}, fmt.Errorf("click %d: %w", cell, ErrCellOutOfRange)
	}

	switch {
	case s.Flags.Has(cell):
		s.Flags.Remove(cell)
		if s.IsMine(cell) {
			s.exploded = cell
			return Click{Kind: ClickExploded, Cell: cell}, nil
		}
		return Click{Kind: ClickRevealed, Cell: cell, Reveal: s.flood(cell)}, nil

	case s.Visited.Has(cell):
		return Click{Kind: ClickIgnored, Cell: cell}, nil

	default:
		s.Flags.Put(cell)
		return Click{Kind: ClickFlagged, Cell: cell}, nil
	}
}

// internal/grid/grid.go
//
// Index arithmetic for an implicit square board.
// Responsibilities:
//   - Map a row-major cell index to its row, column and row bounds.
//   - Enumerate the up-to-8 neighbors of a cell.
//   - Count mines in a cell's 3x3 neighborhood using three contiguous slices.
//
// Notes:
//   - A Topology is a value type; it never changes for the life of a board.
//   - The row-above / row-below existence checks are the only boundary guards;
//     every slice bound is clipped to the owning row.

package grid

import (
	"errors"
	"fmt"
)

// ErrNotSquare is returned when a board size has no integer square root.
var ErrNotSquare = errors.New("board size is not a perfect square")

// Topology describes a Size-cell square board laid out row by row.
type Topology struct {
	Size     int // total number of cells (RowWidth * RowWidth)
	RowWidth int // cells per row
}

// New builds a Topology for a board of size cells.
func New(size int) (Topology, error) {
	if size < 1 {
		return Topology{}, fmt.Errorf("size %d: %w", size, ErrNotSquare)
	}
	w := isqrt(size)
	if w*w != size {
		return Topology{}, fmt.Errorf("size %d: %w", size, ErrNotSquare)
	}
	return Topology{Size: size, RowWidth: w}, nil
}

// MustNew is New for sizes known to be valid at compile time.
func MustNew(size int) Topology {
	t, err := New(size)
	if err != nil {
		panic(err)
	}
	return t
}

// InBounds reports whether i addresses a cell on the board.
func (t Topology) InBounds(i int) bool { return i >= 0 && i < t.Size }

// Row returns the zero-based row of i.
func (t Topology) Row(i int) int { return i / t.RowWidth }

// Col returns the zero-based column of i.
func (t Topology) Col(i int) int { return i % t.RowWidth }

// RowStart returns the first index of i's row.
func (t Topology) RowStart(i int) int { return i - i%t.RowWidth }

// RowEnd returns the last index of i's row.
func (t Topology) RowEnd(i int) int { return t.RowStart(i) + t.RowWidth - 1 }

// RowAbove returns the index directly above i. It may be negative.
func (t Topology) RowAbove(i int) int { return i - t.RowWidth }

// RowBelow returns the index directly below i. It may be >= Size.
func (t Topology) RowBelow(i int) int { return i + t.RowWidth }

// SpanStart is i-1, or i when i opens its row.
func (t Topology) SpanStart(i int) int {
	if i == t.RowStart(i) {
		return i
	}
	return i - 1
}

// SpanEnd is i+1, or i when i closes its row.
func (t Topology) SpanEnd(i int) int {
	if i == t.RowEnd(i) {
		return i
	}
	return i + 1
}

// Neighbors returns the distinct cells of i's 3x3 neighborhood, excluding i.
//
// Order: own row (left, right), row above (left, center, right), row below
// (left, center, right). Corners yield 3 cells, edges 5 and interior cells 8.
func (t Topology) Neighbors(i int) []int {
	out := make([]int, 0, 8)
	add := func(j int) {
		if j == i {
			return
		}
		for _, k := range out {
			if k == j {
				return
			}
		}
		out = append(out, j)
	}

	add(t.SpanStart(i))
	add(t.SpanEnd(i))
	if up := t.RowAbove(i); up >= 0 {
		add(t.SpanStart(up))
		add(up)
		add(t.SpanEnd(up))
	}
	if down := t.RowBelow(i); down < t.Size {
		add(t.SpanStart(down))
		add(down)
		add(t.SpanEnd(down))
	}
	return out
}

// NeighborMineCount sums mines over the spans above, through and below i.
//
// The middle span includes i itself, so callers must only ask about cells
// that are known not to be mines.
func (t Topology) NeighborMineCount(i int, mines []uint8) int {
	n := sumSpan(mines, t.SpanStart(i), t.SpanEnd(i))
	if up := t.RowAbove(i); up >= 0 {
		n += sumSpan(mines, t.SpanStart(up), t.SpanEnd(up))
	}
	if down := t.RowBelow(i); down < t.Size {
		n += sumSpan(mines, t.SpanStart(down), t.SpanEnd(down))
	}
	return n
}

// sumSpan adds mines[lo..hi] inclusive.
func sumSpan(mines []uint8, lo, hi int) int {
	n := 0
	for _, m := range mines[lo : hi+1] {
		n += int(m)
	}
	return n
}

// isqrt returns floor(sqrt(n)) for n >= 0 without floating point.
func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

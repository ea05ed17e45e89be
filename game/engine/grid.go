package engine

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a grid is addressed outside its matrix
var ErrOutOfRange = errors.New("position out of range")

// Grid is a fixed-size matrix of cell states. It enforces bounds only;
// game rules are the caller's job.
type Grid struct {
	rows  int
	cols  int
	cells [][]CellState
}

// NewGrid creates an empty grid with the given dimensions
func NewGrid(rows, cols int) *Grid {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	cells := make([][]CellState, rows)
	for r := range cells {
		cells[r] = make([]CellState, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

// Rows returns the number of rows
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns
func (g *Grid) Cols() int {
	return g.cols
}

// InBounds reports whether row,col addresses a cell of the matrix
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// IsBorder reports whether row,col lies on the outer ring
func (g *Grid) IsBorder(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return row == 0 || col == 0 || row == g.rows-1 || col == g.cols-1
}

// Get returns the state of a cell
func (g *Grid) Get(row, col int) (CellState, error) {
	if !g.InBounds(row, col) {
		return Empty, fmt.Errorf("%w: (%d,%d) outside %dx%d grid", ErrOutOfRange, row, col, g.rows, g.cols)
	}
	return g.cells[row][col], nil
}

// Set overwrites a cell unconditionally
func (g *Grid) Set(row, col int, state CellState) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d grid", ErrOutOfRange, row, col, g.rows, g.cols)
	}
	g.cells[row][col] = state
	return nil
}

// Clear resets every cell to Empty
func (g *Grid) Clear() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = Empty
		}
	}
}

// Cells returns a deep copy of the matrix
func (g *Grid) Cells() [][]CellState {
	out := make([][]CellState, g.rows)
	for r := range g.cells {
		out[r] = make([]CellState, g.cols)
		copy(out[r], g.cells[r])
	}
	return out
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	return &Grid{rows: g.rows, cols: g.cols, cells: g.Cells()}
}

// Count returns how many cells hold the given state
func (g *Grid) Count(state CellState) int {
	count := 0
	for _, row := range g.cells {
		for _, cell := range row {
			if cell == state {
				count++
			}
		}
	}
	return count
}

// Find returns the first position holding state, scanning row by row
func (g *Grid) Find(state CellState) (Position, bool) {
	for r, row := range g.cells {
		for c, cell := range row {
			if cell == state {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return NoPosition, false
}

package engine

import (
	"fmt"
	"strings"
)

// Cell symbols used by text renderings of a board
const (
	SymbolGoal        = "*"
	SymbolPiece       = "o"
	SymbolFallenPiece = "X"
	SymbolTrail       = "."
	SymbolEmpty       = " "
)

// Symbol returns the single-character rendering of a cell. Ordinary pieces
// resting on the border ring are drawn as fallen.
func Symbol(cells [][]CellState, row, col int) string {
	switch cells[row][col] {
	case GoalPiece:
		return SymbolGoal
	case Piece:
		if row == 0 || col == 0 || row == len(cells)-1 || col == len(cells[row])-1 {
			return SymbolFallenPiece
		}
		return SymbolPiece
	case Trail:
		return SymbolTrail
	default:
		return SymbolEmpty
	}
}

// RenderBoard draws a grid snapshot as text: a column header for the
// interior, one labelled line per row and a closing divider.
func RenderBoard(cells [][]CellState) string {
	size := len(cells)
	var b strings.Builder

	b.WriteString("      ")
	for c := 1; c < size-1; c++ {
		fmt.Fprintf(&b, "%3d", c)
	}
	b.WriteString("   \n")

	for r := 0; r < size; r++ {
		if r == 0 || r == size-1 {
			b.WriteString("   ")
		} else {
			fmt.Fprintf(&b, "%2d:", r)
		}
		for c := range cells[r] {
			b.WriteString("  ")
			b.WriteString(Symbol(cells, r, c))
		}
		b.WriteString("\n")
	}

	b.WriteString(" ")
	b.WriteString(strings.Repeat("-", 3*size+2))
	b.WriteString("\n")
	return b.String()
}

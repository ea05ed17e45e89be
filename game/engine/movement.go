package engine

// SlideResult reports where a slide came to rest
type SlideResult struct {
	From     Position
	To       Position
	Piece    CellState
	Distance int
	// FellOff is set when the piece came to rest on the border ring
	FellOff bool
}

// ClearTrails resets every Trail cell to Empty
func ClearTrails(grid *Grid) {
	for r := 0; r < grid.Rows(); r++ {
		for c := 0; c < grid.Cols(); c++ {
			if grid.cells[r][c] == Trail {
				grid.cells[r][c] = Empty
			}
		}
	}
}

// Slide moves the piece at from in direction dir until the next cell is
// occupied or outside the matrix. Vacated cells become Trail. A piece that
// reaches the border ring has fallen off the playable area.
//
// A start cell without a piece, or a piece that is blocked immediately,
// resolves as a zero-distance slide.
func Slide(grid *Grid, from Position, dir Direction) (SlideResult, error) {
	piece, err := grid.Get(from.Row, from.Col)
	if err != nil {
		return SlideResult{}, err
	}

	result := SlideResult{From: from, To: from, Piece: piece}
	if !piece.IsPiece() || dir == NoDirection {
		return result, nil
	}

	cur := from
	for {
		next := cur.Step(dir)
		if !grid.InBounds(next.Row, next.Col) || grid.cells[next.Row][next.Col] != Empty {
			break
		}
		grid.cells[cur.Row][cur.Col] = Trail
		grid.cells[next.Row][next.Col] = piece
		cur = next
		result.Distance++
	}

	result.To = cur
	result.FellOff = grid.IsBorder(cur.Row, cur.Col)
	return result, nil
}

// CanSlide reports whether the piece at pos would travel at least one cell
// once the current trail has been cleared.
func CanSlide(grid *Grid, pos Position, dir Direction) bool {
	state, err := grid.Get(pos.Row, pos.Col)
	if err != nil || !state.IsPiece() {
		return false
	}
	next := pos.Step(dir)
	cell, err := grid.Get(next.Row, next.Col)
	return err == nil && (cell == Empty || cell == Trail)
}

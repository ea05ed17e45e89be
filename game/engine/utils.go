package engine

import (
	"fmt"
	"strings"
)

// FormatMoveToken renders a move log entry such as "32R"
func FormatMoveToken(row, col int, dir Direction) string {
	return fmt.Sprintf("%d%d%s", row, col, dir.Letter())
}

// ParseMoveToken parses a "<row><col><U|D|L|R>" move token
func ParseMoveToken(token string) (int, int, Direction, error) {
	token = strings.TrimSpace(token)
	if len(token) != 3 || !isDigit(token[0]) || !isDigit(token[1]) {
		return 0, 0, NoDirection, fmt.Errorf("invalid move %q: expected <row><col><U|D|L|R>", token)
	}
	dir, err := ParseDirection(token[2:])
	if err != nil {
		return 0, 0, NoDirection, fmt.Errorf("invalid move %q: %w", token, err)
	}
	return int(token[0] - '0'), int(token[1] - '0'), dir, nil
}

// SplitWinSequence breaks a concatenated win sequence into move tokens
func SplitWinSequence(seq string) ([]string, error) {
	seq = strings.TrimSpace(seq)
	if len(seq)%3 != 0 {
		return nil, fmt.Errorf("invalid win sequence %q: length must be a multiple of 3", seq)
	}
	moves := make([]string, 0, len(seq)/3)
	for i := 0; i < len(seq); i += 3 {
		token := seq[i : i+3]
		if _, _, _, err := ParseMoveToken(token); err != nil {
			return nil, err
		}
		moves = append(moves, token)
	}
	return moves, nil
}

// CountCellState counts the cells of a snapshot grid holding state
func CountCellState(cells [][]CellState, state CellState) int {
	count := 0
	for _, row := range cells {
		for _, cell := range row {
			if cell == state {
				count++
			}
		}
	}
	return count
}

// FindGoalPiece returns the position of the goal piece in a snapshot grid
func FindGoalPiece(cells [][]CellState) (Position, bool) {
	for r, row := range cells {
		for c, cell := range row {
			if cell == GoalPiece {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return NoPosition, false
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dr := from.Row - to.Row
	if dr < 0 {
		dr = -dr
	}
	dc := from.Col - to.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

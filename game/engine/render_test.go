package engine

import (
	"strings"
	"testing"
)

func TestRenderBoard(t *testing.T) {
	e := createTestEngine(t, testBoard)

	lines := strings.Split(strings.TrimSuffix(RenderBoard(e.Cells()), "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("Expected 9 lines (header, 7 rows, divider), got %d", len(lines))
	}

	tests := []struct {
		name string
		line int
		want string
	}{
		{"header", 0, "        1  2  3  4  5   "},
		{"top border", 1, strings.Repeat(" ", 24)},
		{"row 1", 2, " 1:     o           o   "},
		{"row 3", 4, " 3:        *     o      "},
		{"bottom border", 7, strings.Repeat(" ", 24)},
		{"divider", 8, " -----------------------"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if lines[tt.line] != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, lines[tt.line])
			}
		})
	}
}

func TestRenderBoardAfterMoves(t *testing.T) {
	e := createTestEngine(t, testBoard)

	// (1,1) slides up onto the border, leaving a trail where it started
	if _, err := e.Move(1, 1, Up); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	cells := e.Cells()
	if got := Symbol(cells, 0, 1); got != SymbolFallenPiece {
		t.Errorf("Expected fallen piece symbol, got %q", got)
	}
	if got := Symbol(cells, 1, 1); got != SymbolTrail {
		t.Errorf("Expected trail symbol at (1,1), got %q", got)
	}
	if got := Symbol(cells, 3, 2); got != SymbolGoal {
		t.Errorf("Expected goal symbol at (3,2), got %q", got)
	}

	board := RenderBoard(cells)
	if !strings.Contains(board, "   X") {
		t.Errorf("Expected rendered board to show the fallen piece:\n%s", board)
	}
}

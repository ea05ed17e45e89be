package engine

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
		wantErr  bool
	}{
		{"up", Up, false},
		{"U", Up, false},
		{"Down", Down, false},
		{"d", Down, false},
		{"LEFT", Left, false},
		{"l", Left, false},
		{" right ", Right, false},
		{"R", Right, false},
		{"north", NoDirection, true},
		{"", NoDirection, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dir, err := ParseDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if dir != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, dir)
			}
		})
	}
}

func TestDirectionHelpers(t *testing.T) {
	for _, dir := range Directions {
		if dir.Opposite().Opposite() != dir {
			t.Errorf("Expected double opposite of %s to be itself", dir)
		}
		dr, dc := dir.Delta()
		odr, odc := dir.Opposite().Delta()
		if dr+odr != 0 || dc+odc != 0 {
			t.Errorf("Expected %s and its opposite to cancel", dir)
		}
		parsed, err := ParseDirection(dir.Letter())
		if err != nil || parsed != dir {
			t.Errorf("Expected letter %q to parse back to %s", dir.Letter(), dir)
		}
	}
}

func TestCellStateJSON(t *testing.T) {
	row := []CellState{Empty, GoalPiece, Piece, Trail}
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(data) != `["empty","goal","piece","trail"]` {
		t.Errorf("Unexpected JSON %s", data)
	}

	var decoded []CellState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	for i := range row {
		if decoded[i] != row[i] {
			t.Errorf("Expected %s at %d, got %s", row[i], i, decoded[i])
		}
	}

	var bad CellState
	if err := json.Unmarshal([]byte(`"lava"`), &bad); err == nil {
		t.Error("Expected error for unknown cell state")
	}
}

func TestGameStateJSON(t *testing.T) {
	e := createTestEngine(t, testBoard)
	if _, err := e.Move(3, 2, Right); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	data, err := json.Marshal(e.GetState())
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}
	for _, want := range []string{`"status":"won"`, `"last_direction":"right"`, `"win_sequence":"32R"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected %s in %s", want, data)
		}
	}
}

func TestMoveTokens(t *testing.T) {
	if got := FormatMoveToken(3, 2, Right); got != "32R" {
		t.Errorf("Expected 32R, got %s", got)
	}

	row, col, dir, err := ParseMoveToken("45u")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if row != 4 || col != 5 || dir != Up {
		t.Errorf("Expected 4,5,up got %d,%d,%s", row, col, dir)
	}

	for _, bad := range []string{"", "32", "3XR", "32Q", "321R"} {
		if _, _, _, err := ParseMoveToken(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}

	moves, err := SplitWinSequence("15L32R")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(moves) != 2 || moves[0] != "15L" || moves[1] != "32R" {
		t.Errorf("Unexpected split %v", moves)
	}
	if _, err := SplitWinSequence("15L3"); err == nil {
		t.Error("Expected error for truncated sequence")
	}
}

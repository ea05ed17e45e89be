package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wricardo/roundup/game/engine"
	"github.com/wricardo/roundup/game/service"
)

var _ service.BoardCatalog = (*Manager)(nil)
var _ service.BoardCursor = (*Cursor)(nil)

func writeBoardsFile(t *testing.T, defs interface{}) string {
	t.Helper()
	data, err := json.MarshalIndent(defs, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal boards: %v", err)
	}
	path := filepath.Join(t.TempDir(), "boards.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write boards file: %v", err)
	}
	return path
}

func TestNewManager(t *testing.T) {
	manager := NewManager()

	if manager.Count() != 18 {
		t.Fatalf("Expected 18 built-in boards, got %d", manager.Count())
	}

	for _, board := range manager.ListBoards() {
		if !engine.IsValidBoard(board.Layout) {
			t.Errorf("Board %d has invalid layout %q", board.Number, board.Layout)
		}
		expected := string(DefaultDifficulties[board.Number-1])
		if board.Difficulty != expected {
			t.Errorf("Board %d: expected difficulty %s, got %s", board.Number, expected, board.Difficulty)
		}
		if board.Label == "" || board.Custom {
			t.Errorf("Board %d: unexpected label %q custom %v", board.Number, board.Label, board.Custom)
		}
	}

	if manager.GetDefault().Layout != "11 15 32R 34 51 55" {
		t.Errorf("Expected board 1 as default, got %q", manager.GetDefault().Layout)
	}
}

func TestManager_Board(t *testing.T) {
	manager := NewManager()

	t.Run("existing board", func(t *testing.T) {
		board, err := manager.Board(6)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if board.Layout != "21 22 13R 33 42 43" || board.Difficulty != "E" || board.Label != "Easy" {
			t.Errorf("Unexpected board 6: %+v", board)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		for _, n := range []int{0, -1, 19} {
			if _, err := manager.Board(n); !errors.Is(err, ErrBoardNotFound) {
				t.Errorf("Expected ErrBoardNotFound for %d, got %v", n, err)
			}
		}
	})

	t.Run("returns copies", func(t *testing.T) {
		board, _ := manager.Board(1)
		board.Layout = "changed"
		again, _ := manager.Board(1)
		if again.Layout == "changed" {
			t.Error("Expected catalog to be immutable through returned boards")
		}
	})
}

func TestNewManagerFromFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeBoardsFile(t, []BoardDefinition{
			{Layout: "11 15 32R 34 51 55", Difficulty: "e"},
			{Layout: "21  22 13R 33 42 43", Difficulty: "H"},
		})

		manager, err := NewManagerFromFile(path)
		if err != nil {
			t.Fatalf("Failed to load boards: %v", err)
		}
		if manager.Count() != 2 {
			t.Errorf("Expected 2 boards, got %d", manager.Count())
		}
		board, _ := manager.Board(2)
		if board.Layout != "21 22 13R 33 42 43" {
			t.Errorf("Expected normalized layout, got %q", board.Layout)
		}
		if board.Label != "Hard" {
			t.Errorf("Expected Hard label, got %s", board.Label)
		}
		if manager.Source() != path {
			t.Errorf("Expected source %s, got %s", path, manager.Source())
		}
	})

	t.Run("invalid layout", func(t *testing.T) {
		path := writeBoardsFile(t, []BoardDefinition{{Layout: "11 11 12 13 14 15R", Difficulty: "E"}})
		if _, err := NewManagerFromFile(path); !errors.Is(err, ErrInvalidBoard) {
			t.Errorf("Expected ErrInvalidBoard, got %v", err)
		}
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		path := writeBoardsFile(t, []BoardDefinition{{Layout: "11 15 32R 34 51 55", Difficulty: "X"}})
		if _, err := NewManagerFromFile(path); !errors.Is(err, ErrInvalidBoard) {
			t.Errorf("Expected ErrInvalidBoard, got %v", err)
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		path := writeBoardsFile(t, []BoardDefinition{})
		if _, err := NewManagerFromFile(path); err == nil {
			t.Error("Expected error for empty catalog")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := NewManagerFromFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte(`[{"layout": }]`), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if _, err := NewManagerFromFile(path); err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestCursor(t *testing.T) {
	manager := NewManager()

	t.Run("starts on board 1", func(t *testing.T) {
		cursor := manager.NewCursor()
		if cursor.Current().Number != 1 {
			t.Errorf("Expected board 1, got %d", cursor.Current().Number)
		}
	})

	t.Run("next wraps", func(t *testing.T) {
		cursor := manager.NewCursor()
		if _, err := cursor.Select(17); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if board := cursor.Next(); board.Number != 18 {
			t.Errorf("Expected board 18, got %d", board.Number)
		}
		if board := cursor.Next(); board.Number != 1 {
			t.Errorf("Expected wrap to board 1, got %d", board.Number)
		}
	})

	t.Run("select out of range keeps position", func(t *testing.T) {
		cursor := manager.NewCursor()
		cursor.Next()
		if _, err := cursor.Select(99); !errors.Is(err, ErrBoardNotFound) {
			t.Errorf("Expected ErrBoardNotFound, got %v", err)
		}
		if cursor.Current().Number != 2 {
			t.Errorf("Expected cursor to stay on board 2, got %d", cursor.Current().Number)
		}
	})

	t.Run("custom board", func(t *testing.T) {
		cursor := manager.NewCursor()
		board, err := cursor.SetCustom("31 32R 35 11 15 55")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if board.Number != CustomBoardNumber || board.Difficulty != " " || !board.Custom {
			t.Errorf("Unexpected custom board: %+v", board)
		}
		if board.Title() != "Roundup - board 0  " {
			t.Errorf("Unexpected title %q", board.Title())
		}
		if next := cursor.Next(); next.Number != 1 {
			t.Errorf("Expected next after custom to be board 1, got %d", next.Number)
		}
	})

	t.Run("invalid custom board", func(t *testing.T) {
		cursor := manager.NewCursor()
		cursor.Next()
		if _, err := cursor.SetCustom("11R 15 32R 34 51 55"); !errors.Is(err, engine.ErrInvalidConfiguration) {
			t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
		}
		if cursor.Current().Number != 2 {
			t.Errorf("Expected cursor to stay on board 2, got %d", cursor.Current().Number)
		}
	})
}

func TestDifficultyLabel(t *testing.T) {
	tests := map[string]string{"E": "Easy", "M": "Medium", "D": "Difficult", "H": "Hard", " ": "Custom", "Z": "Unknown"}
	for letter, expected := range tests {
		if got := DifficultyLabel(letter); got != expected {
			t.Errorf("DifficultyLabel(%q): expected %s, got %s", letter, expected, got)
		}
	}
}

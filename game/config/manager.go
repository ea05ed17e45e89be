package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/wricardo/roundup/game/engine"
	"github.com/wricardo/roundup/game/service"
)

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrInvalidBoard  = errors.New("invalid board")
)

// CustomBoardNumber is the catalog slot used for user supplied layouts
const CustomBoardNumber = 0

// DefaultDifficulties holds one difficulty letter per built-in board
const DefaultDifficulties = "EEMMEEMMMDHMDHHHEM"

var defaultLayouts = []string{
	"11 15 32R 34 51 55",
	"22R 14 31 42 44 55",
	"11 21 31R 51 15 45",
	"11 22R 31 35 51 54",
	"11 23 25 31 41R 44",
	"21 22 13R 33 42 43",
	"11 14R 31 33 34 44",
	"11 13R 15 21 45 51",
	"11 15 21 33 41R 44",
	"11 13 21 25R 31 54",
	"13 15 25R 31 44 52",
	"11 15 21 23R 45 51",
	"11 13 15 31 51 55R",
	"11R 15 41 44 53 54",
	"13 15 21R 25 52 55",
	"11R 25 41 51 54 55",
	"14 21R 34 41 45 52",
	"11 15 21 43R 45 51",
}

var difficultyLabels = map[string]string{
	"E": "Easy",
	"M": "Medium",
	"D": "Difficult",
	"H": "Hard",
	" ": "Custom",
}

// BoardDefinition is the JSON form of one catalog entry
type BoardDefinition struct {
	Layout     string `json:"layout"`
	Difficulty string `json:"difficulty"`
}

// Manager is the immutable catalog of predefined boards. Boards are
// numbered from 1; number 0 is reserved for custom layouts.
type Manager struct {
	boards []*service.BoardInfo
	source string
}

// NewManager creates a catalog holding the built-in boards
func NewManager() *Manager {
	defs := make([]BoardDefinition, len(defaultLayouts))
	for i, layout := range defaultLayouts {
		defs[i] = BoardDefinition{Layout: layout, Difficulty: string(DefaultDifficulties[i])}
	}
	m, err := NewManagerFromDefinitions(defs)
	if err != nil {
		// unreachable: every built-in layout is valid
		panic(err)
	}
	m.source = "builtin"
	return m
}

// NewManagerFromFile loads a catalog from a JSON array of board definitions
func NewManagerFromFile(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("boards file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to read boards file: %w", err)
	}

	var defs []BoardDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse boards file: %w", err)
	}

	m, err := NewManagerFromDefinitions(defs)
	if err != nil {
		return nil, err
	}
	m.source = path
	return m, nil
}

// NewManagerFromDefinitions validates every definition and builds a catalog
func NewManagerFromDefinitions(defs []BoardDefinition) (*Manager, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: catalog must contain at least one board", ErrInvalidBoard)
	}

	boards := make([]*service.BoardInfo, 0, len(defs))
	for i, def := range defs {
		number := i + 1
		if err := engine.ValidateBoard(def.Layout); err != nil {
			return nil, fmt.Errorf("%w: board %d: %v", ErrInvalidBoard, number, err)
		}
		difficulty := strings.ToUpper(strings.TrimSpace(def.Difficulty))
		label, ok := difficultyLabels[difficulty]
		if !ok || difficulty == "" {
			return nil, fmt.Errorf("%w: board %d: unknown difficulty %q", ErrInvalidBoard, number, def.Difficulty)
		}
		boards = append(boards, &service.BoardInfo{
			Number:     number,
			Layout:     normalizeLayout(def.Layout),
			Difficulty: difficulty,
			Label:      label,
		})
	}

	return &Manager{boards: boards, source: "definitions"}, nil
}

// Count returns the number of catalog boards
func (m *Manager) Count() int {
	return len(m.boards)
}

// Source describes where the catalog was loaded from
func (m *Manager) Source() string {
	return m.source
}

// Board returns catalog board number (1-based)
func (m *Manager) Board(number int) (*service.BoardInfo, error) {
	if number < 1 || number > len(m.boards) {
		return nil, fmt.Errorf("%w: %d (catalog has boards 1-%d)", ErrBoardNotFound, number, len(m.boards))
	}
	info := *m.boards[number-1]
	return &info, nil
}

// ListBoards returns information about every catalog board
func (m *Manager) ListBoards() []*service.BoardInfo {
	result := make([]*service.BoardInfo, 0, len(m.boards))
	for _, b := range m.boards {
		info := *b
		result = append(result, &info)
	}
	return result
}

// GetDefault returns the first catalog board
func (m *Manager) GetDefault() *service.BoardInfo {
	info := *m.boards[0]
	return &info
}

// NewCursor returns a cursor positioned on the first board
func (m *Manager) NewCursor() service.BoardCursor {
	return &Cursor{catalog: m, current: m.GetDefault()}
}

// CustomBoard validates a free-form layout and describes it as board 0
func CustomBoard(layout string) (*service.BoardInfo, error) {
	if err := engine.ValidateBoard(layout); err != nil {
		return nil, err
	}
	return &service.BoardInfo{
		Number:     CustomBoardNumber,
		Layout:     normalizeLayout(layout),
		Difficulty: " ",
		Label:      difficultyLabels[" "],
		Custom:     true,
	}, nil
}

// DifficultyLabel returns the display name for a difficulty letter
func DifficultyLabel(letter string) string {
	if label, ok := difficultyLabels[letter]; ok {
		return label
	}
	return "Unknown"
}

func normalizeLayout(layout string) string {
	return strings.Join(strings.Fields(layout), " ")
}

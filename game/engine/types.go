package engine

import (
	"fmt"
	"strings"
)

// CellState represents the contents of a single grid cell
type CellState int

const (
	Empty CellState = iota
	GoalPiece
	Piece
	Trail
)

const (
	// Reference puzzle dimensions: a 5x5 interior ringed by a one-cell border
	GridSize        = 7
	InteriorMin     = 1
	InteriorMax     = GridSize - 2
	Center          = GridSize / 2
	BoardTokenCount = GridSize - 1

	GoalMarker = 'R'

	// ElapsedTimePlaceholder is passed to the leaderboard in place of a real timer
	ElapsedTimePlaceholder = "0:00:00"
)

var cellStateNames = map[CellState]string{
	Empty:     "empty",
	GoalPiece: "goal",
	Piece:     "piece",
	Trail:     "trail",
}

func (c CellState) String() string {
	if name, ok := cellStateNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CellState(%d)", int(c))
}

// IsPiece reports whether the cell holds either kind of piece
func (c CellState) IsPiece() bool {
	return c == GoalPiece || c == Piece
}

// MarshalText implements encoding.TextMarshaler so grids serialize as names
func (c CellState) MarshalText() ([]byte, error) {
	name, ok := cellStateNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown cell state %d", int(c))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *CellState) UnmarshalText(text []byte) error {
	for state, name := range cellStateNames {
		if name == string(text) {
			*c = state
			return nil
		}
	}
	return fmt.Errorf("unknown cell state %q", string(text))
}

// Direction is one of the four sliding directions
type Direction int

const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the four movable directions in a stable order
var Directions = []Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Letter returns the single-letter form used in move log tokens
func (d Direction) Letter() string {
	switch d {
	case Up:
		return "U"
	case Down:
		return "D"
	case Left:
		return "L"
	case Right:
		return "R"
	default:
		return ""
	}
}

// Delta returns the row and column step for one cell of travel
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return NoDirection
	}
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	if string(text) == "none" || len(text) == 0 {
		*d = NoDirection
		return nil
	}
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts the word ("up") or letter ("U") form, case-insensitively
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	default:
		return NoDirection, fmt.Errorf("invalid direction %q: must be up, down, left or right", s)
	}
}

// Position represents row,col matrix coordinates
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoPosition marks the absence of a last-moved cell
var NoPosition = Position{Row: -1, Col: -1}

// IsNone reports whether p is the NoPosition sentinel
func (p Position) IsNone() bool {
	return p == NoPosition
}

// Step returns the neighbouring position in direction d
func (p Position) Step(d Direction) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Placement is a single piece parsed from a board configuration string
type Placement struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Goal bool `json:"goal"`
}

// Status is the session state machine
type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

// EventType identifies what triggered a notification
type EventType string

const (
	EventNewGame EventType = "new_game"
	EventMove    EventType = "move"
)

// GameState is a read-only snapshot of a session
type GameState struct {
	Grid          [][]CellState `json:"grid"`
	Board         string        `json:"board"`
	Status        Status        `json:"status"`
	Won           bool          `json:"won"`
	Lost          bool          `json:"lost"`
	MoveCount     int           `json:"move_count"`
	Moves         []string      `json:"moves"`
	WinSequence   string        `json:"win_sequence"`
	LastMoved     Position      `json:"last_moved"`
	LastDirection Direction     `json:"last_direction"`
}

// MoveResult describes how a single move request was resolved
type MoveResult struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Direction Direction `json:"direction"`
	Piece     CellState `json:"piece"`
	Distance  int       `json:"distance"`
	FellOff   bool      `json:"fell_off"`
	Won       bool      `json:"won"`
	Entry     string    `json:"entry,omitempty"`
	// Ignored is set when the session was already won or lost
	Ignored bool `json:"ignored,omitempty"`
}

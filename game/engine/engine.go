package engine

import (
	"fmt"
	"strings"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game lifecycle
	NewGame(board string) error
	Restart() error
	Validate(board string) bool

	// Movement
	Move(row, col int, dir Direction) (*MoveResult, error)
	PossibleMoves() []MoveOption

	// State
	GetState() *GameState
	Status() Status
	IsWon() bool
	IsLost() bool
	IsGameOver() bool
	MoveCount() int
	MoveLog() []string
	WinSequence() string
	Board() string
	Cell(row, col int) (CellState, error)
	Cells() [][]CellState
	LastMoved() (Position, Direction)
	ConsumeLastMoved() (Position, Direction)

	// Notifications
	Subscribe(o Observer) Subscription
	Unsubscribe(s Subscription) bool
}

// MoveOption is a piece and a direction it can slide in
type MoveOption struct {
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
}

// GameEngine is a single game session. It owns its grid and counters and
// is not safe for concurrent use; callers serialize access.
type GameEngine struct {
	grid     *Grid
	board    string
	moveLog  []string
	won      bool
	lost     bool
	lastPos  Position
	lastDir  Direction
	notifier notifier
}

// NewEngine creates a session with an empty reference-sized grid. Call
// NewGame to place pieces.
func NewEngine() *GameEngine {
	return &GameEngine{
		grid:    NewGrid(GridSize, GridSize),
		lastPos: NoPosition,
	}
}

// NewEngineWithBoard creates a session and starts a game on board
func NewEngineWithBoard(board string) (*GameEngine, error) {
	e := NewEngine()
	if err := e.NewGame(board); err != nil {
		return nil, err
	}
	return e, nil
}

// NewGame validates board and, if it is accepted, resets the session onto
// it. A rejected board leaves the session untouched.
func (e *GameEngine) NewGame(board string) error {
	placements, err := ParseBoard(board)
	if err != nil {
		return err
	}

	e.grid.Clear()
	for _, p := range placements {
		state := Piece
		if p.Goal {
			state = GoalPiece
		}
		if err := e.grid.Set(p.Row, p.Col, state); err != nil {
			return err
		}
	}

	e.board = strings.Join(Tokenize(board), " ")
	e.moveLog = nil
	e.won = false
	e.lost = false
	e.lastPos = NoPosition
	e.lastDir = NoDirection

	e.notifier.notify(Notification{Event: EventNewGame, State: e.GetState()})
	return nil
}

// Restart replays NewGame with the board currently in play
func (e *GameEngine) Restart() error {
	if e.board == "" {
		return fmt.Errorf("%w: no board in play", ErrInvalidConfiguration)
	}
	return e.NewGame(e.board)
}

// Validate reports whether board would be accepted by NewGame
func (e *GameEngine) Validate(board string) bool {
	return IsValidBoard(board)
}

// Move slides the piece at row,col in direction dir. Once the session is
// won or lost every request is ignored. Requests on empty cells or blocked
// pieces still count as moves.
func (e *GameEngine) Move(row, col int, dir Direction) (*MoveResult, error) {
	if !e.grid.InBounds(row, col) {
		return nil, fmt.Errorf("%w: move from (%d,%d)", ErrOutOfRange, row, col)
	}
	if dir == NoDirection {
		return nil, fmt.Errorf("move from (%d,%d): direction is required", row, col)
	}

	from := Position{Row: row, Col: col}
	if e.IsGameOver() {
		return &MoveResult{From: from, To: from, Direction: dir, Ignored: true}, nil
	}

	ClearTrails(e.grid)
	slide, err := Slide(e.grid, from, dir)
	if err != nil {
		return nil, err
	}

	entry := FormatMoveToken(row, col, dir)
	e.moveLog = append(e.moveLog, entry)
	e.lastPos = slide.To
	e.lastDir = dir

	if slide.Piece.IsPiece() && slide.FellOff {
		e.lost = true
	}
	if slide.Piece == GoalPiece && slide.To.Row == Center && slide.To.Col == Center && !e.lost {
		e.won = true
	}

	result := &MoveResult{
		From:      slide.From,
		To:        slide.To,
		Direction: dir,
		Piece:     slide.Piece,
		Distance:  slide.Distance,
		FellOff:   slide.FellOff,
		Won:       e.won,
		Entry:     entry,
	}

	e.notifier.notify(Notification{Event: EventMove, State: e.GetState(), Move: result})
	return result, nil
}

// PossibleMoves lists every piece and direction that would travel at least
// one cell. It is empty once the game is over.
func (e *GameEngine) PossibleMoves() []MoveOption {
	if e.IsGameOver() {
		return nil
	}
	var options []MoveOption
	for r := InteriorMin; r <= InteriorMax; r++ {
		for c := InteriorMin; c <= InteriorMax; c++ {
			pos := Position{Row: r, Col: c}
			for _, dir := range Directions {
				if CanSlide(e.grid, pos, dir) {
					options = append(options, MoveOption{Position: pos, Direction: dir})
				}
			}
		}
	}
	return options
}

// GetState returns a snapshot of the session
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		Grid:          e.grid.Cells(),
		Board:         e.board,
		Status:        e.Status(),
		Won:           e.won,
		Lost:          e.lost,
		MoveCount:     len(e.moveLog),
		Moves:         e.MoveLog(),
		WinSequence:   e.WinSequence(),
		LastMoved:     e.lastPos,
		LastDirection: e.lastDir,
	}
}

// Status returns the state machine position
func (e *GameEngine) Status() Status {
	switch {
	case e.won:
		return StatusWon
	case e.lost:
		return StatusLost
	default:
		return StatusActive
	}
}

// IsWon returns whether the goal piece reached the center
func (e *GameEngine) IsWon() bool {
	return e.won
}

// IsLost returns whether a piece fell off the playable area
func (e *GameEngine) IsLost() bool {
	return e.lost
}

// IsGameOver returns whether the session is terminal
func (e *GameEngine) IsGameOver() bool {
	return e.won || e.lost
}

// MoveCount returns the number of resolved moves since the last new game
func (e *GameEngine) MoveCount() int {
	return len(e.moveLog)
}

// MoveLog returns a copy of the move log
func (e *GameEngine) MoveLog() []string {
	out := make([]string, len(e.moveLog))
	copy(out, e.moveLog)
	return out
}

// WinSequence returns the move log concatenated into a single string
func (e *GameEngine) WinSequence() string {
	return strings.Join(e.moveLog, "")
}

// Board returns the normalized board string in play
func (e *GameEngine) Board() string {
	return e.board
}

// Cell returns the state of one cell
func (e *GameEngine) Cell(row, col int) (CellState, error) {
	return e.grid.Get(row, col)
}

// Cells returns a copy of the grid contents
func (e *GameEngine) Cells() [][]CellState {
	return e.grid.Cells()
}

// Grid returns an independent copy of the grid
func (e *GameEngine) Grid() *Grid {
	return e.grid.Clone()
}

// LastMoved returns where the last moved piece came to rest and its direction
func (e *GameEngine) LastMoved() (Position, Direction) {
	return e.lastPos, e.lastDir
}

// ConsumeLastMoved returns the last-moved data and resets it to none
func (e *GameEngine) ConsumeLastMoved() (Position, Direction) {
	pos, dir := e.lastPos, e.lastDir
	e.lastPos = NoPosition
	e.lastDir = NoDirection
	return pos, dir
}

// Subscribe registers an observer; notifications are delivered in
// registration order before the triggering call returns
func (e *GameEngine) Subscribe(o Observer) Subscription {
	return e.notifier.subscribe(o)
}

// Unsubscribe removes a previously registered observer
func (e *GameEngine) Unsubscribe(s Subscription) bool {
	return e.notifier.unsubscribe(s)
}

// SubscriberCount returns the number of registered observers
func (e *GameEngine) SubscriberCount() int {
	return e.notifier.count()
}

// BulkMove applies moves in order, stopping once the game is over
func (e *GameEngine) BulkMove(moves []string) ([]*MoveResult, error) {
	results := make([]*MoveResult, 0, len(moves))
	for _, token := range moves {
		if e.IsGameOver() {
			break
		}
		row, col, dir, err := ParseMoveToken(token)
		if err != nil {
			return results, err
		}
		result, err := e.Move(row, col, dir)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

package solver

import (
	"errors"
	"fmt"

	"github.com/wricardo/roundup/game/engine"
)

var (
	ErrUnsolvable  = errors.New("no winning sequence exists")
	ErrSearchLimit = errors.New("search limit reached before a solution was found")
)

const (
	DefaultMaxDepth  = 20
	DefaultMaxStates = 500000
)

// Options bounds the search
type Options struct {
	MaxDepth  int
	MaxStates int
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxStates <= 0 {
		o.MaxStates = DefaultMaxStates
	}
	return o
}

// Solution is a shortest winning move sequence
type Solution struct {
	Moves    []string `json:"moves"`
	Explored int      `json:"explored"`
}

// Length returns the number of moves in the solution
func (s *Solution) Length() int {
	return len(s.Moves)
}

// SolveBoard searches from the initial position of a board string
func SolveBoard(board string, opts Options) (*Solution, error) {
	placements, err := engine.ParseBoard(board)
	if err != nil {
		return nil, err
	}
	grid := engine.NewGrid(engine.GridSize, engine.GridSize)
	for _, p := range placements {
		state := engine.Piece
		if p.Goal {
			state = engine.GoalPiece
		}
		if err := grid.Set(p.Row, p.Col, state); err != nil {
			return nil, err
		}
	}
	return Solve(grid, opts)
}

// Solve runs a breadth-first search over piece layouts and returns the
// shortest sequence of moves that brings the goal piece to rest on the
// center without any piece reaching the border. Moves that travel zero
// cells are never part of a solution.
func Solve(grid *engine.Grid, opts Options) (*Solution, error) {
	opts = opts.withDefaults()
	if _, ok := grid.Find(engine.GoalPiece); !ok {
		return nil, fmt.Errorf("%w: no goal piece on the grid", ErrUnsolvable)
	}

	type queueItem struct {
		grid *engine.Grid
		path []string
	}

	start := grid.Clone()
	engine.ClearTrails(start)

	queue := []queueItem{{grid: start, path: []string{}}}
	visited := map[string]bool{stateKey(start): true}
	explored := 0
	truncated := false

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		explored++

		if explored > opts.MaxStates {
			return nil, fmt.Errorf("%w: explored %d states", ErrSearchLimit, opts.MaxStates)
		}

		for _, move := range candidateMoves(current.grid) {
			next := current.grid.Clone()
			slide, err := engine.Slide(next, move.Position, move.Direction)
			if err != nil {
				return nil, err
			}
			if slide.FellOff {
				continue
			}
			engine.ClearTrails(next)

			token := engine.FormatMoveToken(move.Position.Row, move.Position.Col, move.Direction)
			path := append(append([]string{}, current.path...), token)

			if slide.Piece == engine.GoalPiece && slide.To.Row == engine.Center && slide.To.Col == engine.Center {
				return &Solution{Moves: path, Explored: explored}, nil
			}

			key := stateKey(next)
			if visited[key] {
				continue
			}
			if len(path) >= opts.MaxDepth {
				truncated = true
				continue
			}
			visited[key] = true
			queue = append(queue, queueItem{grid: next, path: path})
		}
	}

	if truncated {
		return nil, fmt.Errorf("%w: no solution within %d moves", ErrSearchLimit, opts.MaxDepth)
	}
	return nil, ErrUnsolvable
}

func candidateMoves(grid *engine.Grid) []engine.MoveOption {
	var moves []engine.MoveOption
	for r := 0; r < grid.Rows(); r++ {
		for c := 0; c < grid.Cols(); c++ {
			pos := engine.Position{Row: r, Col: c}
			for _, dir := range engine.Directions {
				if engine.CanSlide(grid, pos, dir) {
					moves = append(moves, engine.MoveOption{Position: pos, Direction: dir})
				}
			}
		}
	}
	return moves
}

func stateKey(grid *engine.Grid) string {
	cells := grid.Cells()
	key := make([]byte, 0, grid.Rows()*grid.Cols())
	for _, row := range cells {
		for _, cell := range row {
			if cell == engine.Trail {
				cell = engine.Empty
			}
			key = append(key, byte('0'+int(cell)))
		}
	}
	return string(key)
}

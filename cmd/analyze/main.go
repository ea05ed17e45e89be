// Command analyze prints quick, human-readable heuristics about a board
// catalog. For every board it summarizes the piece count, where the goal
// piece starts relative to the center, how many opening moves keep every
// piece on the board and the length of the shortest winning sequence.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/roundup/game/config"
	"github.com/wricardo/roundup/game/engine"
	"github.com/wricardo/roundup/game/service"
	"github.com/wricardo/roundup/game/solver"
)

// BoardAnalysis holds the heuristics computed for one board
type BoardAnalysis struct {
	Board          *service.BoardInfo
	Pieces         int
	Goal           engine.Position
	CenterDistance int
	SafeOpenings   int
	Solution       *solver.Solution
	SolveErr       error
}

func analyzeBoard(board *service.BoardInfo, opts solver.Options) (*BoardAnalysis, error) {
	e, err := engine.NewEngineWithBoard(board.Layout)
	if err != nil {
		return nil, err
	}

	cells := e.Cells()
	goal, _ := engine.FindGoalPiece(cells)
	analysis := &BoardAnalysis{
		Board:          board,
		Pieces:         engine.CountCellState(cells, engine.Piece) + engine.CountCellState(cells, engine.GoalPiece),
		Goal:           goal,
		CenterDistance: engine.ManhattanDistance(goal, engine.Position{Row: engine.Center, Col: engine.Center}),
	}

	grid := e.Grid()
	for _, option := range e.PossibleMoves() {
		slide, err := engine.Slide(grid.Clone(), option.Position, option.Direction)
		if err != nil {
			return nil, err
		}
		if !slide.FellOff {
			analysis.SafeOpenings++
		}
	}

	analysis.Solution, analysis.SolveErr = solver.Solve(grid, opts)
	return analysis, nil
}

func printAnalysis(w io.Writer, a *BoardAnalysis) {
	fmt.Fprintf(w, "\n=== Board %d (%s) ===\n", a.Board.Number, a.Board.Label)
	fmt.Fprintf(w, "Layout: %s\n", a.Board.Layout)
	fmt.Fprintf(w, "Pieces: %d\n", a.Pieces)
	fmt.Fprintf(w, "Goal Piece: %s, %d from center\n", a.Goal, a.CenterDistance)
	fmt.Fprintf(w, "Safe Opening Moves: %d\n", a.SafeOpenings)

	switch {
	case a.SolveErr == nil:
		fmt.Fprintf(w, "✅ Optimal solution: %d moves (%s), %d states explored\n",
			a.Solution.Length(), strings.Join(a.Solution.Moves, " "), a.Solution.Explored)
	case errors.Is(a.SolveErr, solver.ErrSearchLimit):
		fmt.Fprintf(w, "⚠️  WARNING: search gave up: %v\n", a.SolveErr)
	default:
		fmt.Fprintf(w, "⚠️  CRITICAL: board is unsolvable\n")
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "print heuristics and optimal solutions for a board catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "boards JSON file (defaults to the built-in catalog)",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Value: solver.DefaultMaxDepth,
				Usage: "longest solution to search for",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			catalog := config.NewManager()
			if path := cmd.String("file"); path != "" {
				var err error
				if catalog, err = config.NewManagerFromFile(path); err != nil {
					return err
				}
			}

			w := cmd.Root().Writer
			opts := solver.Options{MaxDepth: int(cmd.Int("max-depth"))}
			unsolved := 0
			for _, board := range catalog.ListBoards() {
				analysis, err := analyzeBoard(board, opts)
				if err != nil {
					return fmt.Errorf("board %d: %w", board.Number, err)
				}
				printAnalysis(w, analysis)
				if analysis.SolveErr != nil {
					unsolved++
				}
			}

			fmt.Fprintf(w, "\nAnalyzed %d boards from %s, %d without a solution\n", catalog.Count(), catalog.Source(), unsolved)
			return nil
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command validate checks Roundup board layouts. With no arguments it checks
// the built-in catalog; --file checks a boards JSON file and any positional
// arguments are checked as single layouts. Each board is tested against:
//   - Token count (six pieces)
//   - Token length and goal marker placement
//   - Exactly one goal piece
//   - Interior coordinates (1-5) without duplicates
//   - Optionally (--solve), that a winning sequence exists
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/roundup/game/config"
	"github.com/wricardo/roundup/game/engine"
	"github.com/wricardo/roundup/game/solver"
)

// ValidationResult captures the outcome of validating a single board.
// If Valid is true, Messages contains informational lines; otherwise it
// accumulates the problems that were found.
type ValidationResult struct {
	Name     string
	Valid    bool
	Messages []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// validateLayout runs every board rule over layout
func validateLayout(name, layout string, solve bool) ValidationResult {
	result := ValidationResult{
		Name:     name,
		Valid:    true,
		Messages: []string{},
	}

	tokens := engine.Tokenize(layout)
	for _, rule := range engine.BoardRules {
		if !rule.Check(tokens) {
			result.fail("Rule failed: %s", rule.Name)
		}
	}
	if !result.Valid {
		return result
	}

	placements, err := engine.ParseBoard(layout)
	if err != nil {
		result.fail("Parse failed: %v", err)
		return result
	}

	result.Messages = append(result.Messages, fmt.Sprintf("✓ Layout: %s", engine.FormatBoard(placements)))
	for _, p := range placements {
		if p.Goal {
			result.Messages = append(result.Messages, fmt.Sprintf("✓ Goal piece: (%d,%d)", p.Row, p.Col))
		}
	}
	result.Messages = append(result.Messages, fmt.Sprintf("✓ Pieces: %d", len(placements)))

	if solve {
		solution, err := solver.SolveBoard(layout, solver.Options{})
		if err != nil {
			result.fail("Unsolvable: %v", err)
			return result
		}
		result.Messages = append(result.Messages, fmt.Sprintf("✓ Solvable in %d moves: %s",
			solution.Length(), strings.Join(solution.Moves, "")))
	}

	return result
}

// checkDifficulty requires one of the catalog difficulty letters
func checkDifficulty(result *ValidationResult, difficulty string) {
	letter := strings.ToUpper(strings.TrimSpace(difficulty))
	label := config.DifficultyLabel(letter)
	if letter == "" || label == "Unknown" || label == "Custom" {
		result.fail("Unknown difficulty %q (expected E, M, D or H)", difficulty)
		return
	}
	if result.Valid {
		result.Messages = append(result.Messages, fmt.Sprintf("✓ Difficulty: %s", label))
	}
}

// validateFile loads a JSON array of board definitions and validates each
// entry. Read and parse failures are reported as a single invalid result.
func validateFile(filePath string, solve bool) []ValidationResult {
	base := filepath.Base(filePath)
	fileError := func(format string, args ...interface{}) []ValidationResult {
		result := ValidationResult{Name: base, Valid: true}
		result.fail(format, args...)
		return []ValidationResult{result}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fileError("Failed to read file: %v", err)
	}

	var defs []config.BoardDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return fileError("Invalid JSON: %v", err)
	}
	if len(defs) == 0 {
		return fileError("Catalog is empty")
	}

	results := make([]ValidationResult, 0, len(defs))
	for i, def := range defs {
		result := validateLayout(fmt.Sprintf("%s board %d", base, i+1), def.Layout, solve)
		checkDifficulty(&result, def.Difficulty)
		results = append(results, result)
	}
	return results
}

// catalogResults validates the built-in boards
func catalogResults(solve bool) []ValidationResult {
	boards := config.NewManager().ListBoards()
	results := make([]ValidationResult, 0, len(boards))
	for _, board := range boards {
		result := validateLayout(fmt.Sprintf("builtin board %d", board.Number), board.Layout, solve)
		checkDifficulty(&result, board.Difficulty)
		results = append(results, result)
	}
	return results
}

// report prints a concise summary and returns whether every board is valid
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.Name)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Messages {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Messages {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All boards are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some boards have errors")
	}
	return allValid
}

var errSomeInvalid = errors.New("validation failed")

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check Roundup board layouts",
		ArgsUsage: "[layout ...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "boards JSON file to check (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "solve",
				Usage: "also require a winning sequence for every board",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			solve := cmd.Bool("solve")

			var results []ValidationResult
			for _, file := range cmd.StringSlice("file") {
				results = append(results, validateFile(file, solve)...)
			}
			for i, layout := range cmd.Args().Slice() {
				results = append(results, validateLayout(fmt.Sprintf("argument %d", i+1), layout, solve))
			}
			if len(results) == 0 {
				results = catalogResults(solve)
			}

			if !report(cmd.Root().Writer, results) {
				return errSomeInvalid
			}
			return nil
		},
	}
}

// main validates the requested boards, exiting with non-zero status if any
// are invalid.
func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

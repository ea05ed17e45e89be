// Package solver finds shortest winning move sequences for Roundup boards.
//
// The search is breadth-first over piece layouts, so the first solution
// found uses the fewest moves. Moves that would put a piece on the border
// are pruned, as are moves that travel zero cells.
//
//	solution, err := solver.SolveBoard("11 15 32R 34 51 55", solver.Options{})
//	// solution.Moves == []string{"32R"}
package solver

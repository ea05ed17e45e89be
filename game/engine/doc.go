// Package engine provides the core game logic for Roundup.
//
// The engine package implements the game mechanics including:
//   - A fixed-size grid of cell states with bounds checking
//   - Board configuration parsing and validation
//   - Sliding movement with trails, collisions and the border ring
//   - Win and loss detection
//   - Synchronous change notifications for front ends
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. Grid holds cell states, GameState is a
// snapshot handed to observers, and Placement is one parsed piece.
//
// Usage:
//
//	game, err := engine.NewEngineWithBoard("11 15 32R 34 51 55")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game.Subscribe(engine.ObserverFunc(func(n engine.Notification) {
//		fmt.Println(n.State.Status, n.State.MoveCount)
//	}))
//
//	// Slide the goal piece right
//	result, err := game.Move(3, 2, engine.Right)
//
// Game Rules:
//
// Pieces sit on a 5x5 interior surrounded by a one-cell border. A moved
// piece slides until the next cell is occupied, leaving a trail behind it.
// The game is won when the goal piece comes to rest on the center cell and
// lost when any piece slides onto the border. A board string lists six
// tokens of the form "rc", with exactly one "rcR" marking the goal piece.
package engine

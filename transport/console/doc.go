// Package console provides the text front end for Roundup.
//
// The console reads one command per line:
//   - "<row><col><U|D|L|R>" slides the piece at that interior cell, e.g. "32R"
//   - "y" saves a just-won game to the hall of fame
//   - 0 clears the hall of fame, 1 restarts, 2 advances to the next board,
//     3 selects a board (number on the next line), 4 sets a custom board
//     (layout on the next line), 5 prints the hall of fame, 6 prints the
//     about text and 7 quits
//
// The console subscribes to its session through the game service, so moves
// made by other front ends on the same session are rendered too. Pieces are
// drawn as "*" for the goal piece, "o" inside the board, "X" once fallen
// onto the border and "." for the trail of the last move.
package console

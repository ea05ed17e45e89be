// Package config provides the board catalog for Roundup.
//
// The config package handles:
//   - The 18 built-in puzzles and their difficulty letters
//   - Loading an alternative catalog from a JSON file
//   - Per-session cursors for selecting, advancing and customizing boards
//
// Catalog Format:
//
// A boards file is a JSON array of definitions:
//
//	[
//	  {"layout": "11 15 32R 34 51 55", "difficulty": "E"},
//	  {"layout": "22R 14 31 42 44 55", "difficulty": "M"}
//	]
//
// Difficulty letters are E (Easy), M (Medium), D (Difficult) and H (Hard).
// Every layout is validated when the catalog is built; a single bad entry
// rejects the whole file.
//
// Usage:
//
//	catalog := config.NewManager()
//	cursor := catalog.NewCursor()
//
//	board := cursor.Next()              // board 2
//	board, err := cursor.Select(18)     // last board
//	board = cursor.Next()               // wraps to board 1
//	board, err = cursor.SetCustom("11 15 32R 34 51 55") // board 0
package config

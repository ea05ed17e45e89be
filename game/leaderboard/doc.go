// Package leaderboard stores solved games (the hall of fame).
//
// Each record is rendered as a single space-separated line:
//
//	board difficulty elapsedTime moves winSequence
//	3 M 0:00:00 4 32R14L41U22D
//
// Custom boards are number 0 and carry a blank difficulty, so the line
// holds a run of spaces and splits into four fields when read back.
//
// Two backends implement Store: FileStore appends lines to a text file and
// re-reads it on open, SQLiteStore keeps the same records in SQLite.
package leaderboard

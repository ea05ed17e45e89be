package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedRecord = errors.New("malformed leaderboard record")
	ErrUnknownBackend  = errors.New("unknown leaderboard backend")
)

// BlankDifficulty is written for custom boards, which have no difficulty
const BlankDifficulty = " "

// Record is one solved game
type Record struct {
	ID          string    `json:"id,omitempty"`
	Board       int       `json:"board"`
	Difficulty  string    `json:"difficulty"`
	ElapsedTime string    `json:"elapsed_time"`
	Moves       int       `json:"moves"`
	WinSequence string    `json:"win_sequence"`
	SavedAt     time.Time `json:"saved_at,omitempty"`
}

// Store is a durable, append-only list of records
type Store interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) error
	Close() error
}

// Open returns the store for backend ("file" or "sqlite") at path
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "file":
		store, err := OpenFileStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "sqlite":
		store, err := OpenSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Validate checks the fields a record line needs
func (r Record) Validate() error {
	if r.Board < 0 {
		return fmt.Errorf("%w: negative board number %d", ErrMalformedRecord, r.Board)
	}
	if len(r.Difficulty) != 1 {
		return fmt.Errorf("%w: difficulty must be a single character, got %q", ErrMalformedRecord, r.Difficulty)
	}
	if r.ElapsedTime == "" || strings.ContainsAny(r.ElapsedTime, " \t\n") {
		return fmt.Errorf("%w: invalid elapsed time %q", ErrMalformedRecord, r.ElapsedTime)
	}
	if r.Moves < 0 {
		return fmt.Errorf("%w: negative move count %d", ErrMalformedRecord, r.Moves)
	}
	if r.WinSequence == "" || strings.ContainsAny(r.WinSequence, " \t\n") {
		return fmt.Errorf("%w: invalid win sequence %q", ErrMalformedRecord, r.WinSequence)
	}
	return nil
}

// Line renders the record as "board difficulty time moves sequence"
func (r Record) Line() string {
	difficulty := r.Difficulty
	if difficulty == "" {
		difficulty = BlankDifficulty
	}
	return fmt.Sprintf("%d %s %s %d %s", r.Board, difficulty, r.ElapsedTime, r.Moves, r.WinSequence)
}

// ParseRecord parses a stored line. Custom boards carry a blank difficulty,
// so their lines split into four fields instead of five.
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)

	var rec Record
	var boardField, movesField string
	switch len(fields) {
	case 5:
		boardField = fields[0]
		rec.Difficulty = fields[1]
		rec.ElapsedTime = fields[2]
		movesField = fields[3]
		rec.WinSequence = fields[4]
	case 4:
		boardField = fields[0]
		rec.Difficulty = BlankDifficulty
		rec.ElapsedTime = fields[1]
		movesField = fields[2]
		rec.WinSequence = fields[3]
	default:
		return Record{}, fmt.Errorf("%w: expected 4 or 5 fields, got %d in %q", ErrMalformedRecord, len(fields), line)
	}

	board, err := strconv.Atoi(boardField)
	if err != nil {
		return Record{}, fmt.Errorf("%w: board %q: %v", ErrMalformedRecord, boardField, err)
	}
	moves, err := strconv.Atoi(movesField)
	if err != nil {
		return Record{}, fmt.Errorf("%w: moves %q: %v", ErrMalformedRecord, movesField, err)
	}
	rec.Board = board
	rec.Moves = moves

	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

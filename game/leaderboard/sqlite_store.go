package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id           TEXT PRIMARY KEY,
	board        INTEGER NOT NULL,
	difficulty   TEXT NOT NULL,
	elapsed_time TEXT NOT NULL,
	moves        INTEGER NOT NULL,
	win_sequence TEXT NOT NULL,
	saved_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS records_saved_at ON records (saved_at);
`

// SQLiteStore persists records in a SQLite database
type SQLiteStore struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLiteStore opens (or creates) the database at path and applies the schema
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Append inserts one record, assigning an ID and timestamp when missing
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if rec.Difficulty == "" {
		rec.Difficulty = BlankDifficulty
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO records (id, board, difficulty, elapsed_time, moves, win_sequence, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Board,
		rec.Difficulty,
		rec.ElapsedTime,
		rec.Moves,
		rec.WinSequence,
		toMillis(rec.SavedAt),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// List returns every record in insertion order
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, board, difficulty, elapsed_time, moves, win_sequence, saved_at
		 FROM records
		 ORDER BY saved_at ASC, rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var savedAt int64
		if err := rows.Scan(&rec.ID, &rec.Board, &rec.Difficulty, &rec.ElapsedTime, &rec.Moves, &rec.WinSequence, &savedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.SavedAt = fromMillis(savedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Clear deletes every record
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	return nil
}

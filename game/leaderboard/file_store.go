package leaderboard

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultPath is where the text leaderboard lives unless configured
var DefaultPath = filepath.Join("roundup", "halloffame.ser")

// FileStore keeps records as one line each in an append-only text file
type FileStore struct {
	path    string
	records []Record
	mu      sync.Mutex
}

// OpenFileStore loads existing records from path, creating the file and its
// directory when missing. Malformed lines are skipped.
func OpenFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	path = filepath.Clean(path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create leaderboard directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open leaderboard file: %w", err)
	}
	defer f.Close()

	s := &FileStore{path: path}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Int("line", lineNo).Msg("skipping leaderboard record")
			continue
		}
		s.records = append(s.records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard file: %w", err)
	}

	log.Debug().Str("path", path).Int("records", len(s.records)).Msg("leaderboard loaded")
	return s, nil
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Append writes one record to the end of the file
func (s *FileStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.Difficulty == "" {
		rec.Difficulty = BlankDifficulty
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create leaderboard directory: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open leaderboard file: %w", err)
	}
	if _, err := f.WriteString(rec.Line() + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to append leaderboard record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close leaderboard file: %w", err)
	}

	s.records = append(s.records, rec)
	return nil
}

// List returns every record in insertion order
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Clear deletes the file and forgets every record
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete leaderboard file: %w", err)
	}
	s.records = nil
	return nil
}

// Close is a no-op; the file is only held open while writing
func (s *FileStore) Close() error {
	return nil
}

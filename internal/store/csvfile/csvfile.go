// Package csvfile implements the row store on a local CSV file, for dev
// runs and environments without Sheets access.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/crimson-sun/tally/internal/store"
)

func init() {
	store.Register("csv", func(_ context.Context, cfg store.Config) (store.Store, error) {
		return Open(cfg.Path)
	})
}

// Store keeps rows in a CSV file. Appends go straight to the end of the
// file; inserts rewrite it (they only ever happen once, for the header).
type Store struct {
	mu   sync.Mutex
	path string
}

// Open creates the file if it does not exist yet.
func Open(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("csv store: open %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("csv store: open %s: %w", path, err)
	}
	return &Store{path: path}, nil
}

func (s *Store) ReadAllRows(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *Store) InsertRowAt(_ context.Context, position int, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readAll()
	if err != nil {
		return err
	}

	idx := position - 1
	if idx < 0 || idx > len(rows) {
		return fmt.Errorf("csv store: insert position %d out of range (have %d rows)", position, len(rows))
	}

	rows = append(rows[:idx], append([][]string{row}, rows[idx:]...)...)
	return s.rewrite(rows)
}

func (s *Store) AppendRows(_ context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("csv store: append: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("csv store: append: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv store: append: %w", err)
	}
	return nil
}

func (s *Store) readAll() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv store: read %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv store: read %s: %w", s.path, err)
	}
	return rows, nil
}

// rewrite replaces the file contents via a temp file and rename, so a
// failed insert never leaves a half-written store behind.
func (s *Store) rewrite(rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tally-csv-*")
	if err != nil {
		return fmt.Errorf("csv store: rewrite: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("csv store: rewrite: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csv store: rewrite: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("csv store: rewrite: %w", err)
	}
	return nil
}

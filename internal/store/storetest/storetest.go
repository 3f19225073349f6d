// Package storetest provides an in-memory Store for tests.
package storetest

import (
	"context"
	"fmt"
)

// Mem is an in-memory row store with optional failure injection.
type Mem struct {
	Rows [][]string

	// Calls counts operations by name (ReadAllRows, InsertRowAt, AppendRows).
	Calls map[string]int

	// FailOn makes the named operation return an error.
	FailOn string
}

// New returns an empty in-memory store.
func New() *Mem {
	return &Mem{Calls: map[string]int{}}
}

func (m *Mem) fail(op string) error {
	m.Calls[op]++
	if m.FailOn == op {
		return fmt.Errorf("storetest: injected %s failure", op)
	}
	return nil
}

func (m *Mem) ReadAllRows(_ context.Context) ([][]string, error) {
	if err := m.fail("ReadAllRows"); err != nil {
		return nil, err
	}
	out := make([][]string, len(m.Rows))
	copy(out, m.Rows)
	return out, nil
}

func (m *Mem) InsertRowAt(_ context.Context, position int, row []string) error {
	if err := m.fail("InsertRowAt"); err != nil {
		return err
	}
	idx := position - 1
	if idx < 0 || idx > len(m.Rows) {
		return fmt.Errorf("storetest: position %d out of range", position)
	}
	m.Rows = append(m.Rows[:idx], append([][]string{row}, m.Rows[idx:]...)...)
	return nil
}

func (m *Mem) AppendRows(_ context.Context, rows [][]string) error {
	if err := m.fail("AppendRows"); err != nil {
		return err
	}
	m.Rows = append(m.Rows, rows...)
	return nil
}

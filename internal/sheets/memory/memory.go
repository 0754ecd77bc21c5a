// Package memory is an in-process SummaryWriter.
package memory

import (
	"context"
	"sync"

	"budget/internal/core"
	"budget/internal/sheets"
)

type Store struct {
	mu     sync.Mutex
	sheets map[int][][]string
	writes int
}

var _ sheets.SummaryWriter = (*Store)(nil)

func New() *Store {
	return &Store{sheets: make(map[int][][]string)}
}

func (s *Store) WriteYearSummary(_ context.Context, year int, series []core.Totals) error {
	rows := sheets.SummaryRows(series)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[year] = rows
	s.writes++
	return nil
}

// Rows returns the last summary written for year.
func (s *Store) Rows(year int) ([][]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.sheets[year]
	return rows, ok
}

// Writes counts calls to WriteYearSummary.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

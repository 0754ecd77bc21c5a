// Package budget holds the in-memory ledger and writes every change through
// to persistent storage.
package budget

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"budget/internal/core"
)

// Persister loads and saves the whole ledger at once.
type Persister interface {
	Load(ctx context.Context) (core.Ledger, error)
	Save(ctx context.Context, ledger core.Ledger) error
}

// Store serializes all reads and writes of the ledger. A mutation is applied
// to a copy of the month, the resulting ledger is saved, and only then does
// it become visible. A failed save leaves the store as it was.
type Store struct {
	mu     sync.Mutex
	ledger core.Ledger
	p      Persister
}

// Open loads the ledger through p.
func Open(ctx context.Context, p Persister) (*Store, error) {
	ledger, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if ledger == nil {
		ledger = core.Ledger{}
	}
	return &Store{ledger: ledger, p: p}, nil
}

// Get returns a copy of the month's record. A month seen for the first time
// gets the default record in memory; it is saved with the next mutation.
func (s *Store) Get(key core.MonthKey) (core.MonthRecord, error) {
	if err := key.Validate(); err != nil {
		return core.MonthRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(key).Clone(), nil
}

func (s *Store) getLocked(key core.MonthKey) core.MonthRecord {
	rec, ok := s.ledger[key]
	if !ok {
		rec = core.NewMonthRecord()
		s.ledger[key] = rec
	}
	return rec
}

// Totals returns the aggregates of one month without creating it.
func (s *Store) Totals(key core.MonthKey) (core.Totals, error) {
	if err := key.Validate(); err != nil {
		return core.Totals{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.MonthTotals(s.ledger[key]), nil
}

// YearlySeries returns the twelve monthly totals of year.
func (s *Store) YearlySeries(year int) []core.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.YearlySeries(s.ledger, year)
}

// Snapshot returns a deep copy of the whole ledger.
func (s *Store) Snapshot() core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// Reload replaces the in-memory ledger with what the persister holds.
func (s *Store) Reload(ctx context.Context) error {
	ledger, err := s.p.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}
	if ledger == nil {
		ledger = core.Ledger{}
	}
	s.mu.Lock()
	s.ledger = ledger
	s.mu.Unlock()
	return nil
}

// mutate runs fn on a copy of the month and commits it after a successful save.
func (s *Store) mutate(ctx context.Context, key core.MonthKey, fn func(*core.MonthRecord) error) (core.MonthRecord, error) {
	if err := key.Validate(); err != nil {
		return core.MonthRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.ledger[key]
	if ok {
		rec = rec.Clone()
	} else {
		rec = core.NewMonthRecord()
	}
	if err := fn(&rec); err != nil {
		return core.MonthRecord{}, err
	}

	next := maps.Clone(s.ledger)
	next[key] = rec
	if err := s.p.Save(ctx, next); err != nil {
		return core.MonthRecord{}, fmt.Errorf("save ledger: %w", err)
	}
	s.ledger = next
	return rec.Clone(), nil
}

func (s *Store) SetPaycheck(ctx context.Context, key core.MonthKey, slot core.PaycheckSlot, value string) (core.MonthRecord, error) {
	return s.mutate(ctx, key, func(r *core.MonthRecord) error {
		return r.SetPaycheck(slot, core.ParseAmount(value))
	})
}

func (s *Store) AddRow(ctx context.Context, key core.MonthKey) (core.MonthRecord, error) {
	return s.mutate(ctx, key, func(r *core.MonthRecord) error {
		r.AddRow()
		return nil
	})
}

func (s *Store) DeleteRow(ctx context.Context, key core.MonthKey, i int) (core.MonthRecord, error) {
	return s.mutate(ctx, key, func(r *core.MonthRecord) error {
		return r.DeleteRow(i)
	})
}

func (s *Store) UpdateRow(ctx context.Context, key core.MonthKey, i int, field core.RowField, value string) (core.MonthRecord, error) {
	return s.mutate(ctx, key, func(r *core.MonthRecord) error {
		return r.UpdateRow(i, field, value)
	})
}

func (s *Store) ReorderRow(ctx context.Context, key core.MonthKey, from, to int) (core.MonthRecord, error) {
	return s.mutate(ctx, key, func(r *core.MonthRecord) error {
		return r.ReorderRow(from, to)
	})
}

func (s *Store) AddAddon(ctx context.Context, key core.MonthKey) (core.MonthRecord, error) {
	return s.mutate(ctx, key, func(r *core.MonthRecord) error {
		r.AddAddon()
		return nil
	})
}

func (s *Store) DeleteAddon(ctx context.Context, key core.MonthKey, i int) (core.MonthRecord, error) {
	return s.mutate(ctx, key, func(r *core.MonthRecord) error {
		return r.DeleteAddon(i)
	})
}

func (s *Store) UpdateAddon(ctx context.Context, key core.MonthKey, i int, field core.AddonField, value string) (core.MonthRecord, error) {
	return s.mutate(ctx, key, func(r *core.MonthRecord) error {
		return r.UpdateAddon(i, field, value)
	})
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"budget/internal/core"
)

// ParseError is returned by Load when the stored blob is not a valid ledger.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse ledger blob %q: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Adapter loads and saves the whole ledger through a BlobStore.
type Adapter struct {
	Store BlobStore
	Key   string
}

func NewAdapter(store BlobStore, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{Store: store, Key: key}
}

// Load returns the stored ledger, or an empty one when nothing has been
// saved yet. Records written before add-ons existed get an empty list.
func (a *Adapter) Load(ctx context.Context) (core.Ledger, error) {
	data, err := a.Store.ReadBlob(ctx, a.Key)
	if errors.Is(err, ErrBlobNotFound) {
		slog.DebugContext(ctx, "No stored ledger, starting empty", "key", a.Key)
		return core.Ledger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger blob: %w", err)
	}

	var ledger core.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, &ParseError{Key: a.Key, Err: err}
	}
	if ledger == nil {
		ledger = core.Ledger{}
	}
	backfill(ledger)
	return ledger, nil
}

// Save serializes the full ledger and overwrites the blob.
func (a *Adapter) Save(ctx context.Context, ledger core.Ledger) error {
	if ledger == nil {
		ledger = core.Ledger{}
	}
	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := a.Store.WriteBlob(ctx, a.Key, data); err != nil {
		return fmt.Errorf("write ledger blob: %w", err)
	}
	return nil
}

func backfill(ledger core.Ledger) {
	for k, rec := range ledger {
		changed := false
		if rec.Addons == nil {
			rec.Addons = []core.Addon{}
			changed = true
		}
		if rec.ExpenseRows == nil {
			rec.ExpenseRows = []core.ExpenseRow{}
			changed = true
		}
		if changed {
			ledger[k] = rec
		}
	}
}

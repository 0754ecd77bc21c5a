package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"budget/internal/core"
)

func sampleLedger() core.Ledger {
	return core.Ledger{
		{Year: 2024, Month: 0}: {
			FirstPaycheck:  core.AmountFromInt(1500),
			SecondPaycheck: core.NewAmount(1499, 99),
			ExpenseRows: []core.ExpenseRow{
				{Type: "Food", Monday: core.AmountFromInt(20), Friday: core.NewAmount(4, 5)},
				{Type: "Transport", Wednesday: core.AmountFromInt(3)},
			},
			Addons: []core.Addon{{Description: "Bonus", Amount: core.AmountFromInt(200)}},
		},
		{Year: 2024, Month: 11}: core.NewMonthRecord(),
	}
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemoryBlobStore(), "")
	want := sampleLedger()

	if err := a.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestAdapterLoadMissingIsEmpty(t *testing.T) {
	a := NewAdapter(NewMemoryBlobStore(), "")
	got, err := a.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty ledger, got %v", got)
	}
}

func TestAdapterLoadMalformed(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":  `{"2024-0": `,
		"bad key":   `{"2024-13": {}}`,
		"bad shape": `[1,2,3]`,
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			store := NewMemoryBlobStore()
			_ = store.WriteBlob(ctx, DefaultKey, []byte(blob))
			_, err := NewAdapter(store, DefaultKey).Load(ctx)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if pe.Key != DefaultKey {
				t.Fatalf("unexpected key %q", pe.Key)
			}
		})
	}
}

func TestAdapterBackfillsAddons(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBlobStore()
	legacy := `{"2023-4":{"firstPaycheck":"1200","secondPaycheck":1200,"expenseRows":[{"type":"Rent","monday":"500","tuesday":"","wednesday":0,"thursday":0,"friday":0}]}}`
	_ = store.WriteBlob(ctx, DefaultKey, []byte(legacy))

	got, err := NewAdapter(store, DefaultKey).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rec := got[core.MonthKey{Year: 2023, Month: 4}]
	if rec.Addons == nil || len(rec.Addons) != 0 {
		t.Fatalf("expected backfilled empty addons, got %#v", rec.Addons)
	}
	totals := core.MonthTotals(rec)
	if !totals.Income.Equal(core.AmountFromInt(2400)) || !totals.Expense.Equal(core.AmountFromInt(500)) {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

type failingStore struct{ err error }

func (f failingStore) ReadBlob(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) WriteBlob(context.Context, string, []byte) error  { return f.err }

func TestAdapterPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk full")
	a := NewAdapter(failingStore{err: boom}, "")
	if _, err := a.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("load: expected wrapped store error, got %v", err)
	}
	if err := a.Save(context.Background(), core.Ledger{}); !errors.Is(err, boom) {
		t.Fatalf("save: expected wrapped store error, got %v", err)
	}
}

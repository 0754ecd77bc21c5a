package chart

import (
	"encoding/json"
	"testing"

	"budget/internal/core"
)

func TestFromSeries(t *testing.T) {
	series := make([]core.Totals, 12)
	series[2] = core.Totals{
		Income:  core.AmountFromInt(3000),
		Expense: core.NewAmount(105, 50),
		Balance: core.NewAmount(2894, 50),
	}
	d := FromSeries(2024, series)
	if len(d.Labels) != 12 || d.Labels[0] != "Jan" || d.Labels[11] != "Dec" {
		t.Fatalf("unexpected labels %v", d.Labels)
	}
	if d.Income[2] != 3000 || d.Expense[2] != 105.5 || d.Balance[2] != 2894.5 {
		t.Fatalf("unexpected march values %v %v %v", d.Income[2], d.Expense[2], d.Balance[2])
	}
	if d.Income[0] != 0 || d.Balance[11] != 0 {
		t.Fatalf("expected zeros for months without data")
	}
}

func TestFromShortSeriesPads(t *testing.T) {
	d := FromSeries(2024, nil)
	if len(d.Income) != 12 || len(d.Expense) != 12 || len(d.Balance) != 12 {
		t.Fatalf("expected twelve points per series")
	}
}

func TestLineChart(t *testing.T) {
	cfg := LineChart(FromSeries(2025, make([]core.Totals, 12)))
	if cfg.Type != "line" {
		t.Fatalf("type = %q", cfg.Type)
	}
	want := []struct{ label, color string }{
		{"Income", IncomeColor},
		{"Expenses", ExpenseColor},
		{"Balance", BalanceColor},
	}
	if len(cfg.Data.Datasets) != len(want) {
		t.Fatalf("expected %d datasets, got %d", len(want), len(cfg.Data.Datasets))
	}
	for i, w := range want {
		ds := cfg.Data.Datasets[i]
		if ds.Label != w.label || ds.BorderColor != w.color || len(ds.Data) != 12 {
			t.Fatalf("dataset %d: %+v", i, ds)
		}
	}

	b, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["type"] != "line" {
		t.Fatalf("unexpected json %s", b)
	}
}

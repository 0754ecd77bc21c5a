package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"budget/internal/core"
	"budget/internal/storage"
)

func seedLedger(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	blobs, err := storage.NewFileBlobStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	rec := core.NewMonthRecord()
	rec.FirstPaycheck = core.AmountFromInt(2000)
	rec.Addons = []core.Addon{{Description: "Gift", Amount: core.AmountFromInt(50)}}
	ledger := core.Ledger{{Year: 2024, Month: 1}: rec}
	if err := storage.NewAdapter(blobs, "").Save(context.Background(), ledger); err != nil {
		t.Fatal(err)
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		flagBackend, flagDataDir, flagSQLitePath, flagKey, flagOutput = "", "", "", "", ""
	})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMonthCommand(t *testing.T) {
	dir := seedLedger(t)
	out, err := run(t, "month", "2024-1", "--backend", "file", "--data-dir", dir)
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	for _, want := range []string{"February 2024", "Gift", "2,050.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "month", "2024-12", "--backend", "memory"); err == nil {
		t.Fatal("expected an error for an invalid key")
	}
}

func TestYearAndExportCommands(t *testing.T) {
	dir := seedLedger(t)
	out, err := run(t, "year", "2024", "--backend", "file", "--data-dir", dir)
	if err != nil {
		t.Fatalf("year: %v", err)
	}
	if !strings.Contains(out, "Yearly overview 2024") || !strings.Contains(out, "2,050.00") {
		t.Fatalf("unexpected year output:\n%s", out)
	}

	target := filepath.Join(t.TempDir(), "out.xlsx")
	if _, err := run(t, "export", "2024", "--backend", "file", "--data-dir", dir, "-o", target); err != nil {
		t.Fatalf("export: %v", err)
	}
	if info, err := os.Stat(target); err != nil || info.Size() == 0 {
		t.Fatalf("workbook not written: %v", err)
	}
}

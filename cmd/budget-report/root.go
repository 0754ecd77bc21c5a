package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/config"
	"budget/internal/core"
	applog "budget/internal/log"
)

var (
	flagBackend    string
	flagDataDir    string
	flagSQLitePath string
	flagKey        string
)

var rootCmd = &cobra.Command{
	Use:           "budget-report",
	Short:         "Monthly budget reports in the terminal",
	Long:          "Print a month or the twelve-month trend from the same storage the budget server uses.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "  error:", err)
		os.Exit(1)
	}
}

func init() {
	cli.LoadEnvFile()
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Storage backend: file, sqlite or memory (default from DATA_BACKEND)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory of the file backend (default from DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagSQLitePath, "sqlite-path", "", "Database of the sqlite backend (default from SQLITE_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "storage-key", "", "Key of the ledger blob (default from STORAGE_KEY)")
}

// loadLedger reads the persisted ledger without going through a Store, so
// reports never create months.
func loadLedger(ctx context.Context) (core.Ledger, error) {
	cfg := config.Load()
	if flagBackend != "" {
		cfg.DataBackend = strings.ToLower(flagBackend)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagSQLitePath != "" {
		cfg.SQLiteDBPath = flagSQLitePath
	}
	if flagKey != "" {
		cfg.StorageKey = flagKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Reports go to stdout; only warnings and errors reach stderr.
	level := max(applog.ParseLevel(cfg.LogLevel), slog.LevelWarn)
	logger := applog.New(applog.Config{
		Level:     level,
		Component: applog.ComponentApp,
		Output:    os.Stderr,
	})

	st, err := cli.OpenStorage(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return st.Adapter.Load(ctx)
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"budget/internal/core"
	"budget/internal/export"
	"budget/internal/report"
)

var flagOutput string

var yearCmd = &cobra.Command{
	Use:   "year [year]",
	Short: "Show the twelve-month income, expense and balance trend",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runYear,
}

var exportCmd = &cobra.Command{
	Use:   "export [year]",
	Short: "Write the yearly summary to an .xlsx workbook",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", `Output file (default "budget-{year}.xlsx")`)
	rootCmd.AddCommand(yearCmd, exportCmd)
}

func yearArg(args []string) (int, error) {
	if len(args) == 0 {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", args[0])
	}
	if _, err := core.NewMonthKey(year, 0); err != nil {
		return 0, err
	}
	return year, nil
}

func runYear(cmd *cobra.Command, args []string) error {
	year, err := yearArg(args)
	if err != nil {
		return err
	}
	ledger, err := loadLedger(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), report.RenderYear(year, core.YearlySeries(ledger, year)))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	year, err := yearArg(args)
	if err != nil {
		return err
	}
	ledger, err := loadLedger(cmd.Context())
	if err != nil {
		return err
	}

	b, err := export.YearlyWorkbook(year, core.YearlySeries(ledger, year))
	if err != nil {
		return err
	}
	out := flagOutput
	if out == "" {
		out = fmt.Sprintf("budget-%d.xlsx", year)
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "  Wrote %s\n", out)
	return nil
}

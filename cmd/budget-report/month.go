package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"budget/internal/core"
	"budget/internal/report"
)

var monthCmd = &cobra.Command{
	Use:   "month [key]",
	Short: "Show one month: paychecks, expense rows, add-ons and totals",
	Long:  `Show one month. The key has the form "{year}-{month}" with a zero-based month, e.g. 2024-0 for January 2024. Defaults to the current month.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMonth,
}

func init() {
	rootCmd.AddCommand(monthCmd)
}

func runMonth(cmd *cobra.Command, args []string) error {
	key := core.MonthKeyOf(time.Now())
	if len(args) == 1 {
		var err error
		if key, err = core.ParseMonthKey(args[0]); err != nil {
			return err
		}
	}

	ledger, err := loadLedger(cmd.Context())
	if err != nil {
		return err
	}

	rec, ok := ledger[key]
	if !ok {
		rec = core.NewMonthRecord()
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), report.RenderMonth(key, rec))
	return nil
}

// Package worker mirrors the ledger into a spreadsheet in the background.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"budget/internal/amqp"
	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/sheets"
)

// LedgerLoader reads the persisted ledger; storage.Adapter satisfies it.
type LedgerLoader interface {
	Load(ctx context.Context) (core.Ledger, error)
}

// Consumer delivers month-changed messages; amqp.Client satisfies it.
type Consumer interface {
	ConsumeMonthChanged(ctx context.Context, handler amqp.MonthChangedHandler) error
}

// SyncWorker recomputes yearly series from storage and writes them out.
// It never writes to the ledger.
type SyncWorker struct {
	loader LedgerLoader
	writer sheets.SummaryWriter
	logger *applog.Logger
	now    func() time.Time
}

func NewSyncWorker(loader LedgerLoader, writer sheets.SummaryWriter, logger *applog.Logger) *SyncWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SyncWorker{
		loader: loader,
		writer: writer,
		logger: logger.WithComponent(applog.ComponentWorker),
		now:    time.Now,
	}
}

// SyncYear writes the summary of year as currently stored.
func (w *SyncWorker) SyncYear(ctx context.Context, year int) error {
	ledger, err := w.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	series := core.YearlySeries(ledger, year)
	if err := w.writer.WriteYearSummary(ctx, year, series); err != nil {
		return fmt.Errorf("write summary %d: %w", year, err)
	}
	w.logger.InfoContext(ctx, "Synced yearly summary", applog.FieldYear, year, applog.FieldOperation, applog.OpSync)
	return nil
}

// HandleMonthChanged syncs the year of the changed month. An error makes the
// consumer requeue the message.
func (w *SyncWorker) HandleMonthChanged(ctx context.Context, msg *amqp.MonthChangedMessage) error {
	key, err := msg.MonthKey()
	if err != nil {
		return err
	}
	w.logger.DebugContext(ctx, "Processing month changed message", applog.FieldMonthKey, key.String())
	return w.SyncYear(ctx, key.Year)
}

// Run syncs the current year once, then consumes messages and resyncs the
// current year every interval until ctx is cancelled or the consumer fails.
func (w *SyncWorker) Run(ctx context.Context, consumer Consumer, interval time.Duration) error {
	if err := w.SyncYear(ctx, w.now().Year()); err != nil {
		w.logger.ErrorContext(ctx, "Startup sync failed", applog.FieldError, err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.ConsumeMonthChanged(ctx, w.HandleMonthChanged)
	})

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.SyncYear(ctx, w.now().Year()); err != nil {
					w.logger.ErrorContext(ctx, "Periodic sync failed", applog.FieldError, err)
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

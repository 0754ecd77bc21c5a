// Package services orchestrates budget edits across the store and AMQP.
package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"budget/internal/amqp"
	"budget/internal/budget"
	"budget/internal/cache"
	"budget/internal/core"
	applog "budget/internal/log"
)

// Publisher sends month-changed notifications.
type Publisher interface {
	PublishMonthChanged(ctx context.Context, msg *amqp.MonthChangedMessage) error
}

// BudgetService applies edits through the store and announces them. The
// store is the source of truth: a failed publish is logged, never returned.
type BudgetService struct {
	store     *budget.Store
	publisher Publisher
	logger    *applog.Logger
	series    *cache.LRUCache[[]core.Totals]
}

const (
	seriesCacheSize = 16
	seriesCacheTTL  = 10 * time.Minute
)

// NewBudgetService wires store and an optional publisher (nil disables publishing).
func NewBudgetService(store *budget.Store, publisher Publisher, logger *applog.Logger) *BudgetService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &BudgetService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentBudget),
		series:    cache.NewLRUCache[[]core.Totals](seriesCacheSize, seriesCacheTTL),
	}
}

func (s *BudgetService) Month(key core.MonthKey) (core.MonthRecord, error) {
	return s.store.Get(key)
}

func (s *BudgetService) Totals(key core.MonthKey) (core.Totals, error) {
	return s.store.Totals(key)
}

// YearlySeries is served from the series cache; every successful edit drops
// the cached year it touched.
func (s *BudgetService) YearlySeries(year int) []core.Totals {
	k := strconv.Itoa(year)
	if series, ok := s.series.Get(k); ok {
		return append([]core.Totals(nil), series...)
	}
	series := s.store.YearlySeries(year)
	s.series.Set(k, series)
	return append([]core.Totals(nil), series...)
}

// SeriesCache exposes the yearly series cache for cleanup and readiness stats.
func (s *BudgetService) SeriesCache() *cache.LRUCache[[]core.Totals] {
	return s.series
}

// Reload replaces the ledger with the persisted one, for example after the
// blob was edited outside the server.
func (s *BudgetService) Reload(ctx context.Context) error {
	if err := s.store.Reload(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Ledger reload failed", applog.FieldError, err)
		return err
	}
	s.series.Purge()
	s.logger.InfoContext(ctx, "Ledger reloaded", "months", len(s.store.Snapshot()))
	return nil
}

func (s *BudgetService) Snapshot() core.Ledger {
	return s.store.Snapshot()
}

func (s *BudgetService) SetPaycheck(ctx context.Context, key core.MonthKey, slot core.PaycheckSlot, value string) (core.MonthRecord, error) {
	rec, err := s.store.SetPaycheck(ctx, key, slot, value)
	return s.after(ctx, key, applog.OpUpdate, rec, err, applog.NewFields().With(applog.FieldField, string(slot)))
}

func (s *BudgetService) AddRow(ctx context.Context, key core.MonthKey) (core.MonthRecord, error) {
	rec, err := s.store.AddRow(ctx, key)
	return s.after(ctx, key, applog.OpAddRow, rec, err, nil)
}

func (s *BudgetService) DeleteRow(ctx context.Context, key core.MonthKey, i int) (core.MonthRecord, error) {
	rec, err := s.store.DeleteRow(ctx, key, i)
	return s.after(ctx, key, applog.OpDelete, rec, err, applog.NewFields().WithEdit(i, ""))
}

func (s *BudgetService) UpdateRow(ctx context.Context, key core.MonthKey, i int, field core.RowField, value string) (core.MonthRecord, error) {
	rec, err := s.store.UpdateRow(ctx, key, i, field, value)
	return s.after(ctx, key, applog.OpUpdate, rec, err, applog.NewFields().WithEdit(i, string(field)))
}

func (s *BudgetService) ReorderRow(ctx context.Context, key core.MonthKey, from, to int) (core.MonthRecord, error) {
	rec, err := s.store.ReorderRow(ctx, key, from, to)
	return s.after(ctx, key, applog.OpReorder, rec, err, applog.NewFields().With("from", from).With("to", to))
}

func (s *BudgetService) AddAddon(ctx context.Context, key core.MonthKey) (core.MonthRecord, error) {
	rec, err := s.store.AddAddon(ctx, key)
	return s.after(ctx, key, applog.OpAddAddon, rec, err, nil)
}

func (s *BudgetService) DeleteAddon(ctx context.Context, key core.MonthKey, i int) (core.MonthRecord, error) {
	rec, err := s.store.DeleteAddon(ctx, key, i)
	return s.after(ctx, key, applog.OpDelete, rec, err, applog.NewFields().WithEdit(i, "addon"))
}

func (s *BudgetService) UpdateAddon(ctx context.Context, key core.MonthKey, i int, field core.AddonField, value string) (core.MonthRecord, error) {
	rec, err := s.store.UpdateAddon(ctx, key, i, field, value)
	return s.after(ctx, key, applog.OpUpdate, rec, err, applog.NewFields().WithEdit(i, "addon."+string(field)))
}

func (s *BudgetService) after(ctx context.Context, key core.MonthKey, op string, rec core.MonthRecord, err error, fields applog.LogFields) (core.MonthRecord, error) {
	if fields == nil {
		fields = applog.NewFields()
	}
	fields = fields.WithMonth(key.String()).WithOperation(op)
	if err != nil {
		s.logger.WarnContext(ctx, "Budget edit rejected", fields.WithError(err).ToSlice()...)
		return core.MonthRecord{}, fmt.Errorf("%s %s: %w", op, key, err)
	}

	s.series.Delete(strconv.Itoa(key.Year))

	totals := core.MonthTotals(rec)
	s.logger.DebugContext(ctx, "Budget edit applied",
		fields.WithTotals(totals.Income.Fixed(), totals.Expense.Fixed(), totals.Balance.Fixed()).ToSlice()...)

	s.publish(ctx, key, totals)
	return rec, nil
}

func (s *BudgetService) publish(ctx context.Context, key core.MonthKey, totals core.Totals) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishMonthChanged(ctx, amqp.NewMonthChangedMessage(key, totals)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish month changed message",
			applog.FieldMonthKey, key.String(), applog.FieldError, err)
	}
}

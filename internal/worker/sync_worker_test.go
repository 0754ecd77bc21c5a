package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/sheets/memory"
	"budget/internal/storage"
)

func seededAdapter(t *testing.T) *storage.Adapter {
	t.Helper()
	a := storage.NewAdapter(storage.NewMemoryBlobStore(), "")
	ledger := core.Ledger{
		{Year: 2024, Month: 2}: {
			FirstPaycheck: core.AmountFromInt(2000),
			ExpenseRows:   []core.ExpenseRow{{Type: "Rent", Monday: core.AmountFromInt(800)}},
			Addons:        []core.Addon{},
		},
	}
	if err := a.Save(context.Background(), ledger); err != nil {
		t.Fatal(err)
	}
	return a
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: &bytes.Buffer{}})
}

func TestHandleMonthChanged(t *testing.T) {
	sink := memory.New()
	w := NewSyncWorker(seededAdapter(t), sink, quietLogger())

	msg := amqp.NewMonthChangedMessage(core.MonthKey{Year: 2024, Month: 2}, core.Totals{})
	if err := w.HandleMonthChanged(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	rows, ok := sink.Rows(2024)
	if !ok {
		t.Fatal("expected 2024 summary")
	}
	if got := rows[3]; got[0] != "March" || got[1] != "2000.00" || got[2] != "800.00" || got[3] != "1200.00" {
		t.Fatalf("unexpected March row %v", got)
	}
}

func TestHandleMonthChanged_BadKey(t *testing.T) {
	w := NewSyncWorker(seededAdapter(t), memory.New(), quietLogger())
	err := w.HandleMonthChanged(context.Background(), &amqp.MonthChangedMessage{Key: "nope"})
	if !errors.Is(err, core.ErrInvalidMonthKey) {
		t.Fatalf("expected ErrInvalidMonthKey, got %v", err)
	}
}

type failingLoader struct{}

func (failingLoader) Load(context.Context) (core.Ledger, error) {
	return nil, &storage.ParseError{Key: "k", Err: errors.New("bad")}
}

func TestSyncYear_LoadFailure(t *testing.T) {
	sink := memory.New()
	w := NewSyncWorker(failingLoader{}, sink, quietLogger())
	if err := w.SyncYear(context.Background(), 2024); err == nil {
		t.Fatal("expected error")
	}
	if sink.Writes() != 0 {
		t.Fatal("nothing should be written when loading fails")
	}
}

// chanConsumer feeds queued messages to the handler, then blocks.
type chanConsumer struct {
	msgs    []*amqp.MonthChangedMessage
	handled chan error
}

func (c *chanConsumer) ConsumeMonthChanged(ctx context.Context, h amqp.MonthChangedHandler) error {
	for _, m := range c.msgs {
		c.handled <- h(ctx, m)
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRun(t *testing.T) {
	sink := memory.New()
	w := NewSyncWorker(seededAdapter(t), sink, quietLogger())
	w.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	consumer := &chanConsumer{
		msgs:    []*amqp.MonthChangedMessage{amqp.NewMonthChangedMessage(core.MonthKey{Year: 2024, Month: 2}, core.Totals{})},
		handled: make(chan error, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, consumer, time.Hour) }()

	select {
	case err := <-consumer.handled:
		if err != nil {
			t.Fatalf("handler error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message was not handled")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}

	if _, ok := sink.Rows(2025); !ok {
		t.Fatal("expected startup sync of the current year")
	}
	if _, ok := sink.Rows(2024); !ok {
		t.Fatal("expected 2024 summary from the message")
	}
}

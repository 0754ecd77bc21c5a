package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"budget/internal/core"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{15, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed delivery channel", errors.New("message channel closed"), true},
		{"other error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "budget", queueName: "month_changed"}

	t.Run("initial state is closed", func(t *testing.T) {
		if client.isCircuitOpen() {
			t.Error("Circuit breaker should be closed initially")
		}
	})

	t.Run("multiple failures open circuit", func(t *testing.T) {
		for i := 0; i < maxFailures; i++ {
			client.recordFailure()
		}
		if !client.isCircuitOpen() {
			t.Error("Circuit breaker should be open after max failures")
		}
	})

	t.Run("circuit transitions to half-open after timeout", func(t *testing.T) {
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now().Add(-openTimeout - time.Second)
		if client.isCircuitOpen() {
			t.Error("Circuit should transition to half-open after timeout")
		}
		if atomic.LoadInt32(&client.state) != StateHalfOpen {
			t.Error("State should be StateHalfOpen after timeout")
		}
	})

	t.Run("failure while half-open reopens", func(t *testing.T) {
		atomic.StoreInt64(&client.failureCount, 0)
		atomic.StoreInt32(&client.state, StateHalfOpen)
		client.recordFailure()
		if atomic.LoadInt32(&client.state) != StateOpen {
			t.Error("State should be StateOpen after a half-open failure")
		}
	})

	t.Run("record success resets state", func(t *testing.T) {
		client.recordSuccess()
		if client.isCircuitOpen() || atomic.LoadInt64(&client.failureCount) != 0 {
			t.Error("Circuit breaker should be closed and reset after success")
		}
	})
}

func TestClient_PublishMonthChanged_Guards(t *testing.T) {
	client := &Client{exchangeName: "budget", queueName: "month_changed"}
	msg := NewMonthChangedMessage(core.MonthKey{Year: 2024, Month: 1}, core.Totals{})

	t.Run("publish fails when circuit is open", func(t *testing.T) {
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now()

		err := client.PublishMonthChanged(context.Background(), msg)
		if !errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("expected ErrCircuitOpen, got %v", err)
		}
	})

	t.Run("publish respects context cancellation", func(t *testing.T) {
		client.recordSuccess()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := client.PublishMonthChanged(ctx, msg); err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("publish without connection records failure", func(t *testing.T) {
		client.recordSuccess()
		if err := client.PublishMonthChanged(context.Background(), msg); err == nil {
			t.Fatal("expected error without a connection")
		}
		if atomic.LoadInt64(&client.failureCount) != 1 {
			t.Fatalf("expected one recorded failure, got %d", client.failureCount)
		}
	})
}

func TestProcessDelivery(t *testing.T) {
	ctx := context.Background()
	valid, _ := NewMonthChangedMessage(core.MonthKey{Year: 2024, Month: 3}, core.Totals{}).ToJSON()

	var seen string
	ok := func(_ context.Context, m *MonthChangedMessage) error { seen = m.Key; return nil }
	failing := func(context.Context, *MonthChangedMessage) error { return errors.New("sheets down") }

	if got := processDelivery(ctx, valid, ok); got != outcomeAck || seen != "2024-3" {
		t.Fatalf("expected ack for %q, got %v", seen, got)
	}
	if got := processDelivery(ctx, valid, failing); got != outcomeRequeue {
		t.Fatalf("expected requeue, got %v", got)
	}
	if got := processDelivery(ctx, []byte("{not json"), ok); got != outcomeDrop {
		t.Fatalf("expected drop for bad json, got %v", got)
	}
	if got := processDelivery(ctx, []byte(`{"key":"2024-14","year":2024,"month":14}`), ok); got != outcomeDrop {
		t.Fatalf("expected drop for bad key, got %v", got)
	}
}

func TestMonthChangedMessage_JSON(t *testing.T) {
	totals := core.Totals{Income: core.AmountFromInt(3000), Expense: core.NewAmount(105, 50), Balance: core.NewAmount(2894, 50)}
	msg := NewMonthChangedMessage(core.MonthKey{Year: 2024, Month: 11}, totals)
	if msg.Timestamp.IsZero() || time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}

	b, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(b), `"key":"2024-11"`) {
		t.Fatalf("unexpected payload %s", b)
	}
	parsed, err := MonthChangedMessageFromJSON(b)
	if err != nil {
		t.Fatalf("MonthChangedMessageFromJSON() error = %v", err)
	}
	if parsed.Year != 2024 || parsed.Month != 11 || !parsed.Totals.Balance.Equal(totals.Balance) {
		t.Errorf("Parsed message mismatch: %+v", parsed)
	}
}

func TestMonthChangedMessage_Inconsistent(t *testing.T) {
	_, err := MonthChangedMessageFromJSON([]byte(`{"key":"2024-1","year":2023,"month":1}`))
	if !errors.Is(err, core.ErrInvalidMonthKey) {
		t.Fatalf("expected ErrInvalidMonthKey, got %v", err)
	}
}

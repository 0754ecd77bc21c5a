package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"budget/internal/core"
)

// MonthChangedMessage announces that a month was edited. The totals are
// informational; consumers recompute from storage.
type MonthChangedMessage struct {
	Key       string      `json:"key"`
	Year      int         `json:"year"`
	Month     int         `json:"month"`
	Totals    core.Totals `json:"totals"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewMonthChangedMessage(key core.MonthKey, totals core.Totals) *MonthChangedMessage {
	return &MonthChangedMessage{
		Key:       key.String(),
		Year:      key.Year,
		Month:     key.Month,
		Totals:    totals,
		Timestamp: time.Now(),
	}
}

// MonthKey returns the parsed key, checking it agrees with Year and Month.
func (m *MonthChangedMessage) MonthKey() (core.MonthKey, error) {
	k, err := core.ParseMonthKey(m.Key)
	if err != nil {
		return core.MonthKey{}, err
	}
	if k.Year != m.Year || k.Month != m.Month {
		return core.MonthKey{}, fmt.Errorf("%w: key %s disagrees with %d-%d", core.ErrInvalidMonthKey, m.Key, m.Year, m.Month)
	}
	return k, nil
}

func (m *MonthChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MonthChangedMessageFromJSON(data []byte) (*MonthChangedMessage, error) {
	var msg MonthChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := msg.MonthKey(); err != nil {
		return nil, err
	}
	return &msg, nil
}

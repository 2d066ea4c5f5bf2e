package model

import (
	"encoding/json"
	"strings"
	"time"

	"logs-dashboard/internal/util"
)

// LogRecord is one gateway request log line as served by GET /logs.
type LogRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	Method         string    `json:"method"`
	Endpoint       string    `json:"endpoint"`
	StatusCode     int       `json:"status_code"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	User           string    `json:"user"`
	Service        string    `json:"service"`
}

// IsSuccess follows the gateway: 2xx and 3xx count as success.
func (r LogRecord) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// UnmarshalJSON accepts any timestamp util.ParseTimeFlexible understands.
// An unreadable timestamp leaves the zero time instead of failing the record.
func (r *LogRecord) UnmarshalJSON(data []byte) error {
	type plain LogRecord
	aux := struct {
		*plain
		Timestamp json.RawMessage `json:"timestamp"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Timestamp = time.Time{}
	raw := strings.TrimSpace(string(aux.Timestamp))
	if raw == "" || raw == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(aux.Timestamp, &s); err != nil {
		s = raw // epoch millis sent as a number
	}
	if t, err := util.ParseTimeFlexible(s); err == nil {
		r.Timestamp = t
	}
	return nil
}

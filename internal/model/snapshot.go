package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StatsSnapshot is the aggregate payload served by GET /logs/stats.
// Keyed sections keep the key order of the JSON document.
type StatsSnapshot struct {
	TotalAPICalls          int64          `json:"total_api_calls"`
	UniqueUsers            int64          `json:"unique_users"`
	ServiceStatistics      Counts         `json:"service_statistics"`
	StatusCodeStatistics   Counts         `json:"status_code_statistics"`
	ResponseTimeStatistics ResponseTimes  `json:"response_time_statistics"`
	HourlyStats            Counts         `json:"hourly_stats"`
	DailyStats             Counts         `json:"daily_stats"`
	TopEndpoints           []EndpointStat `json:"top_endpoints"`
	ErrorRate              float64        `json:"error_rate"`
	SuccessRate            float64        `json:"success_rate"`

	// MalformedFields lists the sections that were present but could not be decoded.
	MalformedFields []string `json:"-"`
}

type ResponseTimeStats struct {
	TotalCalls int64   `json:"total_calls"`
	TotalMs    float64 `json:"total_ms"`
	MinMs      float64 `json:"min_ms"`
	MaxMs      float64 `json:"max_ms"`
	AvgMs      float64 `json:"avg_ms"`
}

type EndpointStat struct {
	Endpoint        string  `json:"endpoint"`
	Calls           int64   `json:"calls"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// UnmarshalJSON decodes every section on its own so a broken section only
// empties itself instead of failing the whole snapshot.
func (s *StatsSnapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("stats snapshot is not an object: %w", err)
	}

	out := StatsSnapshot{}
	fields := []struct {
		name   string
		target interface{}
	}{
		{"total_api_calls", &out.TotalAPICalls},
		{"unique_users", &out.UniqueUsers},
		{"service_statistics", &out.ServiceStatistics},
		{"status_code_statistics", &out.StatusCodeStatistics},
		{"response_time_statistics", &out.ResponseTimeStatistics},
		{"hourly_stats", &out.HourlyStats},
		{"daily_stats", &out.DailyStats},
		{"top_endpoints", &out.TopEndpoints},
		{"error_rate", &out.ErrorRate},
		{"success_rate", &out.SuccessRate},
	}
	for _, f := range fields {
		msg, ok := raw[f.name]
		if !ok || len(msg) == 0 || string(msg) == "null" {
			continue
		}
		if err := json.Unmarshal(msg, f.target); err != nil {
			out.MalformedFields = append(out.MalformedFields, f.name)
		}
	}
	*s = out
	return nil
}

type Count struct {
	Key   string
	Value int64
}

// Counts is a JSON object of key -> count that remembers the document order.
type Counts []Count

func (c Counts) Total() int64 {
	var total int64
	for _, e := range c {
		total += e.Value
	}
	return total
}

func (c Counts) Get(key string) (int64, bool) {
	for _, e := range c {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

func (c *Counts) UnmarshalJSON(data []byte) error {
	out := Counts{}
	err := decodeObject(data, func(key string, dec *json.Decoder) error {
		var v int64
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out = append(out, Count{Key: key, Value: v})
		return nil
	})
	if err != nil {
		return err
	}
	*c = out
	return nil
}

func (c Counts) MarshalJSON() ([]byte, error) {
	return encodeObject(len(c), func(i int) (string, interface{}) {
		return c[i].Key, c[i].Value
	})
}

type ServiceResponseTime struct {
	Service string
	Stats   ResponseTimeStats
}

// ResponseTimes is the per-service response time section, in document order.
type ResponseTimes []ServiceResponseTime

func (r *ResponseTimes) UnmarshalJSON(data []byte) error {
	out := ResponseTimes{}
	err := decodeObject(data, func(key string, dec *json.Decoder) error {
		var v ResponseTimeStats
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out = append(out, ServiceResponseTime{Service: key, Stats: v})
		return nil
	})
	if err != nil {
		return err
	}
	*r = out
	return nil
}

func (r ResponseTimes) MarshalJSON() ([]byte, error) {
	return encodeObject(len(r), func(i int) (string, interface{}) {
		return r[i].Service, r[i].Stats
	})
}

func decodeObject(data []byte, each func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		if err := each(key, dec); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
	}
	_, err = dec.Token()
	return err
}

func encodeObject(n int, at func(i int) (string, interface{})) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, value := at(i)
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

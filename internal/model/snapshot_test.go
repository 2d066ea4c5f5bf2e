package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logs-dashboard/internal/model"
)

const gatewayStats = `{
	"total_api_calls": 100,
	"unique_users": 4,
	"service_statistics": {"user-service": 30, "auth-service": 50, "task-service": 20},
	"status_code_statistics": {"200": 80, "404": 15, "500": 5},
	"response_time_statistics": {
		"auth-service": {"total_calls": 50, "total_ms": 5000, "min_ms": 10, "max_ms": 400, "avg_ms": 100.0},
		"user-service": {"total_calls": 30, "total_ms": 900, "min_ms": 5, "max_ms": 90, "avg_ms": 30.0}
	},
	"hourly_stats": {"14": 60, "09": 40},
	"daily_stats": {"2024-05-01": 100},
	"top_endpoints": [{"endpoint": "/auth/login", "calls": 50, "avg_response_time": 100.0}],
	"error_rate": 20.0,
	"success_rate": 80.0
}`

func TestStatsSnapshotKeepsDocumentOrder(t *testing.T) {
	var snap model.StatsSnapshot
	require.NoError(t, json.Unmarshal([]byte(gatewayStats), &snap))

	assert.Equal(t, int64(100), snap.TotalAPICalls)
	assert.Equal(t, int64(4), snap.UniqueUsers)
	assert.Equal(t, model.Counts{
		{Key: "user-service", Value: 30},
		{Key: "auth-service", Value: 50},
		{Key: "task-service", Value: 20},
	}, snap.ServiceStatistics)
	assert.Equal(t, int64(100), snap.StatusCodeStatistics.Total())
	require.Len(t, snap.ResponseTimeStatistics, 2)
	assert.Equal(t, "auth-service", snap.ResponseTimeStatistics[0].Service)
	assert.Equal(t, 5000.0, snap.ResponseTimeStatistics[0].Stats.TotalMs)
	assert.Equal(t, "14", snap.HourlyStats[0].Key)
	require.Len(t, snap.TopEndpoints, 1)
	assert.Equal(t, "/auth/login", snap.TopEndpoints[0].Endpoint)
	assert.Equal(t, 80.0, snap.SuccessRate)
	assert.Empty(t, snap.MalformedFields)

	v, ok := snap.ServiceStatistics.Get("task-service")
	assert.True(t, ok)
	assert.Equal(t, int64(20), v)
	_, ok = snap.ServiceStatistics.Get("missing")
	assert.False(t, ok)
}

func TestStatsSnapshotEncodesInDocumentOrder(t *testing.T) {
	var snap model.StatsSnapshot
	require.NoError(t, json.Unmarshal([]byte(gatewayStats), &snap))

	out, err := json.Marshal(snap.ServiceStatistics)
	require.NoError(t, err)
	assert.Equal(t, `{"user-service":30,"auth-service":50,"task-service":20}`, string(out))

	empty, err := json.Marshal(model.Counts{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestStatsSnapshotMissingSectionsDecodeEmpty(t *testing.T) {
	var snap model.StatsSnapshot
	require.NoError(t, json.Unmarshal([]byte(`{"total_api_calls": 3, "hourly_stats": null}`), &snap))

	assert.Equal(t, int64(3), snap.TotalAPICalls)
	assert.Empty(t, snap.ServiceStatistics)
	assert.Empty(t, snap.HourlyStats)
	assert.Empty(t, snap.TopEndpoints)
	assert.Empty(t, snap.MalformedFields)
}

func TestStatsSnapshotMalformedSectionIsIsolated(t *testing.T) {
	payload := `{
		"total_api_calls": 10,
		"service_statistics": "not-an-object",
		"status_code_statistics": {"200": 10},
		"top_endpoints": {"endpoint": "/x"}
	}`
	var snap model.StatsSnapshot
	require.NoError(t, json.Unmarshal([]byte(payload), &snap))

	assert.Equal(t, int64(10), snap.TotalAPICalls)
	assert.Empty(t, snap.ServiceStatistics)
	assert.Empty(t, snap.TopEndpoints)
	assert.Equal(t, model.Counts{{Key: "200", Value: 10}}, snap.StatusCodeStatistics)
	assert.ElementsMatch(t, []string{"service_statistics", "top_endpoints"}, snap.MalformedFields)
}

func TestStatsSnapshotRejectsNonObject(t *testing.T) {
	var snap model.StatsSnapshot
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &snap))
}

func TestLogRecordIsSuccess(t *testing.T) {
	assert.True(t, model.LogRecord{StatusCode: 200}.IsSuccess())
	assert.True(t, model.LogRecord{StatusCode: 302}.IsSuccess())
	assert.False(t, model.LogRecord{StatusCode: 404}.IsSuccess())
	assert.False(t, model.LogRecord{StatusCode: 500}.IsSuccess())
	assert.False(t, model.LogRecord{StatusCode: 101}.IsSuccess())
}

func TestLogRecordTimestampDecoding(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected time.Time
	}{
		{name: "RFC3339", payload: `{"timestamp": "2024-05-01T10:00:00Z", "status_code": 200}`, expected: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "Isoformat Without Zone", payload: `{"timestamp": "2024-05-01T10:00:00.250000", "status_code": 200}`, expected: time.Date(2024, 5, 1, 10, 0, 0, 250000000, time.UTC)},
		{name: "Epoch Millis", payload: `{"timestamp": 1714557600000, "status_code": 200}`, expected: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "Unreadable", payload: `{"timestamp": "yesterday", "status_code": 200}`},
		{name: "Missing", payload: `{"status_code": 200}`},
		{name: "Null", payload: `{"timestamp": null, "status_code": 200}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec model.LogRecord
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &rec))
			assert.True(t, tt.expected.Equal(rec.Timestamp), "got %s", rec.Timestamp)
			assert.Equal(t, 200, rec.StatusCode)
		})
	}
}

func TestLogListSurvivesOneBadTimestamp(t *testing.T) {
	payload := `[
		{"timestamp": "not-a-time", "method": "GET", "endpoint": "/tasks", "status_code": 500, "user": "alice"},
		{"timestamp": "2024-05-01T11:00:00Z", "method": "POST", "endpoint": "/auth/login", "status_code": 200, "user": "bob"}
	]`
	var records []model.LogRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &records))
	require.Len(t, records, 2)
	assert.True(t, records[0].Timestamp.IsZero())
	assert.Equal(t, "/tasks", records[0].Endpoint)
	assert.Equal(t, "bob", records[1].User)
	assert.False(t, records[1].Timestamp.IsZero())
}

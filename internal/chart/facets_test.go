package chart_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logs-dashboard/internal/chart"
	"logs-dashboard/internal/model"
)

func decodeSnapshot(t *testing.T, payload string) *model.StatsSnapshot {
	t.Helper()
	var snap model.StatsSnapshot
	require.NoError(t, json.Unmarshal([]byte(payload), &snap))
	return &snap
}

func TestStatusCodesFacet(t *testing.T) {
	snap := decodeSnapshot(t, `{"status_code_statistics": {"200": 80, "404": 15, "500": 5}}`)

	spec, ok := chart.BuildFacet(snap, chart.FacetStatusCodes)
	require.True(t, ok)
	assert.Equal(t, chart.TypeDoughnut, spec.Type)
	assert.Equal(t, []string{"200", "404", "500"}, spec.Labels)
	assert.Equal(t, 100.0, spec.Total())
	assert.Equal(t, []string{chart.ColorGreen, chart.ColorOrange, chart.ColorRed}, spec.Dataset.Colors)
	assert.Equal(t, "404: 15 (15.0%)", spec.TooltipText(1))
}

func TestStatusColor(t *testing.T) {
	tests := map[string]string{
		"200": chart.ColorGreen,
		"201": chart.ColorGreen,
		"301": chart.ColorAmber,
		"404": chart.ColorOrange,
		"503": chart.ColorRed,
		"101": chart.ColorGray,
		"":    chart.ColorGray,
	}
	for code, expected := range tests {
		assert.Equal(t, expected, chart.StatusColor(code), "code %q", code)
	}
}

func TestServicesFacet(t *testing.T) {
	snap := decodeSnapshot(t, `{"service_statistics": {"auth-service": 10, "task-service": 30, "user-service": 10}}`)

	spec, ok := chart.BuildFacet(snap, chart.FacetServices)
	require.True(t, ok)
	assert.Equal(t, chart.TypeBar, spec.Type)
	assert.Equal(t, []string{"task", "auth", "user"}, spec.Labels)
	assert.Equal(t, []float64{30, 10, 10}, spec.Dataset.Values)
	assert.Equal(t, []string{"#3B82F6", "#10B981", "#F59E0B"}, spec.Dataset.Colors)
	assert.Equal(t, "task: 30, 60.0% of total", spec.TooltipText(0))
}

func TestServicesFacetCapsAtTen(t *testing.T) {
	snap := &model.StatsSnapshot{}
	for i := 0; i < 12; i++ {
		snap.ServiceStatistics = append(snap.ServiceStatistics, model.Count{Key: string(rune('a'+i)) + "-service", Value: int64(i + 1)})
	}

	spec, ok := chart.BuildFacet(snap, chart.FacetServices)
	require.True(t, ok)
	assert.Len(t, spec.Labels, 10)
	assert.Equal(t, "l", spec.Labels[0])
}

func TestHourlyTrafficFacetSortsHours(t *testing.T) {
	snap := decodeSnapshot(t, `{"hourly_stats": {"14": 6, "09": 4, "23": 1}}`)

	spec, ok := chart.BuildFacet(snap, chart.FacetHourlyTraffic)
	require.True(t, ok)
	assert.Equal(t, chart.TypeLine, spec.Type)
	assert.Equal(t, []string{"09:00", "14:00", "23:00"}, spec.Labels)
	assert.Equal(t, []float64{4, 6, 1}, spec.Dataset.Values)
	assert.True(t, spec.Dataset.Fill)
	assert.Equal(t, "14", snap.HourlyStats[0].Key, "snapshot must not be reordered")
}

func TestTopEndpointsFacetFormatsLabels(t *testing.T) {
	snap := decodeSnapshot(t, `{"top_endpoints": [
		{"endpoint": "/api/v1/users/42", "calls": 9, "avg_response_time": 12.5},
		{"endpoint": "/auth/login", "calls": 4, "avg_response_time": 80}
	]}`)

	spec, ok := chart.BuildFacet(snap, chart.FacetTopEndpoints)
	require.True(t, ok)
	assert.Equal(t, []string{".../users/42", "/auth/login"}, spec.Labels)
	assert.Equal(t, []float64{9, 4}, spec.Dataset.Values)
}

func TestSuccessErrorFacet(t *testing.T) {
	spec, ok := chart.BuildFacet(&model.StatsSnapshot{SuccessRate: 87.5, ErrorRate: 12.5}, chart.FacetSuccessError)
	require.True(t, ok)
	assert.Equal(t, []string{"Successful", "Failed"}, spec.Labels)
	assert.Equal(t, []string{chart.ColorGreen, chart.ColorRed}, spec.Dataset.Colors)
	assert.Equal(t, "Failed: 12.5%", spec.TooltipText(1))

	_, ok = chart.BuildFacet(&model.StatsSnapshot{}, chart.FacetSuccessError)
	assert.False(t, ok)
}

func TestEmptySnapshotBuildsNothing(t *testing.T) {
	assert.Empty(t, chart.BuildAll(&model.StatsSnapshot{}))
	assert.Empty(t, chart.BuildAll(nil))

	zeroCodes := decodeSnapshot(t, `{"status_code_statistics": {"200": 0}}`)
	_, ok := chart.BuildFacet(zeroCodes, chart.FacetStatusCodes)
	assert.False(t, ok)
}

func TestBuildAllKeepsDashboardOrder(t *testing.T) {
	snap := decodeSnapshot(t, `{
		"service_statistics": {"auth-service": 1},
		"status_code_statistics": {"200": 1},
		"success_rate": 100
	}`)

	specs := chart.BuildAll(snap)
	require.Len(t, specs, 3)
	assert.Equal(t, chart.FacetStatusCodes, specs[0].Facet)
	assert.Equal(t, chart.FacetServices, specs[1].Facet)
	assert.Equal(t, chart.FacetSuccessError, specs[2].Facet)
}

func TestTooltipText(t *testing.T) {
	spec := chart.Spec{
		Labels:  []string{"a", "b"},
		Dataset: chart.Dataset{Values: []float64{1, 3}},
	}

	tests := []struct {
		rule     chart.TooltipRule
		expected string
	}{
		{rule: chart.TooltipValue, expected: "b: 3"},
		{rule: chart.TooltipValuePercent, expected: "b: 3 (75.0%)"},
		{rule: chart.TooltipPercentOfTotal, expected: "b: 3, 75.0% of total"},
		{rule: chart.TooltipPercent, expected: "b: 3.0%"},
	}
	for _, tt := range tests {
		t.Run(string(tt.rule), func(t *testing.T) {
			spec.TooltipRule = tt.rule
			assert.Equal(t, tt.expected, spec.TooltipText(1))
		})
	}

	assert.Empty(t, spec.TooltipText(5))
	assert.Empty(t, spec.TooltipText(-1))
}

func TestParseFacet(t *testing.T) {
	f, ok := chart.ParseFacet("hourly_traffic")
	assert.True(t, ok)
	assert.Equal(t, chart.FacetHourlyTraffic, f)

	_, ok = chart.ParseFacet("pie")
	assert.False(t, ok)
}

func TestFacetsShareAnimationDuration(t *testing.T) {
	snap := decodeSnapshot(t, `{
		"service_statistics": {"auth-service": 2},
		"status_code_statistics": {"200": 2},
		"response_time_statistics": {"auth-service": {"total_calls": 2, "total_ms": 20, "min_ms": 5, "max_ms": 15, "avg_ms": 10}},
		"hourly_stats": {"10": 2},
		"top_endpoints": [{"endpoint": "/auth/login", "calls": 2, "avg_response_time": 10}],
		"success_rate": 100,
		"error_rate": 0
	}`)

	specs := chart.BuildAll(snap)
	require.Len(t, specs, len(chart.AllFacets()))
	for _, spec := range specs {
		assert.Equal(t, 300, spec.AnimationMs, "facet %s", spec.Facet)
	}
}

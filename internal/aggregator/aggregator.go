// Package aggregator derives ranked and summarized views from a stats
// snapshot. Every function is pure and tolerates nil or partial snapshots.
package aggregator

import (
	"math"
	"sort"
	"strings"

	"logs-dashboard/internal/model"
)

// RankServices returns the n most called services, highest first. Services
// with equal counts keep their snapshot order. n <= 0 returns all of them.
func RankServices(snapshot *model.StatsSnapshot, n int) []model.Count {
	if snapshot == nil || len(snapshot.ServiceStatistics) == 0 {
		return []model.Count{}
	}
	ranked := make([]model.Count, len(snapshot.ServiceStatistics))
	copy(ranked, snapshot.ServiceStatistics)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// AverageResponseTimeOverall is sum(total_ms) / sum(total_calls) across all
// services, rounded; 0 when nothing was called.
func AverageResponseTimeOverall(snapshot *model.StatsSnapshot) int64 {
	if snapshot == nil {
		return 0
	}
	var totalMs float64
	var totalCalls int64
	for _, rt := range snapshot.ResponseTimeStatistics {
		totalMs += rt.Stats.TotalMs
		totalCalls += rt.Stats.TotalCalls
	}
	if totalCalls == 0 {
		return 0
	}
	return int64(math.Round(totalMs / float64(totalCalls)))
}

// FormatEndpointLabel shortens deep paths to their last two segments,
// e.g. "/api/v1/users/42" -> ".../users/42".
func FormatEndpointLabel(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) > 3 {
		return ".../" + strings.Join(parts[len(parts)-2:], "/")
	}
	return path
}

// ServiceLabel drops the "-service" suffix used in gateway service names.
func ServiceLabel(name string) string {
	return strings.Replace(name, "-service", "", 1)
}

// Summary is the KPI block shown above the charts.
type Summary struct {
	TotalAPICalls     int64   `json:"total_api_calls"`
	UniqueUsers       int64   `json:"unique_users"`
	AvgResponseTimeMs int64   `json:"avg_response_time_ms"`
	SlowestService    Extreme `json:"slowest_service"`
	FastestService    Extreme `json:"fastest_service"`
	MostUsedService   Extreme `json:"most_used_service"`
	LeastUsedService  Extreme `json:"least_used_service"`
	SuccessRate       float64 `json:"success_rate"`
	ErrorRate         float64 `json:"error_rate"`
}

func Summarize(snapshot *model.StatsSnapshot) Summary {
	if snapshot == nil {
		return Summary{
			SlowestService:   NotApplicable,
			FastestService:   NotApplicable,
			MostUsedService:  NotApplicable,
			LeastUsedService: NotApplicable,
		}
	}
	return Summary{
		TotalAPICalls:     snapshot.TotalAPICalls,
		UniqueUsers:       snapshot.UniqueUsers,
		AvgResponseTimeMs: AverageResponseTimeOverall(snapshot),
		SlowestService:    labelled(ExtremeByResponseTime(snapshot, Max)),
		FastestService:    labelled(ExtremeByResponseTime(snapshot, Min)),
		MostUsedService:   labelled(ExtremeByUsage(snapshot, Max)),
		LeastUsedService:  labelled(ExtremeByUsage(snapshot, Min)),
		SuccessRate:       snapshot.SuccessRate,
		ErrorRate:         snapshot.ErrorRate,
	}
}

func labelled(e Extreme) Extreme {
	if !e.Valid {
		return e
	}
	e.Name = ServiceLabel(e.Name)
	e.Value = float64(e.Rounded())
	return e
}

package dto

import (
	"encoding/json"
	"time"

	"logs-dashboard/internal/aggregator"
	"logs-dashboard/internal/chart"
	"logs-dashboard/internal/model"
)

// AutoRefreshRequest takes the period in seconds, at most one day; 0 disables.
type AutoRefreshRequest struct {
	IntervalSeconds int `json:"interval_seconds" binding:"min=0,max=86400"`
}

type AutoRefreshResponse struct {
	IntervalSeconds int  `json:"interval_seconds"`
	Enabled         bool `json:"enabled"`
}

// RecentLogView is one row of the recent log table.
type RecentLogView struct {
	model.LogRecord
	StatusBadge string `json:"status_badge"`
}

// UnmarshalJSON keeps the badge, which the embedded record's decoder would skip.
func (v *RecentLogView) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &v.LogRecord); err != nil {
		return err
	}
	var badge struct {
		StatusBadge string `json:"status_badge"`
	}
	if err := json.Unmarshal(data, &badge); err != nil {
		return err
	}
	v.StatusBadge = badge.StatusBadge
	return nil
}

type DashboardStateResponse struct {
	Loading            bool                 `json:"loading"`
	Error              string               `json:"error,omitempty"`
	StatsError         string               `json:"stats_error,omitempty"`
	LogsError          string               `json:"logs_error,omitempty"`
	Summary            *aggregator.Summary  `json:"summary,omitempty"`
	Snapshot           *model.StatsSnapshot `json:"snapshot,omitempty"`
	RecentLogs         []RecentLogView      `json:"recent_logs"`
	TotalLogs          int64                `json:"total_logs"`
	Charts             []chart.View         `json:"charts"`
	AutoRefreshSeconds int                  `json:"auto_refresh_seconds"`
	LastCycleID        string               `json:"last_cycle_id,omitempty"`
	LastCycleAt        *time.Time           `json:"last_cycle_at,omitempty"`
}

type RecentLogsResponse struct {
	Logs  []RecentLogView `json:"logs"`
	Total int64           `json:"total"`
}

package repository

import (
	"context"

	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/model"
)

// LogSource is the remote log API the dashboard reads from.
type LogSource interface {
	Stats(ctx context.Context) (*model.StatsSnapshot, error)
	RecentLogs(ctx context.Context, limit int) (*dto.LogListResponse, error)
}

// HealthChecker reports whether the backing log API is reachable.
type HealthChecker interface {
	Health(ctx context.Context) (*dto.HealthResponse, error)
}

// LogBackend is a log source that can also report its own health.
type LogBackend interface {
	LogSource
	HealthChecker
}

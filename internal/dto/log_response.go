package dto

import "logs-dashboard/internal/model"

type LogListResponse struct {
	Logs  []model.LogRecord `json:"logs"`
	Total int64             `json:"total"`
}

type HealthResponse struct {
	Message  string            `json:"message"`
	Services map[string]string `json:"services,omitempty"`
}

type DownloadLinkResponse struct {
	URL string `json:"url"`
}

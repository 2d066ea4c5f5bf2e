package parser

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"

	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/model"
	"logs-dashboard/internal/stats"
)

// FileSource serves stats and recent logs from a gateway export file. The
// file is re-read on every call so appended lines show up on refresh.
type FileSource struct {
	path   string
	parser LogParser
}

func NewFileSource(path string, parser LogParser) *FileSource {
	return &FileSource{path: path, parser: parser}
}

func (s *FileSource) Stats(ctx context.Context) (*model.StatsSnapshot, error) {
	records, err := s.readRecords(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Build(records), nil
}

// RecentLogs returns the newest limit records, newest first.
func (s *FileSource) RecentLogs(ctx context.Context, limit int) (*dto.LogListResponse, error) {
	records, err := s.readRecords(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	total := int64(len(records))
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return &dto.LogListResponse{Logs: records, Total: total}, nil
}

func (s *FileSource) Health(ctx context.Context) (*dto.HealthResponse, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("log export unavailable: %w", err)
	}
	return &dto.HealthResponse{
		Message:  "Log export file readable",
		Services: map[string]string{"file": s.path},
	}, nil
}

func (s *FileSource) readRecords(ctx context.Context) ([]model.LogRecord, error) {
	file, err := os.Open(s.path)
	if err != nil {
		log.Error().Err(err).Str("file", s.path).Msg("Failed to open log export")
		return nil, fmt.Errorf("failed to open log export: %w", err)
	}
	defer file.Close()

	records := []model.LogRecord{}
	skipped := 0
	scanner := bufio.NewScanner(file)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		record, err := s.parser.Parse(line)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, *record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log export: %w", err)
	}

	log.Debug().Str("file", s.path).Int("records", len(records)).Int("skipped", skipped).Msg("Read log export")
	return records, nil
}

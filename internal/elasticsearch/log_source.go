package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/rs/zerolog/log"

	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/model"
	"logs-dashboard/internal/stats"
)

const timestampField = "timestamp"

// LogSource reads gateway log records indexed in Elasticsearch and
// aggregates them locally.
type LogSource struct {
	esTypedClient *elasticsearch.TypedClient
	indexPrefix   string
	maxRecords    int
}

func NewLogSource(client *elasticsearch.TypedClient, indexPrefix string, maxRecords int) *LogSource {
	if maxRecords <= 0 {
		maxRecords = 10000
	}
	return &LogSource{
		esTypedClient: client,
		indexPrefix:   indexPrefix,
		maxRecords:    maxRecords,
	}
}

func (s *LogSource) Stats(ctx context.Context) (*model.StatsSnapshot, error) {
	records, _, err := s.search(ctx, s.maxRecords)
	if err != nil {
		return nil, err
	}
	return stats.Build(records), nil
}

func (s *LogSource) RecentLogs(ctx context.Context, limit int) (*dto.LogListResponse, error) {
	records, total, err := s.search(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &dto.LogListResponse{Logs: records, Total: total}, nil
}

func (s *LogSource) Health(ctx context.Context) (*dto.HealthResponse, error) {
	res, err := s.esTypedClient.Info().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info failed: %w", err)
	}
	return &dto.HealthResponse{
		Message:  "Elasticsearch reachable",
		Services: map[string]string{"elasticsearch": res.ClusterName},
	}, nil
}

func (s *LogSource) search(ctx context.Context, size int) ([]model.LogRecord, int64, error) {
	indexPattern := fmt.Sprintf("%s*", s.indexPrefix)
	order := sortorder.Desc
	trackTotal := types.TrackHits(true)

	searchRequest := &search.Request{
		Query: &types.Query{
			MatchAll: &types.MatchAllQuery{},
		},
		Size:           &size,
		TrackTotalHits: trackTotal,
		Sort: []types.SortCombinations{
			types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					timestampField: {Order: &order},
				},
			},
		},
	}

	res, err := s.esTypedClient.Search().
		Index(indexPattern).
		Request(searchRequest).
		Do(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error executing Elasticsearch search via TypedClient")
		return nil, 0, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	records := make([]model.LogRecord, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var record model.LogRecord
		if err := json.Unmarshal(hit.Source_, &record); err != nil {
			log.Error().Err(err).Msg("Error unmarshalling Elasticsearch hit source")
			continue
		}
		if record.Service == "" {
			record.Service = stats.ServiceForEndpoint(record.Endpoint)
		}
		records = append(records, record)
	}

	var total int64
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	} else {
		total = int64(len(records))
	}

	log.Debug().Int64("total_hits", total).Int("returned_hits", len(records)).Msg("Elasticsearch search successful")
	return records, total, nil
}

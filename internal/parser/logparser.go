package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"logs-dashboard/internal/model"
	"logs-dashboard/internal/stats"
	"logs-dashboard/internal/util"
)

// LogParser turns one line of the gateway's plain-text export into a record.
type LogParser interface {
	Parse(line string) (*model.LogRecord, error)
}

type exportLineParser struct {
	logRegex *regexp.Regexp
}

func NewExportLineParser() LogParser {
	// Groups: 1:Timestamp, 2:User, 3:Method, 4:Endpoint, 5:Status, 6:Millis, 7:Service (optional)
	regex := regexp.MustCompile(`^(\S+)\s+(\S+)\s+-\s+([A-Z]+)\s+(\S+)\s+\[(\d{3})\]\s+(\d+)ms(?:\s+(\S+))?\s*$`)
	return &exportLineParser{logRegex: regex}
}

func (p *exportLineParser) Parse(line string) (*model.LogRecord, error) {
	matches := p.logRegex.FindStringSubmatch(strings.TrimSpace(line))
	if len(matches) != 8 {
		log.Debug().Str("line", line).Msg("Log line did not match export format")
		return nil, fmt.Errorf("line does not match export format: %s", line)
	}

	timestamp, err := util.ParseTimeFlexible(matches[1])
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	status, err := strconv.Atoi(matches[5])
	if err != nil {
		return nil, fmt.Errorf("failed to parse status code: %w", err)
	}
	millis, err := strconv.ParseInt(matches[6], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response time: %w", err)
	}

	endpoint := matches[4]
	service := matches[7]
	if service == "" {
		service = stats.ServiceForEndpoint(endpoint)
	}

	return &model.LogRecord{
		Timestamp:      timestamp,
		User:           matches[2],
		Method:         matches[3],
		Endpoint:       endpoint,
		StatusCode:     status,
		ResponseTimeMs: millis,
		Service:        service,
	}, nil
}

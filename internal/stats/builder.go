// Package stats computes a StatsSnapshot from raw log records the same way
// the gateway's /logs/stats endpoint does. Sources that only hold records
// (Elasticsearch, export files) use it to serve snapshots.
package stats

import (
	"math"
	"sort"
	"strconv"

	"logs-dashboard/internal/model"
	"logs-dashboard/internal/util"
)

const topEndpointLimit = 10

type serviceTimes struct {
	calls   int64
	totalMs int64
	minMs   int64
	maxMs   int64
}

type endpointTimes struct {
	calls   int64
	totalMs int64
}

// Build aggregates records into a snapshot. Keyed sections are ordered by
// first appearance in records.
func Build(records []model.LogRecord) *model.StatsSnapshot {
	snap := &model.StatsSnapshot{
		ServiceStatistics:      model.Counts{},
		StatusCodeStatistics:   model.Counts{},
		ResponseTimeStatistics: model.ResponseTimes{},
		HourlyStats:            model.Counts{},
		DailyStats:             model.Counts{},
		TopEndpoints:           []model.EndpointStat{},
	}
	if len(records) == 0 {
		return snap
	}

	users := make(map[string]struct{})
	services := newCounter()
	statuses := newCounter()
	hours := newCounter()
	days := newCounter()
	times := make(map[string]*serviceTimes)
	var timeOrder []string
	endpoints := make(map[string]*endpointTimes)
	var endpointOrder []string
	var success, failed int64

	for _, rec := range records {
		users[rec.User] = struct{}{}

		service := rec.Service
		if service == "" {
			service = ServiceForEndpoint(rec.Endpoint)
		}
		services.add(service)
		statuses.add(statusKey(rec.StatusCode))

		if rec.IsSuccess() {
			success++
		} else {
			failed++
		}

		rt := rec.ResponseTimeMs
		st, ok := times[service]
		if !ok {
			st = &serviceTimes{minMs: rt, maxMs: rt}
			times[service] = st
			timeOrder = append(timeOrder, service)
		}
		st.calls++
		st.totalMs += rt
		if rt < st.minMs {
			st.minMs = rt
		}
		if rt > st.maxMs {
			st.maxMs = rt
		}

		if !rec.Timestamp.IsZero() {
			hours.add(util.HourKey(rec.Timestamp))
			days.add(util.DayKey(rec.Timestamp))
		}

		ep, ok := endpoints[rec.Endpoint]
		if !ok {
			ep = &endpointTimes{}
			endpoints[rec.Endpoint] = ep
			endpointOrder = append(endpointOrder, rec.Endpoint)
		}
		ep.calls++
		ep.totalMs += rt
	}

	total := int64(len(records))
	snap.TotalAPICalls = total
	snap.UniqueUsers = int64(len(users))
	snap.ServiceStatistics = services.counts()
	snap.StatusCodeStatistics = statuses.counts()
	snap.HourlyStats = hours.counts()
	snap.DailyStats = days.counts()

	for _, service := range timeOrder {
		st := times[service]
		snap.ResponseTimeStatistics = append(snap.ResponseTimeStatistics, model.ServiceResponseTime{
			Service: service,
			Stats: model.ResponseTimeStats{
				TotalCalls: st.calls,
				TotalMs:    float64(st.totalMs),
				MinMs:      float64(st.minMs),
				MaxMs:      float64(st.maxMs),
				AvgMs:      round2(float64(st.totalMs) / float64(st.calls)),
			},
		})
	}

	top := make([]model.EndpointStat, 0, len(endpointOrder))
	for _, endpoint := range endpointOrder {
		ep := endpoints[endpoint]
		top = append(top, model.EndpointStat{
			Endpoint:        endpoint,
			Calls:           ep.calls,
			AvgResponseTime: round2(float64(ep.totalMs) / float64(ep.calls)),
		})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Calls > top[j].Calls })
	if len(top) > topEndpointLimit {
		top = top[:topEndpointLimit]
	}
	snap.TopEndpoints = top

	snap.SuccessRate = round2(float64(success) / float64(total) * 100)
	snap.ErrorRate = round2(float64(failed) / float64(total) * 100)
	return snap
}

func statusKey(code int) string {
	return strconv.Itoa(code)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type counter struct {
	order  []string
	values map[string]int64
}

func newCounter() *counter {
	return &counter{values: make(map[string]int64)}
}

func (c *counter) add(key string) {
	if _, ok := c.values[key]; !ok {
		c.order = append(c.order, key)
	}
	c.values[key]++
}

func (c *counter) counts() model.Counts {
	out := make(model.Counts, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, model.Count{Key: k, Value: c.values[k]})
	}
	return out
}

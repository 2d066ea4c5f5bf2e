package aggregator

import (
	"math"

	"logs-dashboard/internal/model"
)

type Direction int

const (
	Max Direction = iota
	Min
)

func (d Direction) String() string {
	if d == Min {
		return "min"
	}
	return "max"
}

const NotApplicableLabel = "N/A"

// Entry is one keyed numeric value fed to ExtremeBy.
type Entry struct {
	Name  string
	Value float64
}

// Extreme is the winning entry of ExtremeBy. Valid is false for the
// NotApplicable sentinel returned on empty input.
type Extreme struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

var NotApplicable = Extreme{Name: NotApplicableLabel}

// Rounded returns the value rounded to the nearest integer, 0 for NotApplicable.
func (e Extreme) Rounded() int64 {
	if !e.Valid {
		return 0
	}
	return int64(math.Round(e.Value))
}

// ExtremeBy picks the entry with the largest (Max) or smallest (Min) value.
// Ties go to the later entry.
func ExtremeBy(entries []Entry, dir Direction) Extreme {
	if len(entries) == 0 {
		return NotApplicable
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if !beats(best.Value, e.Value, dir) {
			best = e
		}
	}
	return Extreme{Name: best.Name, Value: best.Value, Valid: true}
}

// beats reports whether current stays ahead of the challenger.
func beats(current, challenger float64, dir Direction) bool {
	if dir == Min {
		return current < challenger
	}
	return current > challenger
}

// ExtremeByResponseTime returns the service with the highest (Max) or lowest
// (Min) average response time.
func ExtremeByResponseTime(snapshot *model.StatsSnapshot, dir Direction) Extreme {
	if snapshot == nil {
		return NotApplicable
	}
	entries := make([]Entry, 0, len(snapshot.ResponseTimeStatistics))
	for _, rt := range snapshot.ResponseTimeStatistics {
		entries = append(entries, Entry{Name: rt.Service, Value: rt.Stats.AvgMs})
	}
	return ExtremeBy(entries, dir)
}

// ExtremeByUsage returns the most (Max) or least (Min) called service.
func ExtremeByUsage(snapshot *model.StatsSnapshot, dir Direction) Extreme {
	if snapshot == nil {
		return NotApplicable
	}
	return ExtremeBy(countEntries(snapshot.ServiceStatistics), dir)
}

func countEntries(counts model.Counts) []Entry {
	entries := make([]Entry, 0, len(counts))
	for _, c := range counts {
		entries = append(entries, Entry{Name: c.Key, Value: float64(c.Value)})
	}
	return entries
}

package chart

import (
	"fmt"
	"reflect"
	"strconv"
)

// Facet names one independently rendered chart of the dashboard.
type Facet string

const (
	FacetStatusCodes   Facet = "status_codes"
	FacetServices      Facet = "services"
	FacetResponseTimes Facet = "response_times"
	FacetHourlyTraffic Facet = "hourly_traffic"
	FacetTopEndpoints  Facet = "top_endpoints"
	FacetSuccessError  Facet = "success_error"
)

// AllFacets lists the facets in dashboard order.
func AllFacets() []Facet {
	return []Facet{
		FacetStatusCodes,
		FacetServices,
		FacetResponseTimes,
		FacetHourlyTraffic,
		FacetTopEndpoints,
		FacetSuccessError,
	}
}

func ParseFacet(s string) (Facet, bool) {
	for _, f := range AllFacets() {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

type Type string

const (
	TypeDoughnut Type = "doughnut"
	TypeBar      Type = "bar"
	TypeLine     Type = "line"
)

type TooltipRule string

const (
	TooltipValue          TooltipRule = "value"
	TooltipValuePercent   TooltipRule = "value_percent"
	TooltipPercentOfTotal TooltipRule = "percent_of_total"
	TooltipPercent        TooltipRule = "percent"
)

type Dataset struct {
	Label       string    `json:"label"`
	Values      []float64 `json:"data"`
	Colors      []string  `json:"background_color"`
	BorderColor string    `json:"border_color,omitempty"`
	BorderWidth int       `json:"border_width,omitempty"`
	Fill        bool      `json:"fill,omitempty"`
	Tension     float64   `json:"tension,omitempty"`
}

// Spec is the declarative description of one chart.
type Spec struct {
	Facet       Facet       `json:"facet"`
	Type        Type        `json:"type"`
	Title       string      `json:"title"`
	Labels      []string    `json:"labels"`
	Dataset     Dataset     `json:"dataset"`
	YAxisTitle  string      `json:"y_axis_title,omitempty"`
	Legend      string      `json:"legend,omitempty"`
	TooltipRule TooltipRule `json:"tooltip_rule"`
	AnimationMs int         `json:"animation_ms"`
}

func (s Spec) Equal(other Spec) bool {
	return reflect.DeepEqual(s, other)
}

// Total sums the dataset values.
func (s Spec) Total() float64 {
	var total float64
	for _, v := range s.Dataset.Values {
		total += v
	}
	return total
}

// ColorAt returns the fill color of point i. A single color applies to
// every point.
func (s Spec) ColorAt(i int) string {
	colors := s.Dataset.Colors
	switch len(colors) {
	case 0:
		return ""
	case 1:
		return colors[0]
	default:
		return colors[i%len(colors)]
	}
}

// TooltipText formats the tooltip of point i according to the spec's rule.
func (s Spec) TooltipText(i int) string {
	if i < 0 || i >= len(s.Dataset.Values) || i >= len(s.Labels) {
		return ""
	}
	label := s.Labels[i]
	value := s.Dataset.Values[i]

	switch s.TooltipRule {
	case TooltipValuePercent:
		return fmt.Sprintf("%s: %s (%.1f%%)", label, formatValue(value), s.percentOf(value))
	case TooltipPercentOfTotal:
		return fmt.Sprintf("%s: %s, %.1f%% of total", label, formatValue(value), s.percentOf(value))
	case TooltipPercent:
		return fmt.Sprintf("%s: %.1f%%", label, value)
	default:
		return fmt.Sprintf("%s: %s", label, formatValue(value))
	}
}

func (s Spec) percentOf(value float64) float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return value / total * 100
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

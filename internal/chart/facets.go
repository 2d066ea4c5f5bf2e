package chart

import (
	"sort"

	"logs-dashboard/internal/aggregator"
	"logs-dashboard/internal/model"
)

const (
	topServicesLimit  = 10
	topEndpointsLimit = 10
	defaultAnimation  = 300
)

type facetBuilder func(snapshot *model.StatsSnapshot) (Spec, bool)

var builders = map[Facet]facetBuilder{
	FacetStatusCodes:   statusCodesSpec,
	FacetServices:      servicesSpec,
	FacetResponseTimes: responseTimesSpec,
	FacetHourlyTraffic: hourlyTrafficSpec,
	FacetTopEndpoints:  topEndpointsSpec,
	FacetSuccessError:  successErrorSpec,
}

// BuildFacet derives the spec of one facet. It reports false when the
// snapshot has nothing to draw for that facet.
func BuildFacet(snapshot *model.StatsSnapshot, facet Facet) (Spec, bool) {
	if snapshot == nil {
		return Spec{}, false
	}
	build, ok := builders[facet]
	if !ok {
		return Spec{}, false
	}
	return build(snapshot)
}

// BuildAll derives the specs of every facet with data, in dashboard order.
func BuildAll(snapshot *model.StatsSnapshot) []Spec {
	specs := make([]Spec, 0, len(builders))
	for _, facet := range AllFacets() {
		if spec, ok := BuildFacet(snapshot, facet); ok {
			specs = append(specs, spec)
		}
	}
	return specs
}

func statusCodesSpec(snapshot *model.StatsSnapshot) (Spec, bool) {
	codes := snapshot.StatusCodeStatistics
	if len(codes) == 0 || codes.Total() == 0 {
		return Spec{}, false
	}

	labels := make([]string, 0, len(codes))
	values := make([]float64, 0, len(codes))
	colors := make([]string, 0, len(codes))
	for _, c := range codes {
		labels = append(labels, c.Key)
		values = append(values, float64(c.Value))
		colors = append(colors, StatusColor(c.Key))
	}

	return Spec{
		Facet:  FacetStatusCodes,
		Type:   TypeDoughnut,
		Title:  "Status Code Distribution",
		Labels: labels,
		Dataset: Dataset{
			Label:       "Status Codes",
			Values:      values,
			Colors:      colors,
			BorderColor: ColorWhite,
			BorderWidth: 2,
		},
		Legend:      "bottom",
		TooltipRule: TooltipValuePercent,
		AnimationMs: defaultAnimation,
	}, true
}

func servicesSpec(snapshot *model.StatsSnapshot) (Spec, bool) {
	ranked := aggregator.RankServices(snapshot, topServicesLimit)
	if len(ranked) == 0 {
		return Spec{}, false
	}

	labels := make([]string, 0, len(ranked))
	values := make([]float64, 0, len(ranked))
	for _, c := range ranked {
		labels = append(labels, aggregator.ServiceLabel(c.Key))
		values = append(values, float64(c.Value))
	}
	colors := make([]string, len(ranked))
	copy(colors, servicePalette[:len(ranked)])

	return Spec{
		Facet:  FacetServices,
		Type:   TypeBar,
		Title:  "Most Called APIs",
		Labels: labels,
		Dataset: Dataset{
			Label:  "Calls",
			Values: values,
			Colors: colors,
		},
		YAxisTitle:  "Number of Calls",
		TooltipRule: TooltipPercentOfTotal,
		AnimationMs: defaultAnimation,
	}, true
}

func responseTimesSpec(snapshot *model.StatsSnapshot) (Spec, bool) {
	times := snapshot.ResponseTimeStatistics
	if len(times) == 0 {
		return Spec{}, false
	}

	labels := make([]string, 0, len(times))
	values := make([]float64, 0, len(times))
	for _, rt := range times {
		labels = append(labels, aggregator.ServiceLabel(rt.Service))
		values = append(values, rt.Stats.AvgMs)
	}

	return Spec{
		Facet:  FacetResponseTimes,
		Type:   TypeBar,
		Title:  "Average Response Times",
		Labels: labels,
		Dataset: Dataset{
			Label:  "Average Time (ms)",
			Values: values,
			Colors: []string{ColorBlue},
		},
		YAxisTitle:  "Time (ms)",
		TooltipRule: TooltipValue,
		AnimationMs: defaultAnimation,
	}, true
}

func hourlyTrafficSpec(snapshot *model.StatsSnapshot) (Spec, bool) {
	hourly := snapshot.HourlyStats
	if len(hourly) == 0 {
		return Spec{}, false
	}

	// keys are zero padded "HH", so lexical order is chronological
	sorted := make(model.Counts, len(hourly))
	copy(sorted, hourly)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})

	labels := make([]string, 0, len(sorted))
	values := make([]float64, 0, len(sorted))
	for _, c := range sorted {
		labels = append(labels, c.Key+":00")
		values = append(values, float64(c.Value))
	}

	return Spec{
		Facet:  FacetHourlyTraffic,
		Type:   TypeLine,
		Title:  "Traffic per Hour (Last 24h)",
		Labels: labels,
		Dataset: Dataset{
			Label:       "Requests",
			Values:      values,
			Colors:      []string{ColorBlueTranslucent},
			BorderColor: ColorBlue,
			BorderWidth: 2,
			Fill:        true,
			Tension:     0.4,
		},
		YAxisTitle:  "Number of Requests",
		TooltipRule: TooltipValue,
		AnimationMs: defaultAnimation,
	}, true
}

func topEndpointsSpec(snapshot *model.StatsSnapshot) (Spec, bool) {
	endpoints := snapshot.TopEndpoints
	if len(endpoints) == 0 {
		return Spec{}, false
	}
	if len(endpoints) > topEndpointsLimit {
		endpoints = endpoints[:topEndpointsLimit]
	}

	labels := make([]string, 0, len(endpoints))
	values := make([]float64, 0, len(endpoints))
	for _, e := range endpoints {
		labels = append(labels, aggregator.FormatEndpointLabel(e.Endpoint))
		values = append(values, float64(e.Calls))
	}

	return Spec{
		Facet:  FacetTopEndpoints,
		Type:   TypeBar,
		Title:  "Top Endpoints",
		Labels: labels,
		Dataset: Dataset{
			Label:  "Calls",
			Values: values,
			Colors: []string{ColorGreen},
		},
		YAxisTitle:  "Number of Calls",
		TooltipRule: TooltipValue,
		AnimationMs: defaultAnimation,
	}, true
}

func successErrorSpec(snapshot *model.StatsSnapshot) (Spec, bool) {
	if snapshot.SuccessRate == 0 && snapshot.ErrorRate == 0 {
		return Spec{}, false
	}

	return Spec{
		Facet:  FacetSuccessError,
		Type:   TypeDoughnut,
		Title:  "Success vs Error Rate",
		Labels: []string{"Successful", "Failed"},
		Dataset: Dataset{
			Label:       "Rate",
			Values:      []float64{snapshot.SuccessRate, snapshot.ErrorRate},
			Colors:      []string{ColorGreen, ColorRed},
			BorderColor: ColorWhite,
			BorderWidth: 2,
		},
		Legend:      "bottom",
		TooltipRule: TooltipPercent,
		AnimationMs: defaultAnimation,
	}, true
}

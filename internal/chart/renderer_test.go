package chart_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logs-dashboard/internal/chart"
	"logs-dashboard/internal/model"
)

type fakeSurface struct {
	mu         sync.Mutex
	created    int
	destroyed  int
	live       int
	createErr  error
	destroyErr error
	panicOn    bool
}

func (s *fakeSurface) Create(spec chart.Spec) (chart.Drawn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicOn {
		panic("boom")
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.live != 0 {
		return nil, errors.New("created over a live chart")
	}
	s.created++
	s.live++
	return &fakeDrawn{surface: s}, nil
}

type fakeDrawn struct {
	surface *fakeSurface
}

func (d *fakeDrawn) Destroy() error {
	s := d.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed++
	s.live--
	return s.destroyErr
}

func fakeMounts() (map[chart.Facet]chart.Surface, map[chart.Facet]*fakeSurface) {
	fakes := make(map[chart.Facet]*fakeSurface)
	mounts := make(map[chart.Facet]chart.Surface)
	for _, f := range chart.AllFacets() {
		fakes[f] = &fakeSurface{}
		mounts[f] = fakes[f]
	}
	return mounts, fakes
}

func fullSnapshot(t *testing.T) *model.StatsSnapshot {
	return decodeSnapshot(t, `{
		"total_api_calls": 100,
		"service_statistics": {"auth-service": 60, "task-service": 40},
		"status_code_statistics": {"200": 80, "404": 15, "500": 5},
		"response_time_statistics": {"auth-service": {"total_calls": 60, "total_ms": 600, "min_ms": 1, "max_ms": 40, "avg_ms": 10}},
		"hourly_stats": {"10": 100},
		"top_endpoints": [{"endpoint": "/auth/login", "calls": 60, "avg_response_time": 10}],
		"success_rate": 80,
		"error_rate": 20
	}`)
}

func TestRendererCreatesEveryFacet(t *testing.T) {
	mounts, fakes := fakeMounts()
	r := chart.NewRenderer(mounts)

	for _, v := range r.Views() {
		assert.Equal(t, chart.StateAbsent, v.State)
	}

	r.Apply(fullSnapshot(t))

	for _, f := range chart.AllFacets() {
		assert.Equal(t, chart.StateCreated, r.State(f), "facet %s", f)
		assert.Equal(t, 1, fakes[f].created)
	}
}

func TestRendererSkipsUnchangedFacets(t *testing.T) {
	mounts, fakes := fakeMounts()
	r := chart.NewRenderer(mounts)

	r.Apply(fullSnapshot(t))
	r.Apply(fullSnapshot(t))

	for _, f := range chart.AllFacets() {
		assert.Equal(t, 1, fakes[f].created, "facet %s", f)
		assert.Zero(t, fakes[f].destroyed)
	}
}

func TestRendererDestroysBeforeRecreate(t *testing.T) {
	mounts, fakes := fakeMounts()
	r := chart.NewRenderer(mounts)

	r.Apply(fullSnapshot(t))
	changed := fullSnapshot(t)
	changed.SuccessRate, changed.ErrorRate = 50, 50
	r.Apply(changed)

	se := fakes[chart.FacetSuccessError]
	assert.Equal(t, 2, se.created)
	assert.Equal(t, 1, se.destroyed)
	assert.Equal(t, 1, se.live)
	assert.Equal(t, chart.StateCreated, r.State(chart.FacetSuccessError))
	assert.Equal(t, 1, fakes[chart.FacetStatusCodes].created)
}

func TestRendererEmptyFacetIsReleased(t *testing.T) {
	mounts, fakes := fakeMounts()
	r := chart.NewRenderer(mounts)

	r.Apply(fullSnapshot(t))
	partial := fullSnapshot(t)
	partial.HourlyStats = model.Counts{}
	r.Apply(partial)

	assert.Equal(t, chart.StateDestroyed, r.State(chart.FacetHourlyTraffic))
	assert.Zero(t, fakes[chart.FacetHourlyTraffic].live)
	assert.Equal(t, chart.StateCreated, r.State(chart.FacetServices))
}

func TestRendererFailuresDoNotAbortSiblings(t *testing.T) {
	mounts, fakes := fakeMounts()
	fakes[chart.FacetStatusCodes].createErr = errors.New("canvas lost")
	fakes[chart.FacetServices].panicOn = true

	var failures []chart.Facet
	r := chart.NewRenderer(mounts, chart.WithFailureHook(func(f chart.Facet, op string, err error) {
		assert.Equal(t, "create", op)
		assert.Error(t, err)
		failures = append(failures, f)
	}))

	r.Apply(fullSnapshot(t))

	assert.ElementsMatch(t, []chart.Facet{chart.FacetStatusCodes, chart.FacetServices}, failures)
	assert.Equal(t, chart.StateAbsent, r.State(chart.FacetStatusCodes))
	assert.Equal(t, chart.StateCreated, r.State(chart.FacetTopEndpoints))
	assert.Equal(t, chart.StateCreated, r.State(chart.FacetSuccessError))
}

func TestRendererDestroyFailureStillReleases(t *testing.T) {
	mounts, fakes := fakeMounts()
	r := chart.NewRenderer(mounts)
	r.Apply(fullSnapshot(t))

	fakes[chart.FacetTopEndpoints].destroyErr = errors.New("already gone")
	r.DestroyAll()

	for _, f := range chart.AllFacets() {
		assert.Equal(t, chart.StateDestroyed, r.State(f))
		assert.Zero(t, fakes[f].live)
	}
	for _, v := range r.Views() {
		assert.Nil(t, v.Spec)
	}
}

func TestRendererDestroyAllWithoutCharts(t *testing.T) {
	r := chart.NewRenderer(nil)
	assert.NotPanics(t, r.DestroyAll)
	r.Apply(nil)
	for _, v := range r.Views() {
		assert.Equal(t, chart.StateAbsent, v.State)
	}
}

func TestRendererWithoutSurfaceTracksSpecs(t *testing.T) {
	r := chart.NewRenderer(nil)
	r.Apply(fullSnapshot(t))

	for _, v := range r.Views() {
		assert.Equal(t, chart.StateAbsent, v.State)
		assert.NotNil(t, v.Spec, "facet %s", v.Facet)
	}
}

func TestImageSurfaceLifecycle(t *testing.T) {
	surfaces := chart.NewImageSurfaces(chart.FormatPNG, 640, 400)
	r := chart.NewRenderer(chart.Mounts(surfaces))

	r.Apply(fullSnapshot(t))

	for facet, s := range surfaces {
		img, contentType, ok := s.Image()
		require.True(t, ok, "facet %s", facet)
		assert.Equal(t, "image/png", contentType)
		assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")), "facet %s", facet)
	}

	r.DestroyAll()
	for _, s := range surfaces {
		_, _, ok := s.Image()
		assert.False(t, ok)
	}
}

func TestImageSurfaceRejectsDoubleCreate(t *testing.T) {
	s := chart.NewImageSurface(chart.FormatSVG, 320, 240)
	spec, ok := chart.BuildFacet(fullSnapshot(t), chart.FacetServices)
	require.True(t, ok)

	drawn, err := s.Create(spec)
	require.NoError(t, err)
	_, err = s.Create(spec)
	assert.ErrorIs(t, err, chart.ErrSurfaceBusy)

	require.NoError(t, drawn.Destroy())
	assert.ErrorIs(t, drawn.Destroy(), chart.ErrAlreadyDestroyed)
}

func TestDrawSingleHourTraffic(t *testing.T) {
	snap := decodeSnapshot(t, `{"hourly_stats": {"07": 12}}`)
	spec, ok := chart.BuildFacet(snap, chart.FacetHourlyTraffic)
	require.True(t, ok)

	for _, format := range []chart.Format{chart.FormatPNG, chart.FormatSVG} {
		var buf bytes.Buffer
		require.NoError(t, chart.Draw(spec, format, 640, 400, &buf), "format %s", format)
		assert.NotZero(t, buf.Len())
	}

	surface := chart.NewImageSurface(chart.FormatPNG, 640, 400)
	var failures []chart.Facet
	r := chart.NewRenderer(map[chart.Facet]chart.Surface{chart.FacetHourlyTraffic: surface},
		chart.WithFailureHook(func(f chart.Facet, op string, err error) { failures = append(failures, f) }))
	r.Apply(snap)

	assert.Empty(t, failures)
	assert.Equal(t, chart.StateCreated, r.State(chart.FacetHourlyTraffic))
	_, _, drawn := surface.Image()
	assert.True(t, drawn)
}

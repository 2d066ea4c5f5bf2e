package chart

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"logs-dashboard/internal/model"
)

// State is the lifecycle position of one facet's chart.
type State string

const (
	StateAbsent    State = "absent"
	StateCreated   State = "created"
	StateDestroyed State = "destroyed"
)

// Surface is the mount point a facet's chart is drawn on.
type Surface interface {
	Create(spec Spec) (Drawn, error)
}

// Drawn is a chart living on a surface.
type Drawn interface {
	Destroy() error
}

// FailureHook observes create and destroy failures.
type FailureHook func(facet Facet, op string, err error)

type View struct {
	Facet Facet `json:"facet"`
	State State `json:"state"`
	Spec  *Spec `json:"spec,omitempty"`
}

type slot struct {
	surface Surface
	spec    *Spec
	drawn   Drawn
	state   State
}

type Renderer struct {
	mu        sync.Mutex
	slots     map[Facet]*slot
	onFailure FailureHook
}

type Option func(*Renderer)

func WithFailureHook(hook FailureHook) Option {
	return func(r *Renderer) {
		r.onFailure = hook
	}
}

// NewRenderer mounts one surface per facet. Facets without a surface still
// track their spec but draw nothing.
func NewRenderer(surfaces map[Facet]Surface, opts ...Option) *Renderer {
	r := &Renderer{slots: make(map[Facet]*slot, len(AllFacets()))}
	for _, facet := range AllFacets() {
		r.slots[facet] = &slot{surface: surfaces[facet], state: StateAbsent}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply brings every facet in line with the snapshot. A nil snapshot
// releases every chart.
func (r *Renderer) Apply(snapshot *model.StatsSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, facet := range AllFacets() {
		spec, ok := BuildFacet(snapshot, facet)
		r.applyFacet(facet, spec, ok)
	}
}

func (r *Renderer) applyFacet(facet Facet, spec Spec, ok bool) {
	s := r.slots[facet]

	if ok && s.spec != nil && s.spec.Equal(spec) && (s.drawn != nil || s.surface == nil) {
		log.Debug().Str("facet", string(facet)).Msg("Chart unchanged, skipping redraw")
		return
	}

	r.destroy(facet, s)

	if !ok {
		s.spec = nil
		return
	}
	s.spec = &spec

	if s.surface == nil {
		return
	}

	drawn, err := safeCreate(s.surface, spec)
	if err != nil {
		r.fail(facet, "create", err)
		return
	}
	s.drawn = drawn
	s.state = StateCreated
	log.Debug().Str("facet", string(facet)).Int("points", len(spec.Dataset.Values)).Msg("Chart created")
}

// DestroyAll releases every chart. Safe to call with nothing drawn.
func (r *Renderer) DestroyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, facet := range AllFacets() {
		s := r.slots[facet]
		r.destroy(facet, s)
		s.spec = nil
	}
}

// destroy always leaves the slot without a chart, even when the surface
// reports an error.
func (r *Renderer) destroy(facet Facet, s *slot) {
	if s.drawn == nil {
		return
	}
	drawn := s.drawn
	s.drawn = nil
	s.state = StateDestroyed
	if err := safeDestroy(drawn); err != nil {
		r.fail(facet, "destroy", err)
	}
}

func (r *Renderer) fail(facet Facet, op string, err error) {
	log.Error().Err(err).Str("facet", string(facet)).Str("op", op).Msg("Chart render failure")
	if r.onFailure != nil {
		r.onFailure(facet, op, err)
	}
}

func (r *Renderer) Views() []View {
	r.mu.Lock()
	defer r.mu.Unlock()

	views := make([]View, 0, len(r.slots))
	for _, facet := range AllFacets() {
		s := r.slots[facet]
		v := View{Facet: facet, State: s.state}
		if s.spec != nil {
			spec := *s.spec
			v.Spec = &spec
		}
		views = append(views, v)
	}
	return views
}

func (r *Renderer) State(facet Facet) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[facet]
	if !ok {
		return StateAbsent
	}
	return s.state
}

func safeCreate(surface Surface, spec Spec) (drawn Drawn, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			drawn, err = nil, fmt.Errorf("surface panicked: %v", rec)
		}
	}()
	return surface.Create(spec)
}

func safeDestroy(drawn Drawn) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("chart panicked on destroy: %v", rec)
		}
	}()
	return drawn.Destroy()
}

package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

var (
	ErrSurfaceBusy      = errors.New("surface already holds a chart")
	ErrAlreadyDestroyed = errors.New("chart already destroyed")
	ErrNothingToDraw    = errors.New("chart has no values to draw")
)

// ImageSurface draws a facet into an in-memory image that stays available
// until the chart is destroyed.
type ImageSurface struct {
	mu         sync.RWMutex
	format     Format
	width      int
	height     int
	image      []byte
	generation uint64
}

func NewImageSurface(format Format, width, height int) *ImageSurface {
	if format != FormatSVG {
		format = FormatPNG
	}
	return &ImageSurface{format: format, width: width, height: height}
}

// ImageSurfaces holds the image surface of every facet.
type ImageSurfaces map[Facet]*ImageSurface

// NewImageSurfaces mounts one image surface per facet.
func NewImageSurfaces(format Format, width, height int) ImageSurfaces {
	surfaces := make(ImageSurfaces, len(AllFacets()))
	for _, facet := range AllFacets() {
		surfaces[facet] = NewImageSurface(format, width, height)
	}
	return surfaces
}

// Mounts adapts image surfaces to the renderer's surface map.
func Mounts(surfaces ImageSurfaces) map[Facet]Surface {
	out := make(map[Facet]Surface, len(surfaces))
	for facet, s := range surfaces {
		out[facet] = s
	}
	return out
}

func (s *ImageSurface) Create(spec Spec) (Drawn, error) {
	var buf bytes.Buffer
	if err := Draw(spec, s.format, s.width, s.height, &buf); err != nil {
		return nil, fmt.Errorf("failed to draw %s: %w", spec.Facet, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image != nil {
		return nil, ErrSurfaceBusy
	}
	s.image = buf.Bytes()
	return &imageChart{surface: s, generation: s.generation}, nil
}

// Image returns the current drawing, false when nothing is drawn.
func (s *ImageSurface) Image() ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.image == nil {
		return nil, "", false
	}
	out := make([]byte, len(s.image))
	copy(out, s.image)
	return out, s.format.ContentType(), true
}

type imageChart struct {
	surface    *ImageSurface
	generation uint64
}

func (c *imageChart) Destroy() error {
	s := c.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != c.generation {
		return ErrAlreadyDestroyed
	}
	s.image = nil
	s.generation++
	return nil
}

// Draw renders a spec with go-chart into w.
func Draw(spec Spec, format Format, width, height int, w io.Writer) error {
	if len(spec.Dataset.Values) == 0 {
		return ErrNothingToDraw
	}
	provider := gochart.PNG
	if format == FormatSVG {
		provider = gochart.SVG
	}

	switch spec.Type {
	case TypeDoughnut:
		return drawDoughnut(spec, width, height, provider, w)
	case TypeBar:
		return drawBar(spec, width, height, provider, w)
	case TypeLine:
		return drawLine(spec, width, height, provider, w)
	default:
		return fmt.Errorf("unsupported chart type %q", spec.Type)
	}
}

func drawDoughnut(spec Spec, width, height int, provider gochart.RendererProvider, w io.Writer) error {
	if spec.Total() <= 0 {
		return ErrNothingToDraw
	}
	border, err := parseColor(spec.Dataset.BorderColor, drawing.ColorWhite)
	if err != nil {
		return err
	}

	values := make([]gochart.Value, 0, len(spec.Dataset.Values))
	for i, v := range spec.Dataset.Values {
		fill, err := parseColor(spec.ColorAt(i), drawing.ColorBlack)
		if err != nil {
			return err
		}
		values = append(values, gochart.Value{
			Label: spec.Labels[i],
			Value: v,
			Style: gochart.Style{
				FillColor:   fill,
				StrokeColor: border,
				StrokeWidth: float64(spec.Dataset.BorderWidth),
			},
		})
	}

	donut := gochart.DonutChart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	return donut.Render(provider, w)
}

func drawBar(spec Spec, width, height int, provider gochart.RendererProvider, w io.Writer) error {
	bars := make([]gochart.Value, 0, len(spec.Dataset.Values))
	maxValue := 1.0
	for i, v := range spec.Dataset.Values {
		fill, err := parseColor(spec.ColorAt(i), drawing.ColorBlack)
		if err != nil {
			return err
		}
		if v > maxValue {
			maxValue = v
		}
		bars = append(bars, gochart.Value{
			Label: spec.Labels[i],
			Value: v,
			Style: gochart.Style{FillColor: fill, StrokeColor: fill},
		})
	}

	barWidth := (width - 100) / (len(bars) * 2)
	if barWidth < 10 {
		barWidth = 10
	}

	bar := gochart.BarChart{
		Title:    spec.Title,
		Width:    width,
		Height:   height,
		BarWidth: barWidth,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		YAxis: gochart.YAxis{
			Name:  spec.YAxisTitle,
			Range: &gochart.ContinuousRange{Min: 0, Max: maxValue},
		},
		Bars: bars,
	}
	return bar.Render(provider, w)
}

func drawLine(spec Spec, width, height int, provider gochart.RendererProvider, w io.Writer) error {
	stroke, err := parseColor(spec.Dataset.BorderColor, drawing.ColorBlue)
	if err != nil {
		return err
	}
	fill, err := parseColor(spec.ColorAt(0), drawing.ColorTransparent)
	if err != nil {
		return err
	}
	if !spec.Dataset.Fill {
		fill = drawing.ColorTransparent
	}

	n := len(spec.Dataset.Values)
	xs := make([]float64, n)
	ticks := make([]gochart.Tick, n)
	maxValue := 1.0
	for i, v := range spec.Dataset.Values {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: spec.Labels[i]}
		if v > maxValue {
			maxValue = v
		}
	}
	ys := append([]float64(nil), spec.Dataset.Values...)

	// a single point still needs a non-empty x range; go-chart takes the
	// range from the ticks when they are set
	if n == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
		ticks = append(ticks, gochart.Tick{Value: 1, Label: ""})
	}
	maxX := float64(len(xs) - 1)

	ch := gochart.Chart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: maxX},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  spec.YAxisTitle,
			Range: &gochart.ContinuousRange{Min: 0, Max: maxValue},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    spec.Dataset.Label,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: stroke,
					StrokeWidth: float64(spec.Dataset.BorderWidth),
					FillColor:   fill,
				},
			},
		},
	}
	return ch.Render(provider, w)
}

// parseColor reads #RRGGBB or #RRGGBBAA, falling back when the color is empty.
func parseColor(hex string, fallback drawing.Color) (drawing.Color, error) {
	if hex == "" {
		return fallback, nil
	}
	raw := strings.TrimPrefix(hex, "#")
	if len(raw) != 6 && len(raw) != 8 {
		return drawing.Color{}, fmt.Errorf("invalid color %q", hex)
	}
	if len(raw) == 6 {
		raw += "ff"
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return drawing.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return drawing.Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

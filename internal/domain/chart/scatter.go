// Package chart turns dashboard toggles into declarative chart
// specifications.  It never renders; the front end draws whatever it is given.
package chart

import (
	"strconv"
	"strings"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// ColorBy selects the dimension bubbles are colored by.
type ColorBy string

const (
	ColorByRegion    ColorBy = "Region"
	ColorByCountry   ColorBy = "Country"
	ColorByInfluence ColorBy = "Influence"
)

// ColorSchemes lists the accepted ColorBy values in menu order.
var ColorSchemes = []ColorBy{ColorByRegion, ColorByCountry, ColorByInfluence}

// ParseColorBy accepts a scheme name case-insensitively; empty means Region.
func ParseColorBy(s string) (ColorBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "region":
		return ColorByRegion, nil
	case "country":
		return ColorByCountry, nil
	case "influence", "regional influence":
		return ColorByInfluence, nil
	}
	return "", errors.New(errors.ErrCodeChartOptionInvalid, "unknown color scheme").WithDetail(s)
}

// AxisLayout picks which index goes on the value (Y) axis.
type AxisLayout string

const (
	// LayoutOpportunityY puts Opportunity Index on Y and Regulatory Index on X.
	LayoutOpportunityY AxisLayout = "opportunity_y"
	// LayoutRegulatoryY is the swapped layout used by earlier dashboards.
	LayoutRegulatoryY AxisLayout = "regulatory_y"
)

// ParseAxisLayout validates a layout name; empty means LayoutOpportunityY.
func ParseAxisLayout(s string) (AxisLayout, error) {
	switch AxisLayout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutOpportunityY:
		return LayoutOpportunityY, nil
	case LayoutRegulatoryY:
		return LayoutRegulatoryY, nil
	}
	return "", errors.New(errors.ErrCodeChartOptionInvalid, "unknown axis layout").WithDetail(s)
}

const (
	BubbleSizeMin     = 50
	BubbleSizeMax     = 500
	BubbleSizeDefault = 200

	scatterTitle    = "Market Overview"
	scatterHeight   = 700
	scatterTemplate = "simple_white"
)

// Influence colors and their fixed category order.
var (
	InfluenceColors = map[string]string{
		string(readiness.InfluenceLow):    "purple",
		string(readiness.InfluenceMedium): "yellow",
		string(readiness.InfluenceHigh):   "orange",
	}
	InfluenceOrder = []string{
		string(readiness.InfluenceLow),
		string(readiness.InfluenceMedium),
		string(readiness.InfluenceHigh),
	}
)

// Bucketed tick overrides.
var (
	xBucketTicks = TickOverride{Values: []float64{2, 5, 8}, Labels: []string{"Low", "Med.", "High"}}
	yBucketTicks = TickOverride{Values: []float64{1, 2, 3}, Labels: []string{"Low", "Med.", "High"}}
)

// Options are the scatter chart toggles.
type Options struct {
	ColorBy         ColorBy
	LogScale        bool
	TickBucketing   bool
	BubbleSizeMax   int
	InfluenceFilter readiness.InfluenceTier
	AxisLayout      AxisLayout
}

// TickOverride replaces an axis' ticks with fixed positions and labels.
type TickOverride struct {
	Values []float64 `json:"tickvals"`
	Labels []string  `json:"ticktext"`
}

// Axis describes one axis.
type Axis struct {
	Field string        `json:"field"`
	Log   bool          `json:"log"`
	Ticks *TickOverride `json:"ticks,omitempty"`
}

// Font is the title/label font.
type Font struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
}

// ScatterSpec is the bubble chart description handed to the front end.
type ScatterSpec struct {
	Type            string            `json:"type"`
	Title           string            `json:"title"`
	Height          int               `json:"height"`
	Template        string            `json:"template"`
	Font            Font              `json:"font"`
	X               Axis              `json:"x"`
	Y               Axis              `json:"y"`
	SizeField       string            `json:"size_field"`
	SizeMax         int               `json:"size_max"`
	HoverField      string            `json:"hover_field"`
	ColorField      string            `json:"color_field"`
	ColorMap        map[string]string `json:"color_map,omitempty"`
	CategoryOrder   []string          `json:"category_order,omitempty"`
	InfluenceFilter string            `json:"influence_filter,omitempty"`
}

// Bounds constrains the bubble size slider.
type Bounds struct {
	Min, Max, Default int
}

// DefaultBounds is the 50..500 slider starting at 200.
var DefaultBounds = Bounds{Min: BubbleSizeMin, Max: BubbleSizeMax, Default: BubbleSizeDefault}

// Configurator builds chart specs under fixed bubble size bounds.
type Configurator struct {
	bounds Bounds
}

// NewConfigurator returns a Configurator.  Zero bounds fall back to
// DefaultBounds.
func NewConfigurator(b Bounds) *Configurator {
	if b.Min == 0 && b.Max == 0 {
		b = DefaultBounds
	}
	if b.Default == 0 {
		b.Default = DefaultBounds.Default
	}
	return &Configurator{bounds: b}
}

// Bounds returns the configured slider bounds.
func (c *Configurator) Bounds() Bounds { return c.bounds }

// Configure builds a ScatterSpec using DefaultBounds.
func Configure(opts Options) (ScatterSpec, error) {
	return NewConfigurator(DefaultBounds).Configure(opts)
}

// Configure builds the scatter spec for opts.  A zero BubbleSizeMax selects
// the default size; any other value outside the bounds is rejected.
func (c *Configurator) Configure(opts Options) (ScatterSpec, error) {
	size := opts.BubbleSizeMax
	if size == 0 {
		size = c.bounds.Default
	}
	if size < c.bounds.Min || size > c.bounds.Max {
		return ScatterSpec{}, errors.Newf(errors.ErrCodeChartOptionInvalid,
			"bubble size must be between %d and %d", c.bounds.Min, c.bounds.Max).
			WithDetail(strconv.Itoa(size))
	}

	colorBy := opts.ColorBy
	if colorBy == "" {
		colorBy = ColorByRegion
	}
	switch colorBy {
	case ColorByRegion, ColorByCountry, ColorByInfluence:
	default:
		return ScatterSpec{}, errors.New(errors.ErrCodeChartOptionInvalid, "unknown color scheme").WithDetail(string(colorBy))
	}

	layout := opts.AxisLayout
	if layout == "" {
		layout = LayoutOpportunityY
	}

	spec := ScatterSpec{
		Type:       "scatter",
		Title:      scatterTitle,
		Height:     scatterHeight,
		Template:   scatterTemplate,
		Font:       Font{Family: "'Noto Sans KR', sans-serif", Size: 18},
		SizeField:  string(readiness.ColumnMarketSize),
		SizeMax:    size,
		HoverField: string(readiness.ColumnCountry),
		ColorField: string(colorBy),
	}

	switch layout {
	case LayoutOpportunityY:
		spec.X = Axis{Field: string(readiness.ColumnRegulatoryIndex)}
		spec.Y = Axis{Field: string(readiness.ColumnOpportunityIndex)}
	case LayoutRegulatoryY:
		spec.X = Axis{Field: string(readiness.ColumnOpportunityIndex)}
		spec.Y = Axis{Field: string(readiness.ColumnRegulatoryIndex)}
	default:
		return ScatterSpec{}, errors.New(errors.ErrCodeChartOptionInvalid, "unknown axis layout").WithDetail(string(layout))
	}
	spec.Y.Log = opts.LogScale

	if opts.TickBucketing {
		x, y := xBucketTicks, yBucketTicks
		spec.X.Ticks = &x
		spec.Y.Ticks = &y
	}

	if colorBy == ColorByInfluence {
		spec.ColorMap = make(map[string]string, len(InfluenceColors))
		for k, v := range InfluenceColors {
			spec.ColorMap[k] = v
		}
		spec.CategoryOrder = append([]string(nil), InfluenceOrder...)
	}

	if !opts.InfluenceFilter.IsAll() {
		spec.InfluenceFilter = string(opts.InfluenceFilter)
	}
	return spec, nil
}

//Personal.AI order the ending

// Package style derives deterministic visual-style parameters from block
// demographic summaries: fill color from the dominant category, opacity from
// how far its share sits above the dominance threshold.
package style

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/segmap/internal/census"
)

// Visual defaults. The stroke is always rendered at half the fill's
// intensity; both knobs are exposed on Options but these values are the
// contract.
const (
	DefaultDominanceThreshold = 0.65
	DefaultStrokeWeight       = 1.0
	DefaultStrokeOpacityRatio = 0.5
)

// Style holds the rendering parameters for one block. The zero value is the
// invisible style: no fill, no stroke.
type Style struct {
	Visible       bool    `json:"visible"`
	FillColor     string  `json:"fill_color,omitempty"`
	FillOpacity   float64 `json:"fill_opacity"`
	StrokeColor   string  `json:"stroke_color,omitempty"`
	StrokeOpacity float64 `json:"stroke_opacity"`
	StrokeWeight  float64 `json:"stroke_weight"`
}

// Invisible returns the style for blocks with no usable summary.
func Invisible() Style {
	return Style{}
}

// Options configures an Encoder. Zero-valued stroke knobs fall back to the
// defaults; the threshold is taken as given so that 0 remains a valid choice.
type Options struct {
	DominanceThreshold float64
	StrokeWeight       float64
	StrokeOpacityRatio float64
}

// Encoder maps summaries to styles under a fixed catalog, palette, and
// dominance threshold. Safe for concurrent use: it is immutable after
// construction.
type Encoder struct {
	catalog      census.Catalog
	colors       []string
	threshold    float64
	strokeWeight float64
	strokeRatio  float64
}

// NewEncoder validates the catalog/palette pairing once, at setup, so that
// no per-block call can fail on a length mismatch.
func NewEncoder(catalog census.Catalog, colors []string, opts Options) (*Encoder, error) {
	if len(catalog) == 0 {
		return nil, eris.New("style: empty category catalog")
	}
	if len(colors) != len(catalog) {
		return nil, eris.Errorf("style: %d colors for %d categories", len(colors), len(catalog))
	}
	if opts.DominanceThreshold < 0 || opts.DominanceThreshold >= 1 {
		return nil, eris.Errorf("style: dominance threshold %v outside [0,1)", opts.DominanceThreshold)
	}
	if opts.StrokeWeight == 0 {
		opts.StrokeWeight = DefaultStrokeWeight
	}
	if opts.StrokeOpacityRatio == 0 {
		opts.StrokeOpacityRatio = DefaultStrokeOpacityRatio
	}

	return &Encoder{
		catalog:      catalog,
		colors:       colors,
		threshold:    opts.DominanceThreshold,
		strokeWeight: opts.StrokeWeight,
		strokeRatio:  opts.StrokeOpacityRatio,
	}, nil
}

// Catalog returns the encoder's category catalog.
func (e *Encoder) Catalog() census.Catalog {
	return e.catalog
}

// Encode derives the style for a summary. A nil summary (sparse block or
// missing join) encodes to the invisible style.
//
// Opacity is a linear rescale of the dominant share above the threshold:
// 0 at the threshold, 1 at a fully homogeneous block, clamped at 0 below.
func (e *Encoder) Encode(sum *census.Summary) Style {
	if sum == nil {
		return Invisible()
	}

	share := float64(sum.DominantCount) / float64(sum.TotalPopulation)
	opacity := (share - e.threshold) / (1 - e.threshold)
	if opacity < 0 {
		opacity = 0
	}

	color := e.colors[sum.DominantIndex]
	return Style{
		Visible:       true,
		FillColor:     color,
		FillOpacity:   opacity,
		StrokeColor:   color,
		StrokeOpacity: opacity * e.strokeRatio,
		StrokeWeight:  e.strokeWeight,
	}
}

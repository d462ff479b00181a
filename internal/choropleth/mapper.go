// Package choropleth joins GeoJSON block features to the demographic index
// and attaches the derived style and tooltip properties the map renderer
// consumes.
package choropleth

import (
	"context"
	"encoding/json"
	"io"
	"runtime"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/segmap/internal/census"
	"github.com/sells-group/segmap/internal/style"
)

// DefaultGeoIDProperty is the feature property holding the block GEOID in
// TIGER-derived GeoJSON.
const DefaultGeoIDProperty = "GEOID"

// Mapper styles features by looking their GEOID up in the demographic index.
// Immutable after construction; per-feature calls are pure and safe to run
// concurrently.
type Mapper struct {
	index    census.Index
	enc      *style.Encoder
	geoidKey string
}

// NewMapper creates a Mapper. geoidKey selects the feature property carrying
// the GEOID; empty means DefaultGeoIDProperty.
func NewMapper(index census.Index, enc *style.Encoder, geoidKey string) *Mapper {
	if geoidKey == "" {
		geoidKey = DefaultGeoIDProperty
	}
	return &Mapper{index: index, enc: enc, geoidKey: geoidKey}
}

// LoadFeatures decodes a GeoJSON FeatureCollection.
func LoadFeatures(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "choropleth: read features")
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "choropleth: decode feature collection")
	}
	return &fc, nil
}

// WriteFeatures encodes a FeatureCollection as GeoJSON.
func WriteFeatures(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrap(err, "choropleth: encode feature collection")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "choropleth: write feature collection")
	}
	return nil
}

// geoID extracts the join key from a feature's properties. A missing or
// non-string property reads as no key, which downstream treats as a missing
// join, not an error.
func (m *Mapper) geoID(f *geojson.Feature) string {
	if f.Properties == nil {
		return ""
	}
	v, ok := f.Properties[m.geoidKey]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Summarize returns the summary for a feature's block, or nil when the
// GEOID has no index entry or the block is sparse. Both absences render the
// same way: invisible, no tooltip.
func (m *Mapper) Summarize(f *geojson.Feature) (*census.Summary, error) {
	rec, ok := m.index[m.geoID(f)]
	if !ok {
		return nil, nil
	}
	return m.enc.Catalog().Summarize(rec)
}

// StyleFeature computes the style for one feature.
func (m *Mapper) StyleFeature(f *geojson.Feature) (style.Style, error) {
	sum, err := m.Summarize(f)
	if err != nil {
		return style.Style{}, err
	}
	return m.enc.Encode(sum), nil
}

// Tooltip returns the hover text for a feature. ok is false for invisible
// blocks, which have no tooltip.
func (m *Mapper) Tooltip(f *geojson.Feature) (text string, ok bool, err error) {
	sum, err := m.Summarize(f)
	if err != nil {
		return "", false, err
	}
	if sum == nil {
		return "", false, nil
	}
	return m.enc.Tooltip(sum), true, nil
}

// StyleFeatures annotates every feature in the collection with its style
// and, for visible blocks, its tooltip. Styling is fanned out across
// goroutines; each one touches only its own feature.
func (m *Mapper) StyleFeatures(ctx context.Context, fc *geojson.FeatureCollection) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var styled int
	for _, f := range fc.Features {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "choropleth: style cancelled")
			}

			sum, err := m.Summarize(f)
			if err != nil {
				return eris.Wrapf(err, "choropleth: style feature %s", m.geoID(f))
			}

			st := m.enc.Encode(sum)
			if f.Properties == nil {
				f.Properties = make(map[string]interface{}, 7)
			}
			f.Properties["visible"] = st.Visible
			f.Properties["fill_color"] = st.FillColor
			f.Properties["fill_opacity"] = st.FillOpacity
			f.Properties["stroke_color"] = st.StrokeColor
			f.Properties["stroke_opacity"] = st.StrokeOpacity
			f.Properties["stroke_weight"] = st.StrokeWeight
			if sum != nil {
				f.Properties["tooltip"] = m.enc.Tooltip(sum)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, f := range fc.Features {
		if v, _ := f.Properties["visible"].(bool); v {
			styled++
		}
	}
	zap.L().Info("choropleth: styled features",
		zap.Int("total", len(fc.Features)),
		zap.Int("visible", styled),
	)
	return nil
}

// Package shapes converts TIGER/Line block-group shapefiles into GeoJSON
// feature collections carrying the GEOID property the join layer keys on.
package shapes

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// DefaultGeoIDField is the attribute name TIGER 2020 block-group shapefiles
// use for the full GEOID.
const DefaultGeoIDField = "GEOID20"

// Convert reads a shapefile and returns a FeatureCollection with one feature
// per record, its geometry converted to a MultiPolygon and its GEOID
// attribute copied into properties. Records with no geometry or an empty
// GEOID are skipped, not fatal.
func Convert(shpPath, geoidField string) (*geojson.FeatureCollection, error) {
	if geoidField == "" {
		geoidField = DefaultGeoIDField
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "shapes: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	geoidIdx := fieldIndex(reader, geoidField)
	if geoidIdx < 0 {
		return nil, eris.Errorf("shapes: field %q not found in %s", geoidField, shpPath)
	}

	fc := &geojson.FeatureCollection{}
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		geoid := strings.TrimSpace(strings.TrimRight(reader.Attribute(geoidIdx), "\x00"))
		if geoid == "" {
			skipped++
			continue
		}

		g := toMultiPolygon(shape)
		if g == nil {
			skipped++
			continue
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   g,
			Properties: map[string]interface{}{"GEOID": geoid},
		})
	}

	if skipped > 0 {
		zap.L().Debug("shapes: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return fc, nil
}

// fieldIndex returns the index of a named attribute, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

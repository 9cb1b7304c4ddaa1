package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/planar"
)

// SRID is the spatial reference used by every geometry-producing code path
// (WGS84 lat/lng). Boundary seeds, feed records, and direct submissions all
// store geometries in this reference.
const SRID = 4326

// Point returns the WKT for a lng/lat coordinate pair. Note the WKT axis
// order: x (longitude) first.
func Point(lng, lat float64) string {
	return fmt.Sprintf("POINT (%v %v)", lng, lat)
}

// Contains reports whether the polygonal geometry given as WKT contains the
// point given as WKT. Points exactly on the boundary count as contained,
// matching ST_Covers semantics in the Postgres store.
func Contains(geomWKT, pointWKT string) (bool, error) {
	g, err := wkt.Unmarshal(geomWKT)
	if err != nil {
		return false, fmt.Errorf("parse geometry: %w", err)
	}

	p, err := wkt.Unmarshal(pointWKT)
	if err != nil {
		return false, fmt.Errorf("parse point: %w", err)
	}
	point, ok := p.(orb.Point)
	if !ok {
		return false, fmt.Errorf("expected POINT, got %s", p.GeoJSONType())
	}

	switch g := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, point), nil
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, point), nil
	default:
		return false, fmt.Errorf("expected POLYGON or MULTIPOLYGON, got %s", g.GeoJSONType())
	}
}

// ParsePoint extracts lng/lat from a WKT point.
func ParsePoint(pointWKT string) (lng, lat float64, err error) {
	p, err := wkt.Unmarshal(pointWKT)
	if err != nil {
		return 0, 0, fmt.Errorf("parse point: %w", err)
	}
	point, ok := p.(orb.Point)
	if !ok {
		return 0, 0, fmt.Errorf("expected POINT, got %s", p.GeoJSONType())
	}
	return point.Lon(), point.Lat(), nil
}

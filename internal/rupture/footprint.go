package rupture

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/rupture-cli/internal/geometry"
	"github.com/sells-group/rupture-cli/internal/projection"
)

// SRID of footprint geometries.
const SRID = 4326

// Footprint returns the surface projection of the rupture in lon/lat. A
// dipping rupture gives a polygon, a vertical one its trace as a line
// string, and a zero-length rupture a point.
func Footprint(p projection.Projection, r Rupture) (geom.T, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	wh := geometry.ProjectedWidth(r.Width, r.Dip)

	corner := func(x, y float64) []float64 {
		lat, lon := p.ToGeographic(x, y, r.TraceStartLat, r.TraceStartLon, r.Azimuth)
		return []float64{lon, lat}
	}

	switch {
	case r.Length == 0 && wh == 0:
		return geom.NewPointFlat(geom.XY, corner(0, 0)).SetSRID(SRID), nil
	case wh == 0:
		flat := append(corner(0, 0), corner(r.Length, 0)...)
		return geom.NewLineStringFlat(geom.XY, flat).SetSRID(SRID), nil
	case r.Length == 0:
		flat := append(corner(0, 0), corner(0, wh)...)
		return geom.NewLineStringFlat(geom.XY, flat).SetSRID(SRID), nil
	}

	var flat []float64
	for _, c := range [][2]float64{{0, 0}, {0, wh}, {r.Length, wh}, {r.Length, 0}, {0, 0}} {
		flat = append(flat, corner(c[0], c[1])...)
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(SRID), nil
}

// EncodeEWKB encodes a footprint as little-endian EWKB.
func EncodeEWKB(g geom.T) ([]byte, error) {
	data, err := ewkb.Marshal(g, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "rupture: encode EWKB")
	}
	return data, nil
}

package scenario

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ParseSitesGeoJSON reads sites from the point and multipoint features of a
// GeoJSON feature collection. The site ID is the feature's "id" property,
// falling back to the feature ID. Other geometries are skipped.
func ParseSitesGeoJSON(data []byte) ([]Site, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, eris.Wrap(err, "scenario: parse geojson")
	}

	var sites []Site
	var skipped int
	for _, f := range fc.Features {
		id := featureID(f)
		switch g := f.Geometry.(type) {
		case orb.Point:
			sites = append(sites, Site{ID: id, Lat: g.Lat(), Lon: g.Lon()})
		case orb.MultiPoint:
			for k, p := range g {
				sub := id
				if sub != "" {
					sub = fmt.Sprintf("%s-%d", id, k)
				}
				sites = append(sites, Site{ID: sub, Lat: p.Lat(), Lon: p.Lon()})
			}
		default:
			skipped++
		}
	}

	if skipped > 0 {
		zap.L().Debug("scenario: skipped non-point geojson features", zap.Int("skipped", skipped))
	}
	return sites, nil
}

func featureID(f *geojson.Feature) string {
	if s := idString(f.Properties["id"]); s != "" {
		return s
	}
	return idString(f.ID)
}

func idString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

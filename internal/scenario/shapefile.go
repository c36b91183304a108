package scenario

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ReadSitesShapefile reads point sites from an ESRI shapefile. The site ID
// comes from an "id" or "name" attribute when present. Records without
// point geometry are skipped.
func ReadSitesShapefile(shpPath string) ([]Site, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	if len(fields) == 0 {
		zap.L().Debug("scenario: shapefile has no attribute table, site ids left empty",
			zap.String("path", shpPath),
		)
	}
	idIdx := -1
	for i, f := range fields {
		name := strings.ToLower(strings.TrimRight(f.String(), "\x00"))
		if name == "id" || (name == "name" && idIdx < 0) {
			idIdx = i
		}
	}

	var sites []Site
	var skipped int
	for reader.Next() {
		n, shape := reader.Shape()

		var pts []shp.Point
		switch s := shape.(type) {
		case *shp.Point:
			pts = []shp.Point{*s}
		case *shp.PointZ:
			pts = []shp.Point{{X: s.X, Y: s.Y}}
		case *shp.PointM:
			pts = []shp.Point{{X: s.X, Y: s.Y}}
		case *shp.MultiPoint:
			pts = s.Points
		default:
			skipped++
			continue
		}

		id := ""
		if idIdx >= 0 {
			id = strings.TrimSpace(strings.TrimRight(reader.ReadAttribute(n, idIdx), "\x00"))
		}
		for _, p := range pts {
			sites = append(sites, Site{ID: id, Lat: p.Y, Lon: p.X})
		}
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "scenario: read shapefile %s", shpPath)
	}

	if skipped > 0 {
		zap.L().Debug("scenario: skipped non-point shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	return sites, nil
}

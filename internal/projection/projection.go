// Package projection maps geographic coordinates into a local planar frame
// centred on a reference point and rotated to a bearing.
package projection

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// EarthRadiusKm is the spherical radius that makes one degree of arc equal
// to sixty nautical miles (111.12 km).
const EarthRadiusKm = 1.852 * 60 * 180 / math.Pi

// Projection names accepted by New.
const (
	NameEquidistant  = "azimuthal_equidistant"
	NameOrthographic = "azimuthal_orthographic"
)

const (
	radians = math.Pi / 180
	degrees = 180 / math.Pi
)

// Projection converts between latitude/longitude (degrees) and a local
// frame in kilometres. In the local frame x points along bearing and y
// points along bearing+90, so a point to the right of the bearing has a
// positive y.
type Projection interface {
	ToLocal(lat, lon, refLat, refLon, bearing float64) (x, y float64)
	ToGeographic(x, y, refLat, refLon, bearing float64) (lat, lon float64)
}

// New returns the projection registered under name. An empty name selects
// the azimuthal equidistant frame. A non-positive radius uses EarthRadiusKm.
func New(name string, radiusKm float64) (Projection, error) {
	if radiusKm <= 0 {
		radiusKm = EarthRadiusKm
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameEquidistant:
		return AzimuthalEquidistant{RadiusKm: radiusKm}, nil
	case NameOrthographic:
		return AzimuthalOrthographic{RadiusKm: radiusKm}, nil
	default:
		return nil, eris.Errorf("projection: unknown projection %q", name)
	}
}

// rotate turns an east/north offset into the bearing-aligned frame.
func rotate(east, north, bearing float64) (x, y float64) {
	b := bearing * radians
	sinB, cosB := math.Sincos(b)
	x = north*cosB + east*sinB
	y = east*cosB - north*sinB
	return x, y
}

// unrotate is the inverse of rotate.
func unrotate(x, y, bearing float64) (east, north float64) {
	b := bearing * radians
	sinB, cosB := math.Sincos(b)
	north = x*cosB - y*sinB
	east = x*sinB + y*cosB
	return east, north
}

func wrap180(degs float64) float64 {
	if degs < -180 || degs > 180 {
		degs = math.Mod(degs, 360)
		if degs < -180 {
			degs += 360
		} else if degs > 180 {
			degs -= 360
		}
	}
	return degs
}

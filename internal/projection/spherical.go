package projection

import "math"

// GreatCircle returns the haversine distance between two points on a sphere
// of the given radius. The result has the radius' units.
func GreatCircle(lat1, lon1, lat2, lon2, radius float64) float64 {
	φ1 := lat1 * radians
	φ2 := lat2 * radians
	Δφ := φ2 - φ1
	Δλ := (lon2 - lon1) * radians
	sΔφ2 := math.Sin(Δφ / 2)
	sΔλ2 := math.Sin(Δλ / 2)
	haver := sΔφ2*sΔφ2 + math.Cos(φ1)*math.Cos(φ2)*sΔλ2*sΔλ2
	if haver > 1 {
		haver = 1
	}
	return radius * 2 * math.Asin(math.Sqrt(haver))
}

// Bearing returns the initial great-circle bearing from point 1 to point 2
// in degrees, normalised to [-180, 180].
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * radians
	φ2 := lat2 * radians
	Δλ := (lon2 - lon1) * radians
	y := math.Sin(Δλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	return wrap180(math.Atan2(y, x) * degrees)
}

// Destination returns the point reached by travelling dist along a great
// circle from (lat1, lon1) with the given initial bearing.
func Destination(lat1, lon1, bearing, dist, radius float64) (lat2, lon2 float64) {
	δ := dist / radius
	θ := bearing * radians
	φ1 := lat1 * radians
	λ1 := lon1 * radians
	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) +
		math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1),
		math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))
	λ2 = math.Mod(λ2+3*math.Pi, 2*math.Pi) - math.Pi
	return φ2 * degrees, λ2 * degrees
}

// AzimuthalEquidistant is a spherical azimuthal equidistant frame. The
// distance from the reference point to any projected point equals the
// great-circle distance.
type AzimuthalEquidistant struct {
	RadiusKm float64
}

func (p AzimuthalEquidistant) radius() float64 {
	if p.RadiusKm <= 0 {
		return EarthRadiusKm
	}
	return p.RadiusKm
}

// ToLocal implements Projection.
func (p AzimuthalEquidistant) ToLocal(lat, lon, refLat, refLon, bearing float64) (x, y float64) {
	r := p.radius()
	s := GreatCircle(refLat, refLon, lat, lon, r)
	if s == 0 {
		return 0, 0
	}
	θ := (Bearing(refLat, refLon, lat, lon) - bearing) * radians
	sinθ, cosθ := math.Sincos(θ)
	return s * cosθ, s * sinθ
}

// ToGeographic implements Projection.
func (p AzimuthalEquidistant) ToGeographic(x, y, refLat, refLon, bearing float64) (lat, lon float64) {
	s := math.Hypot(x, y)
	if s == 0 {
		return refLat, refLon
	}
	az := bearing + math.Atan2(y, x)*degrees
	return Destination(refLat, refLon, az, s, p.radius())
}

// AzimuthalOrthographic is the orthographic frame used by earlier releases.
// Distances from the reference point are foreshortened to R·sin(c), so it
// is only suitable within a few degrees of the reference.
type AzimuthalOrthographic struct {
	RadiusKm float64
}

func (p AzimuthalOrthographic) radius() float64 {
	if p.RadiusKm <= 0 {
		return EarthRadiusKm
	}
	return p.RadiusKm
}

// ToLocal implements Projection.
func (p AzimuthalOrthographic) ToLocal(lat, lon, refLat, refLon, bearing float64) (x, y float64) {
	r := p.radius()
	φ := lat * radians
	φ0 := refLat * radians
	Δλ := (lon - refLon) * radians
	east := r * math.Cos(φ) * math.Sin(Δλ)
	north := r * (math.Cos(φ0)*math.Sin(φ) - math.Sin(φ0)*math.Cos(φ)*math.Cos(Δλ))
	return rotate(east, north, bearing)
}

// ToGeographic implements Projection.
func (p AzimuthalOrthographic) ToGeographic(x, y, refLat, refLon, bearing float64) (lat, lon float64) {
	r := p.radius()
	east, north := unrotate(x, y, bearing)
	ρ := math.Hypot(east, north)
	if ρ == 0 {
		return refLat, refLon
	}
	ratio := ρ / r
	if ratio > 1 {
		ratio = 1
	}
	c := math.Asin(ratio)
	sinC, cosC := math.Sincos(c)
	φ0 := refLat * radians
	λ0 := refLon * radians
	φ := math.Asin(cosC*math.Sin(φ0) + north*sinC*math.Cos(φ0)/ρ)
	λ := λ0 + math.Atan2(east*sinC, ρ*math.Cos(φ0)*cosC-north*math.Sin(φ0)*sinC)
	return φ * degrees, wrap180(λ * degrees)
}

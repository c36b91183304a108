// Package geometry holds closed-form closest-point computations between a
// site and a rupture rectangle expressed in a local strike-aligned frame.
//
// Frame: x runs along strike, y runs horizontally perpendicular to strike
// toward the down-dip side, depth is positive downward. Angles are degrees.
package geometry

import "math"

const radians = math.Pi / 180

// Offset2 is a horizontal offset from a rectangle edge to a site.
type Offset2 struct {
	DX float64 // along strike
	DY float64 // perpendicular to strike
}

// Norm returns the Euclidean length of the offset.
func (o Offset2) Norm() float64 {
	return math.Sqrt(o.DX*o.DX + o.DY*o.DY)
}

// Offset3 is the offset from the closest point of a dipping rectangle to a
// site, resolved in the rupture plane's own frame.
type Offset3 struct {
	DX     float64 // along strike
	DDip   float64 // along dip, in the plane
	Normal float64 // perpendicular to the plane
}

// Norm returns the Euclidean length of the offset.
func (o Offset3) Norm() float64 {
	return math.Sqrt(o.DX*o.DX + o.DDip*o.DDip + o.Normal*o.Normal)
}

// DipTrig returns sin and cos of the dip angle. A dip of exactly 90 returns
// an exact zero cosine so vertical planes have no horizontal width.
func DipTrig(dip float64) (sin, cos float64) {
	if dip == 90 {
		return 1, 0
	}
	return math.Sincos(dip * radians)
}

// ProjectedWidth is the horizontal extent of a rupture of the given
// down-dip width.
func ProjectedWidth(width, dip float64) float64 {
	_, cos := DipTrig(dip)
	return width * cos
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// JoynerBooreXY clamps a site at (x, y), relative to the centre of a
// rupture's surface projection, to that projection and returns the
// remaining offset. halfWidth is half of the projected (horizontal) width.
func JoynerBooreXY(x, y, halfLength, halfWidth float64) Offset2 {
	return Offset2{
		DX: x - clamp(x, -halfLength, halfLength),
		DY: y - clamp(y, -halfWidth, halfWidth),
	}
}

// inPlane resolves a surface site into the along-dip and plane-normal
// coordinates of a plane through a centroid at the given depth.
func inPlane(y, depth, dip float64) (along, normal float64) {
	sin, cos := DipTrig(dip)
	along = y*cos - depth*sin
	normal = -y*sin - depth*cos
	return along, normal
}

// ClosestOnPlane returns the offset from a surface site to the nearest point
// of a dipping rectangle. (x, y) is relative to the surface projection of the
// rectangle centroid, which lies at the given depth. halfWidth is half of
// the down-dip width.
func ClosestOnPlane(x, y, halfLength, halfWidth, dip, depth float64) Offset3 {
	along, normal := inPlane(y, depth, dip)
	return Offset3{
		DX:     x - clamp(x, -halfLength, halfLength),
		DDip:   along - clamp(along, -halfWidth, halfWidth),
		Normal: normal,
	}
}

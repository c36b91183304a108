package geometry

import "math"

// InterpolateToEdge walks the segment from the rectangle centre toward
// (px, py) and returns the first point where it meets the rectangle
// boundary, or (px, py) itself when the point lies strictly inside.
//
// This is not the closest point: a site beyond one edge is pulled toward the
// centre line rather than straight onto the edge. The Mendez_* metrics keep
// it for regression compatibility.
//
// An axis whose interpolation denominator vanishes (the point sits on the
// centre line of a zero-extent rectangle) is treated as already at the edge.
func InterpolateToEdge(px, py, halfX, halfY float64) (ex, ey float64) {
	if math.Abs(px) < halfX && math.Abs(py) < halfY {
		return px, py
	}
	t := math.Min(edgeFraction(px, halfX), edgeFraction(py, halfY))
	return t * px, t * py
}

// edgeFraction is the interpolation parameter at which the centre-to-point
// segment crosses the edge of one axis.
func edgeFraction(p, half float64) float64 {
	if math.Abs(p) < half {
		return 1
	}
	if p == 0 {
		return 1
	}
	t := math.Copysign(half, p) / p
	return clamp(t, 0, 1)
}

// JoynerBooreInterpolated is the surface-projection offset using
// InterpolateToEdge in place of the per-axis clamp.
func JoynerBooreInterpolated(x, y, halfLength, halfWidth float64) Offset2 {
	ex, ey := InterpolateToEdge(x, y, halfLength, halfWidth)
	return Offset2{DX: x - ex, DY: y - ey}
}

// ClosestOnPlaneInterpolated is ClosestOnPlane with the in-plane clamp
// replaced by InterpolateToEdge.
func ClosestOnPlaneInterpolated(x, y, halfLength, halfWidth, dip, depth float64) Offset3 {
	along, normal := inPlane(y, depth, dip)
	ex, ed := InterpolateToEdge(x, along, halfLength, halfWidth)
	return Offset3{
		DX:     x - ex,
		DDip:   along - ed,
		Normal: normal,
	}
}

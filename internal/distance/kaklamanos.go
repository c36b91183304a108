package distance

import (
	"math"

	"github.com/sells-group/rupture-cli/internal/geometry"
	"github.com/sells-group/rupture-cli/internal/projection"
)

// kaklamanos builds Rrup from Rx, Ry, dip and Ztor (Kaklamanos et al., 2011).
type kaklamanos struct{}

func (kaklamanos) Name() Name      { return RuptureKaklamanos }
func (kaklamanos) Requires() Field { return FieldTraceStart | FieldPlane }
func (kaklamanos) Signed() bool    { return false }

func (kaklamanos) Distance(p projection.Projection, s Site, e Event) float64 {
	x, y := traceLocal(p, s, e)
	if e.Dip == 90 {
		rjb := surfaceOffset(x, y, e).Norm()
		return math.Sqrt(rjb*rjb + e.DepthToTop*e.DepthToTop)
	}
	halfL := e.Length / 2
	ry := geometry.JoynerBooreXY(x-halfL, 0, halfL, 0).DX
	prime := RrupPrime(y, e.Width, e.Dip, e.DepthToTop)
	return math.Sqrt(prime*prime + ry*ry)
}

// RrupPrime is the rupture distance in the plane perpendicular to strike
// for a site at signed offset rx from the surface projection of the top
// edge. dip must be below 90.
//
//	zone A  rx < ztor·tan(δ)                   sqrt(rx² + ztor²)
//	zone B  up to ztor·tan(δ) + w·sec(δ)       rx·sin(δ) + ztor·cos(δ)
//	zone C  beyond                             sqrt((rx − w·cos(δ))² + (ztor + w·sin(δ))²)
func RrupPrime(rx, width, dip, ztor float64) float64 {
	sin, cos := geometry.DipTrig(dip)
	tan := sin / cos
	updip := ztor * tan
	switch {
	case rx < updip:
		return math.Sqrt(rx*rx + ztor*ztor)
	case rx <= updip+width/cos:
		return rx*sin + ztor*cos
	default:
		dx := rx - width*cos
		dz := ztor + width*sin
		return math.Sqrt(dx*dx + dz*dz)
	}
}

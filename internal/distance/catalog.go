package distance

import (
	"math"

	"github.com/sells-group/rupture-cli/internal/geometry"
	"github.com/sells-group/rupture-cli/internal/projection"
)

// traceLocal puts a site in the rupture's trace-start frame.
func traceLocal(p projection.Projection, s Site, e Event) (x, y float64) {
	return p.ToLocal(s.Lat, s.Lon, e.TraceStartLat, e.TraceStartLon, e.Azimuth)
}

// surfaceOffset is the offset from the rupture's surface projection to a
// site given in the trace-start frame. The projection spans [0, length]
// along strike and [0, width*cos(dip)] across it.
func surfaceOffset(x, y float64, e Event) geometry.Offset2 {
	halfL := e.Length / 2
	halfW := geometry.ProjectedWidth(e.Width, e.Dip) / 2
	return geometry.JoynerBooreXY(x-halfL, y-halfW, halfL, halfW)
}

type epicentral struct{}

func (epicentral) Name() Name      { return Epicentral }
func (epicentral) Requires() Field { return 0 }
func (epicentral) Signed() bool    { return false }

func (epicentral) Distance(p projection.Projection, s Site, e Event) float64 {
	x, y := p.ToLocal(s.Lat, s.Lon, e.Lat, e.Lon, e.Azimuth)
	return math.Sqrt(x*x + y*y)
}

type hypocentral struct{}

func (hypocentral) Name() Name      { return Hypocentral }
func (hypocentral) Requires() Field { return 0 }
func (hypocentral) Signed() bool    { return false }

func (hypocentral) Distance(p projection.Projection, s Site, e Event) float64 {
	epi := epicentral{}.Distance(p, s, e)
	return math.Sqrt(epi*epi + e.Depth*e.Depth)
}

type joynerBoore struct{}

func (joynerBoore) Name() Name      { return JoynerBoore }
func (joynerBoore) Requires() Field { return FieldTraceStart | FieldPlane }
func (joynerBoore) Signed() bool    { return false }

func (joynerBoore) Distance(p projection.Projection, s Site, e Event) float64 {
	x, y := traceLocal(p, s, e)
	return surfaceOffset(x, y, e).Norm()
}

// rupture places the centroid at the geometric middle of the rectangle
// hanging from depth_to_top.
type rupture struct{}

func (rupture) Name() Name      { return Rupture }
func (rupture) Requires() Field { return FieldTraceStart | FieldPlane }
func (rupture) Signed() bool    { return false }

func (rupture) Distance(p projection.Projection, s Site, e Event) float64 {
	x, y := traceLocal(p, s, e)
	sin, cos := geometry.DipTrig(e.Dip)
	halfL, halfW := e.Length/2, e.Width/2
	depth := e.DepthToTop + halfW*sin
	return geometry.ClosestOnPlane(x-halfL, y-halfW*cos, halfL, halfW, e.Dip, depth).Norm()
}

// horizontal is Rx: positive on the down-dip side of the trace.
type horizontal struct{}

func (horizontal) Name() Name      { return Horizontal }
func (horizontal) Requires() Field { return FieldTraceStart }
func (horizontal) Signed() bool    { return true }

func (horizontal) Distance(p projection.Projection, s Site, e Event) float64 {
	_, y := traceLocal(p, s, e)
	return y
}

type alongStrike struct{}

func (alongStrike) Name() Name      { return Ry }
func (alongStrike) Requires() Field { return FieldTraceStart }
func (alongStrike) Signed() bool    { return false }

func (alongStrike) Distance(p projection.Projection, s Site, e Event) float64 {
	x, _ := traceLocal(p, s, e)
	halfL := e.Length / 2
	return math.Abs(geometry.JoynerBooreXY(x-halfL, 0, halfL, 0).DX)
}

// obsoleteJoynerBoore centres the surface projection on the supplied local
// centroid instead of the geometric midpoint.
type obsoleteJoynerBoore struct{}

func (obsoleteJoynerBoore) Name() Name { return ObsoleteJoynerBoore }
func (obsoleteJoynerBoore) Requires() Field {
	return FieldTraceStart | FieldCentroidXY | FieldPlane
}
func (obsoleteJoynerBoore) Signed() bool { return false }

func (obsoleteJoynerBoore) Distance(p projection.Projection, s Site, e Event) float64 {
	x, y := traceLocal(p, s, e)
	halfW := geometry.ProjectedWidth(e.Width, e.Dip) / 2
	return geometry.JoynerBooreXY(x-e.CentroidX, y-e.CentroidY, e.Length/2, halfW).Norm()
}

// obsoleteRupture hangs the rectangle from the supplied centroid and
// centroid depth rather than from depth_to_top.
type obsoleteRupture struct{}

func (obsoleteRupture) Name() Name { return ObsoleteRupture }
func (obsoleteRupture) Requires() Field {
	return FieldTraceStart | FieldCentroidXY | FieldPlane
}
func (obsoleteRupture) Signed() bool { return false }

func (obsoleteRupture) Distance(p projection.Projection, s Site, e Event) float64 {
	x, y := traceLocal(p, s, e)
	return geometry.ClosestOnPlane(x-e.CentroidX, y-e.CentroidY, e.Length/2, e.Width/2, e.Dip, e.Depth).Norm()
}

type mendezJoynerBoore struct{}

func (mendezJoynerBoore) Name() Name      { return MendezJoynerBoore }
func (mendezJoynerBoore) Requires() Field { return FieldTraceStart | FieldPlane }
func (mendezJoynerBoore) Signed() bool    { return false }

func (mendezJoynerBoore) Distance(p projection.Projection, s Site, e Event) float64 {
	x, y := traceLocal(p, s, e)
	halfL := e.Length / 2
	halfW := geometry.ProjectedWidth(e.Width, e.Dip) / 2
	return geometry.JoynerBooreInterpolated(x-halfL, y-halfW, halfL, halfW).Norm()
}

type mendezRupture struct{}

func (mendezRupture) Name() Name { return MendezRupture }
func (mendezRupture) Requires() Field {
	return FieldTraceStart | FieldCentroidXY | FieldPlane
}
func (mendezRupture) Signed() bool { return false }

func (mendezRupture) Distance(p projection.Projection, s Site, e Event) float64 {
	x, y := traceLocal(p, s, e)
	return geometry.ClosestOnPlaneInterpolated(x-e.CentroidX, y-e.CentroidY, e.Length/2, e.Width/2, e.Dip, e.Depth).Norm()
}

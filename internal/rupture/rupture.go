// Package rupture models rectangular earthquake ruptures and derives the
// geometry the distance metrics consume from a trace start, strike, dip and
// dimensions.
package rupture

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/rupture-cli/internal/distance"
	"github.com/sells-group/rupture-cli/internal/geometry"
	"github.com/sells-group/rupture-cli/internal/projection"
)

// Rupture is one rectangular rupture. Lengths are km, angles degrees. The
// trace start is the surface projection of one end of the top edge; the
// rupture dips to the right of the azimuth.
//
// Zero means "not supplied" for the fields Derive completes:
//   - a centroid x/y of exactly (0, 0) is replaced by the plane centre;
//   - when Depth or DepthToTop is zero it is computed from the other, so an
//     explicit depth_to_top of 0 with a nonzero depth is recomputed. Give
//     only depth_to_top (with depth 0) to pin a surface-breaking rupture.
//
// The trace end and centroid latitude/longitude are always derived; values
// supplied for them are overwritten.
type Rupture struct {
	ID            string  `yaml:"id" json:"id"`
	Azimuth       float64 `yaml:"azimuth" json:"azimuth"`
	Dip           float64 `yaml:"dip" json:"dip"`
	Length        float64 `yaml:"length" json:"length"`
	Width         float64 `yaml:"width" json:"width"`
	Depth         float64 `yaml:"depth" json:"depth"`
	DepthToTop    float64 `yaml:"depth_to_top" json:"depth_to_top"`
	TraceStartLat float64 `yaml:"trace_start_lat" json:"trace_start_lat"`
	TraceStartLon float64 `yaml:"trace_start_lon" json:"trace_start_lon"`
	TraceEndLat   float64 `yaml:"trace_end_lat" json:"trace_end_lat"`
	TraceEndLon   float64 `yaml:"trace_end_lon" json:"trace_end_lon"`
	CentroidLat   float64 `yaml:"rupture_centroid_lat" json:"rupture_centroid_lat"`
	CentroidLon   float64 `yaml:"rupture_centroid_lon" json:"rupture_centroid_lon"`
	CentroidX     float64 `yaml:"rupture_centroid_x" json:"rupture_centroid_x"`
	CentroidY     float64 `yaml:"rupture_centroid_y" json:"rupture_centroid_y"`
}

// Validate checks the rupture dimensions.
func (r Rupture) Validate() error {
	if r.Dip <= 0 || r.Dip > 90 {
		return eris.Errorf("rupture: %s dip %v outside (0, 90]", r.ID, r.Dip)
	}
	if r.Length < 0 || r.Width < 0 {
		return eris.Errorf("rupture: %s has negative length or width", r.ID)
	}
	if r.Depth < 0 || r.DepthToTop < 0 {
		return eris.Errorf("rupture: %s has negative depth", r.ID)
	}
	return nil
}

// Derive fills the derived fields of r:
//   - trace end, length km along the azimuth from the trace start;
//   - local centroid (length/2, width/2·cos dip) when both are zero;
//   - centroid latitude and longitude from the local centroid;
//   - whichever of depth and depth_to_top is zero from the other, with a
//     surface rupture assumed when both are zero.
func Derive(p projection.Projection, r Rupture) (Rupture, error) {
	if err := r.Validate(); err != nil {
		return r, err
	}
	sin, cos := geometry.DipTrig(r.Dip)
	halfDrop := r.Width / 2 * sin

	r.TraceEndLat, r.TraceEndLon = p.ToGeographic(r.Length, 0, r.TraceStartLat, r.TraceStartLon, r.Azimuth)

	if r.CentroidX == 0 && r.CentroidY == 0 {
		r.CentroidX = r.Length / 2
		r.CentroidY = r.Width / 2 * cos
	}
	r.CentroidLat, r.CentroidLon = p.ToGeographic(r.CentroidX, r.CentroidY, r.TraceStartLat, r.TraceStartLon, r.Azimuth)

	switch {
	case r.Depth == 0:
		r.Depth = r.DepthToTop + halfDrop
	case r.DepthToTop == 0:
		r.DepthToTop = max(0, r.Depth-halfDrop)
	}
	return r, nil
}

// DeriveAll applies Derive to every rupture.
func DeriveAll(p projection.Projection, rs []Rupture) ([]Rupture, error) {
	out := make([]Rupture, len(rs))
	for i, r := range rs {
		d, err := Derive(p, r)
		if err != nil {
			return nil, eris.Wrapf(err, "rupture: derive %d", i)
		}
		out[i] = d
	}
	return out, nil
}

// Events converts ruptures into the dispatcher's columnar event set, using
// the centroid as the event location.
func Events(rs []Rupture) distance.Events {
	n := len(rs)
	ev := distance.Events{
		Lat:           make(distance.Vector, n),
		Lon:           make(distance.Vector, n),
		Length:        make(distance.Vector, n),
		Azimuth:       make(distance.Vector, n),
		Width:         make(distance.Vector, n),
		Dip:           make(distance.Vector, n),
		Depth:         make(distance.Vector, n),
		DepthToTop:    make(distance.Vector, n),
		TraceStartLat: make(distance.Vector, n),
		TraceStartLon: make(distance.Vector, n),
		CentroidX:     make(distance.Vector, n),
		CentroidY:     make(distance.Vector, n),
	}
	for j, r := range rs {
		ev.Lat[j], ev.Lon[j] = r.CentroidLat, r.CentroidLon
		ev.Length[j] = r.Length
		ev.Azimuth[j] = r.Azimuth
		ev.Width[j] = r.Width
		ev.Dip[j] = r.Dip
		ev.Depth[j] = r.Depth
		ev.DepthToTop[j] = r.DepthToTop
		ev.TraceStartLat[j], ev.TraceStartLon[j] = r.TraceStartLat, r.TraceStartLon
		ev.CentroidX[j], ev.CentroidY[j] = r.CentroidX, r.CentroidY
	}
	return ev
}

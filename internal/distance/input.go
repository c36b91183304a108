package distance

import "github.com/rotisserie/eris"

// Site is one observation point in degrees.
type Site struct {
	Lat float64
	Lon float64
}

// Event is one rupture as seen by a metric. Lengths are km, angles degrees.
type Event struct {
	Lat, Lon      float64 // rupture centroid
	Length        float64
	Azimuth       float64
	Width         float64
	Dip           float64
	Depth         float64 // centroid depth
	DepthToTop    float64
	TraceStartLat float64
	TraceStartLon float64
	CentroidX     float64 // centroid in the trace-start frame
	CentroidY     float64
}

// Sites is the columnar site set.
type Sites struct {
	Lat Vector
	Lon Vector
}

// Events is the columnar rupture set. TraceStartLat/Lon and CentroidX/Y are
// optional; leave them nil when not supplied.
type Events struct {
	Lat, Lon      Vector
	Length        Vector
	Azimuth       Vector
	Width         Vector
	Dip           Vector
	Depth         Vector
	DepthToTop    Vector
	TraceStartLat Vector
	TraceStartLon Vector
	CentroidX     Vector
	CentroidY     Vector
}

// At returns site i.
func (s Sites) At(i int) Site {
	return Site{Lat: s.Lat.At(i), Lon: s.Lon.At(i)}
}

// At returns event j with every column broadcast.
func (e Events) At(j int) Event {
	return Event{
		Lat:           e.Lat.At(j),
		Lon:           e.Lon.At(j),
		Length:        e.Length.At(j),
		Azimuth:       e.Azimuth.At(j),
		Width:         e.Width.At(j),
		Dip:           e.Dip.At(j),
		Depth:         e.Depth.At(j),
		DepthToTop:    e.DepthToTop.At(j),
		TraceStartLat: e.TraceStartLat.At(j),
		TraceStartLon: e.TraceStartLon.At(j),
		CentroidX:     e.CentroidX.At(j),
		CentroidY:     e.CentroidY.At(j),
	}
}

func (s Sites) columns() []column {
	return []column{{"lat", s.Lat}, {"lon", s.Lon}}
}

func (e Events) required() []column {
	return []column{
		{"lat", e.Lat}, {"lon", e.Lon}, {"length", e.Length}, {"azimuth", e.Azimuth},
		{"width", e.Width}, {"dip", e.Dip}, {"depth", e.Depth}, {"depth_to_top", e.DepthToTop},
	}
}

func (e Events) optional() []column {
	return []column{
		{"trace_start_lat", e.TraceStartLat}, {"trace_start_lon", e.TraceStartLon},
		{"rupture_centroid_x", e.CentroidX}, {"rupture_centroid_y", e.CentroidY},
	}
}

// present returns the required columns plus any optional ones supplied.
// Together they set the event axis length.
func (e Events) present() []column {
	cols := e.required()
	for _, c := range e.optional() {
		if c.v != nil {
			cols = append(cols, c)
		}
	}
	return cols
}

// Len returns the number of sites the columns broadcast to.
func (s Sites) Len() int { return longest(s.columns()) }

// Len returns the number of events the supplied columns broadcast to.
func (e Events) Len() int { return longest(e.present()) }

func (e Events) columns() []column {
	return append(e.required(), e.optional()...)
}

// prepare substitutes scalar defaults for optional columns the metric does
// not read, fails when the metric needs one that is missing, and checks the
// rest broadcast to n events.
func (e Events) prepare(m Metric, n int) (Events, error) {
	need := m.Requires()
	if e.TraceStartLat == nil || e.TraceStartLon == nil {
		if need&FieldTraceStart != 0 {
			return e, eris.Wrapf(ErrMissingInput, "metric %s requires trace_start_lat and trace_start_lon", m.Name())
		}
		e.TraceStartLat, e.TraceStartLon = Scalar(0), Scalar(0)
	}
	if e.CentroidX == nil || e.CentroidY == nil {
		if need&FieldCentroidXY != 0 {
			return e, eris.Wrapf(ErrMissingInput, "metric %s requires rupture_centroid_x and rupture_centroid_y", m.Name())
		}
		e.CentroidX, e.CentroidY = Scalar(0), Scalar(0)
	}
	for _, c := range e.optional() {
		if !c.v.Fits(n) {
			return e, eris.Wrapf(ErrShape, "event field %s has length %d, want 1 or %d", c.name, len(c.v), n)
		}
	}
	return e, nil
}

// validate checks finiteness everywhere and plane dimensions when the
// metric uses them.
func (e Events) validate(m Metric) error {
	for _, c := range e.columns() {
		if !c.v.finite() {
			return eris.Wrapf(ErrInvalidInput, "event field %s has a non-finite value", c.name)
		}
	}
	if m.Requires()&FieldPlane == 0 {
		return nil
	}
	for j, v := range e.Dip {
		if v <= 0 || v > 90 {
			return eris.Wrapf(ErrInvalidInput, "event %d dip %v outside (0, 90]", j, v)
		}
	}
	for j, v := range e.Length {
		if v < 0 {
			return eris.Wrapf(ErrInvalidInput, "event %d has negative length %v", j, v)
		}
	}
	for j, v := range e.Width {
		if v < 0 {
			return eris.Wrapf(ErrInvalidInput, "event %d has negative width %v", j, v)
		}
	}
	return nil
}

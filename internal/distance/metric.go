// Package distance computes source-to-site distance matrices for a set of
// observation sites and a set of earthquake ruptures.
package distance

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/rupture-cli/internal/projection"
)

// DistanceLimit is the default floor applied to every computed distance,
// in km. Downstream attenuation models take logarithms of these values.
const DistanceLimit = 1.0e-6

// Name identifies a registered distance metric.
type Name string

// Registered metric names.
const (
	Epicentral          Name = "Epicentral"
	Hypocentral         Name = "Hypocentral"
	JoynerBoore         Name = "Joyner_Boore"
	Rupture             Name = "Rupture"
	Horizontal          Name = "Horizontal"
	Ry                  Name = "Ry"
	RuptureKaklamanos   Name = "Rupture_Kaklamanos"
	ObsoleteJoynerBoore Name = "Obsolete_Joyner_Boore"
	ObsoleteRupture     Name = "Obsolete_Rupture"
	MendezJoynerBoore   Name = "Mendez_Joyner_Boore"
	MendezRupture       Name = "Mendez_Rupture"
)

// Field flags the inputs a metric reads beyond the site and centroid
// coordinates.
type Field uint8

const (
	// FieldTraceStart marks metrics that work in the trace-start frame.
	FieldTraceStart Field = 1 << iota
	// FieldCentroidXY marks metrics that use the supplied local centroid.
	FieldCentroidXY
	// FieldPlane marks metrics that use length, width and dip.
	FieldPlane
)

// Inputs names the optional and plane columns f selects.
func (f Field) Inputs() []string {
	var out []string
	if f&FieldTraceStart != 0 {
		out = append(out, "trace_start_lat", "trace_start_lon")
	}
	if f&FieldCentroidXY != 0 {
		out = append(out, "rupture_centroid_x", "rupture_centroid_y")
	}
	if f&FieldPlane != 0 {
		out = append(out, "length", "width", "dip")
	}
	return out
}

// Metric computes one distance definition for a single site/rupture pair.
// Distance returns the raw value; the dispatcher applies the floor.
type Metric interface {
	Name() Name
	Requires() Field
	// Signed reports whether the metric's sign carries meaning and must
	// survive the floor.
	Signed() bool
	Distance(p projection.Projection, s Site, e Event) float64
}

// registry is the closed set of metrics, in catalogue order.
var registry = []Metric{
	epicentral{},
	hypocentral{},
	joynerBoore{},
	rupture{},
	horizontal{},
	alongStrike{},
	kaklamanos{},
	obsoleteJoynerBoore{},
	obsoleteRupture{},
	mendezJoynerBoore{},
	mendezRupture{},
}

var byName = func() map[Name]Metric {
	m := make(map[Name]Metric, len(registry))
	for _, metric := range registry {
		m[metric.Name()] = metric
	}
	return m
}()

// Lookup returns the metric registered under name.
func Lookup(name Name) (Metric, error) {
	m, ok := byName[name]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownMetric, "%q", string(name))
	}
	return m, nil
}

// Catalog returns every registered metric name in a stable order.
func Catalog() []Name {
	names := make([]Name, len(registry))
	for i, m := range registry {
		names[i] = m.Name()
	}
	return names
}

// Floor clamps v to at least limit.
func Floor(v, limit float64) float64 {
	if v < limit {
		return limit
	}
	return v
}

// SignedFloor clamps the magnitude of v to at least limit and keeps its
// sign. An exact zero is treated as positive.
func SignedFloor(v, limit float64) float64 {
	if math.Abs(v) >= limit {
		return v
	}
	if v < 0 {
		return -limit
	}
	return limit
}

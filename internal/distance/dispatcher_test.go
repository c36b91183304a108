package distance

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sells-group/rupture-cli/internal/projection"
)

// oneDegree is the length of one degree of arc in km.
var oneDegree = 2 * math.Pi * projection.EarthRadiusKm / 360

func TestRawDistances_EpicentralLatitudeLine(t *testing.T) {
	m, err := RawDistances(
		Vector{-31, -32, -33, -34}, Scalar(116),
		Scalar(-31), Scalar(116),
		Scalar(0), Scalar(0), Scalar(0), Scalar(90), Scalar(0), Scalar(0),
		Epicentral, projection.AzimuthalEquidistant{},
	)
	require.NoError(t, err)
	require.Equal(t, 4, m.Rows)
	require.Equal(t, 1, m.Cols)

	assert.Equal(t, DistanceLimit, m.At(0, 0))
	for i := 1; i < 4; i++ {
		assert.InEpsilon(t, float64(i)*1.852*60, m.At(i, 0), 1e-3)
	}
}

func TestRawDistances_HorizontalCompassRose(t *testing.T) {
	sites := []struct {
		name     string
		lat, lon float64
		sign     float64
	}{
		{"N", 1, 0, 0},
		{"NE", 1, 1, 1},
		{"E", 0, 1, 1},
		{"SE", -1, 1, 1},
		{"S", -1, 0, 0},
		{"SW", -1, -1, -1},
		{"W", 0, -1, -1},
		{"NW", 1, -1, -1},
	}
	lat := make(Vector, len(sites))
	lon := make(Vector, len(sites))
	for i, s := range sites {
		lat[i], lon[i] = s.lat, s.lon
	}

	m, err := RawDistances(
		lat, lon,
		Scalar(0), Scalar(0),
		Scalar(40), Scalar(0), Scalar(15), Scalar(90), Scalar(7.5), Scalar(0),
		Horizontal, projection.AzimuthalEquidistant{},
		WithTraceStart(Scalar(0), Scalar(0)),
	)
	require.NoError(t, err)

	for i, s := range sites {
		rx := m.At(i, 0)
		if s.sign == 0 {
			assert.Equal(t, DistanceLimit, rx, "site %s", s.name)
			continue
		}
		assert.InEpsilon(t, s.sign*oneDegree, rx, 1e-3, "site %s", s.name)
	}
}

func TestRawDistances_PointRuptureMatchesGreatCircle(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var lat, lon Vector
	for i := 0; i < 50; i++ {
		lat = append(lat, -31+rng.Float64()*4-2)
		lon = append(lon, 116+rng.Float64()*4-2)
	}
	ref := orb.Point{116, -31}

	for _, p := range []projection.Projection{projection.AzimuthalEquidistant{}, projection.AzimuthalOrthographic{}} {
		m, err := RawDistances(lat, lon, Scalar(-31), Scalar(116),
			Scalar(0), Scalar(23), Scalar(0), Scalar(45), Scalar(10), Scalar(10),
			Epicentral, p)
		require.NoError(t, err)
		for i := range lat {
			want := geo.DistanceHaversine(ref, orb.Point{lon[i], lat[i]}) / orb.EarthRadius * projection.EarthRadiusKm
			assert.InEpsilon(t, want, m.At(i, 0), 1e-3)
		}
	}
}

// randomScenario builds sites scattered around a set of ruptures whose
// centroid, trace start and local centroid are mutually consistent.
func randomScenario(t *testing.T, seed int64, nSites, nEvents int, vertical bool) (Sites, Events) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	p := projection.AzimuthalEquidistant{}

	var sites Sites
	for i := 0; i < nSites; i++ {
		sites.Lat = append(sites.Lat, -31+rng.Float64()*2-1)
		sites.Lon = append(sites.Lon, 116+rng.Float64()*2-1)
	}

	var ev Events
	for j := 0; j < nEvents; j++ {
		length := 1 + rng.Float64()*60
		width := 1 + rng.Float64()*20
		dip := 10 + rng.Float64()*80
		ztor := rng.Float64() * 8
		if vertical {
			dip, ztor = 90, 0
		}
		az := rng.Float64() * 360
		tsLat := -31 + rng.Float64() - 0.5
		tsLon := 116 + rng.Float64() - 0.5

		sin := math.Sin(dip * math.Pi / 180)
		cos := math.Cos(dip * math.Pi / 180)
		if dip == 90 {
			sin, cos = 1, 0
		}
		cx, cy := length/2, width/2*cos
		cLat, cLon := p.ToGeographic(cx, cy, tsLat, tsLon, az)

		ev.Lat = append(ev.Lat, cLat)
		ev.Lon = append(ev.Lon, cLon)
		ev.Length = append(ev.Length, length)
		ev.Azimuth = append(ev.Azimuth, az)
		ev.Width = append(ev.Width, width)
		ev.Dip = append(ev.Dip, dip)
		ev.Depth = append(ev.Depth, ztor+width/2*sin)
		ev.DepthToTop = append(ev.DepthToTop, ztor)
		ev.TraceStartLat = append(ev.TraceStartLat, tsLat)
		ev.TraceStartLon = append(ev.TraceStartLon, tsLon)
		ev.CentroidX = append(ev.CentroidX, cx)
		ev.CentroidY = append(ev.CentroidY, cy)
	}
	return sites, ev
}

func computeAll(t *testing.T, d *Dispatcher, sites Sites, events Events, names ...Name) map[Name]*Matrix {
	t.Helper()
	out := make(map[Name]*Matrix, len(names))
	for _, n := range names {
		m, err := d.Compute(context.Background(), n, sites, events)
		require.NoError(t, err, "metric %s", n)
		out[n] = m
	}
	return out
}

func TestKaklamanos_VerticalSurfaceRuptureEqualsJoynerBoore(t *testing.T) {
	sites, events := randomScenario(t, 1, 40, 12, true)
	d := NewDispatcher(nil, WithWorkers(3))
	got := computeAll(t, d, sites, events, JoynerBoore, RuptureKaklamanos)
	assert.Equal(t, got[JoynerBoore].Data, got[RuptureKaklamanos].Data)
}

func TestKaklamanos_MatchesRupturePlane(t *testing.T) {
	sites, events := randomScenario(t, 2, 40, 12, false)
	d := NewDispatcher(nil)
	got := computeAll(t, d, sites, events, Rupture, RuptureKaklamanos)
	assert.InDeltaSlice(t, got[Rupture].Data, got[RuptureKaklamanos].Data, 1e-6)
}

func TestJoynerBooreNeverExceedsRupture(t *testing.T) {
	for seed, vertical := range []bool{false, true} {
		sites, events := randomScenario(t, int64(10+seed), 60, 15, vertical)
		got := computeAll(t, NewDispatcher(nil), sites, events, JoynerBoore, Rupture, RuptureKaklamanos)
		for k := range got[JoynerBoore].Data {
			rjb := got[JoynerBoore].Data[k]
			assert.LessOrEqual(t, rjb, got[Rupture].Data[k]+1e-9)
			assert.LessOrEqual(t, rjb, got[RuptureKaklamanos].Data[k]+1e-9)
		}
	}
}

func TestEpicentralNeverExceedsHypocentral(t *testing.T) {
	sites, events := randomScenario(t, 4, 60, 15, false)
	got := computeAll(t, NewDispatcher(nil), sites, events, Epicentral, Hypocentral)
	for k := range got[Epicentral].Data {
		assert.LessOrEqual(t, got[Epicentral].Data[k], got[Hypocentral].Data[k])
	}
}

func TestLegacyVariantsTrackCanonical(t *testing.T) {
	sites, events := randomScenario(t, 5, 50, 10, false)
	got := computeAll(t, NewDispatcher(nil), sites, events,
		JoynerBoore, Rupture, ObsoleteJoynerBoore, ObsoleteRupture, MendezJoynerBoore, MendezRupture)

	// With a consistent centroid the obsolete variants agree with the
	// canonical ones.
	assert.InDeltaSlice(t, got[JoynerBoore].Data, got[ObsoleteJoynerBoore].Data, 1e-6)
	assert.InDeltaSlice(t, got[Rupture].Data, got[ObsoleteRupture].Data, 1e-6)

	// Edge interpolation never finds a closer point than the clamp.
	for k := range got[JoynerBoore].Data {
		assert.GreaterOrEqual(t, got[MendezJoynerBoore].Data[k]+1e-9, got[JoynerBoore].Data[k])
		assert.GreaterOrEqual(t, got[MendezRupture].Data[k]+1e-9, got[Rupture].Data[k])
	}
}

func TestObsoleteRupture_DiffersWhenCentroidOffset(t *testing.T) {
	sites, events := randomScenario(t, 6, 60, 1, false)
	events.CentroidX = Vector{events.CentroidX[0] + 5}

	got := computeAll(t, NewDispatcher(nil), sites, events, Rupture, ObsoleteRupture)
	var diff float64
	for k := range got[Rupture].Data {
		diff = math.Max(diff, math.Abs(got[Rupture].Data[k]-got[ObsoleteRupture].Data[k]))
	}
	assert.Greater(t, diff, 0.1)
}

func TestCompute_FloorApplied(t *testing.T) {
	sites := Sites{Lat: Vector{-31, -31.2}, Lon: Vector{116, 116}}
	events := Events{
		Lat: Scalar(-31), Lon: Scalar(116),
		Length: Scalar(20), Azimuth: Scalar(180), Width: Scalar(10), Dip: Scalar(90),
		Depth: Scalar(5), DepthToTop: Scalar(0),
		TraceStartLat: Scalar(-31), TraceStartLon: Scalar(116),
	}
	for _, n := range []Name{Epicentral, JoynerBoore, Rupture, RuptureKaklamanos, MendezJoynerBoore} {
		m, err := NewDispatcher(nil).Compute(context.Background(), n, sites, events)
		require.NoError(t, err)
		assert.Equal(t, DistanceLimit, m.At(0, 0), "metric %s", n)
		assert.GreaterOrEqual(t, m.Min(), DistanceLimit, "metric %s", n)
	}

	m, err := NewDispatcher(nil, WithLimit(0.5)).Compute(context.Background(), JoynerBoore, sites, events)
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.At(0, 0))
	assert.InDelta(t, 0.2*oneDegree-20, m.At(1, 0), 1e-6)
}

func TestCompute_Broadcasting(t *testing.T) {
	sites := Sites{Lat: Vector{-31, -32, -33}, Lon: Scalar(116)}
	events := Events{
		Lat: Vector{-31, -32}, Lon: Scalar(116),
		Length: Scalar(0), Azimuth: Scalar(0), Width: Scalar(0), Dip: Scalar(90),
		Depth: Vector{0, 10}, DepthToTop: Scalar(0),
	}
	m, err := NewDispatcher(nil).Compute(context.Background(), Hypocentral, sites, events)
	require.NoError(t, err)
	require.Equal(t, 3, m.Rows)
	require.Equal(t, 2, m.Cols)

	assert.InDelta(t, 10.0, m.At(1, 1), 1e-9)
	assert.InDelta(t, math.Hypot(oneDegree, 10), m.At(0, 1), 1e-6)
	assert.InDelta(t, oneDegree, m.At(1, 0), 1e-6)
	assert.Equal(t, m.col(1), []float64{m.At(0, 1), m.At(1, 1), m.At(2, 1)})
}

func TestCompute_Errors(t *testing.T) {
	good := Events{
		Lat: Scalar(-31), Lon: Scalar(116),
		Length: Scalar(20), Azimuth: Scalar(0), Width: Scalar(10), Dip: Scalar(60),
		Depth: Scalar(5), DepthToTop: Scalar(1),
		TraceStartLat: Scalar(-31), TraceStartLon: Scalar(116),
	}
	sites := Sites{Lat: Vector{-31, -32}, Lon: Vector{116, 116}}

	tests := []struct {
		name   string
		metric Name
		sites  Sites
		events func(Events) Events
		target error
	}{
		{"unknown metric", "Rrup", sites, nil, ErrUnknownMetric},
		{"site length mismatch", Epicentral, Sites{Lat: Vector{-31, -32}, Lon: Vector{1, 2, 3}}, nil, ErrShape},
		{"event length mismatch", Epicentral, sites, func(e Events) Events {
			e.Lat = Vector{1, 2, 3}
			e.Depth = Vector{1, 2}
			return e
		}, ErrShape},
		{"missing event field", Hypocentral, sites, func(e Events) Events {
			e.Lat = Vector{1, 2}
			e.Depth = nil
			return e
		}, ErrShape},
		{"missing trace start", JoynerBoore, sites, func(e Events) Events {
			e.TraceStartLat = nil
			return e
		}, ErrMissingInput},
		{"missing centroid", ObsoleteRupture, sites, nil, ErrMissingInput},
		{"zero dip", Rupture, sites, func(e Events) Events {
			e.Dip = Scalar(0)
			return e
		}, ErrInvalidInput},
		{"negative width", Rupture, sites, func(e Events) Events {
			e.Width = Scalar(-1)
			return e
		}, ErrInvalidInput},
		{"nan site", Epicentral, Sites{Lat: Vector{math.NaN()}, Lon: Scalar(0)}, nil, ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := good
			if tc.events != nil {
				ev = tc.events(ev)
			}
			m, err := NewDispatcher(nil).Compute(context.Background(), tc.metric, tc.sites, ev)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, eris.Is(err, tc.target), "got %v", err)
		})
	}
}

func TestCompute_OptionalColumnsSetEventCount(t *testing.T) {
	sites := Sites{Lat: Vector{0}, Lon: Vector{0}}
	events := Events{
		Lat: Scalar(0), Lon: Scalar(0),
		Length: Scalar(20), Azimuth: Scalar(0), Width: Scalar(10), Dip: Scalar(90),
		Depth: Scalar(5), DepthToTop: Scalar(0),
		TraceStartLat: Vector{-1, 0, 1}, TraceStartLon: Scalar(0),
	}
	assert.Equal(t, 3, events.Len())
	assert.Equal(t, 1, sites.Len())

	m, err := NewDispatcher(nil).Compute(context.Background(), JoynerBoore, sites, events)
	require.NoError(t, err)
	require.Equal(t, 1, m.Rows)
	require.Equal(t, 3, m.Cols)
	// Trace running north from 1 degree south ends 20 km short of the site.
	assert.InDelta(t, oneDegree-20, m.At(0, 0), 1e-6)
	assert.Equal(t, DistanceLimit, m.At(0, 1))
	assert.InDelta(t, oneDegree, m.At(0, 2), 1e-6)

	events.TraceStartLon = Vector{0, 0}
	_, err = NewDispatcher(nil).Compute(context.Background(), JoynerBoore, sites, events)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrShape), "got %v", err)
	assert.Contains(t, err.Error(), "want 1 or 3")
}

func TestCompute_UnusedOptionalInputsDefaulted(t *testing.T) {
	sites := Sites{Lat: Vector{-32}, Lon: Vector{116}}
	events := Events{
		Lat: Scalar(-31), Lon: Scalar(116),
		Length: Scalar(0), Azimuth: Scalar(0), Width: Scalar(0), Dip: Scalar(0),
		Depth: Scalar(0), DepthToTop: Scalar(0),
	}
	// Epicentral neither needs the trace start nor validates dip.
	m, err := NewDispatcher(nil).Compute(context.Background(), Epicentral, sites, events)
	require.NoError(t, err)
	assert.InDelta(t, oneDegree, m.At(0, 0), 1e-6)
}

func TestCompute_EmptyInputs(t *testing.T) {
	m, err := NewDispatcher(nil).Compute(context.Background(), Epicentral, Sites{}, Events{})
	require.NoError(t, err)
	assert.Equal(t, 0, m.Rows)
	assert.Equal(t, 0, m.Cols)
}

func TestCompute_Cancelled(t *testing.T) {
	sites, events := randomScenario(t, 8, 5, 5, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, err := NewDispatcher(nil).Compute(ctx, Rupture, sites, events)
	assert.Error(t, err)
	assert.Nil(t, m)
}

func TestCompute_Span(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	sites := Sites{Lat: Vector{-31, -32}, Lon: Scalar(116)}
	events := Events{
		Lat: Scalar(-31), Lon: Scalar(116),
		Length: Scalar(0), Azimuth: Scalar(0), Width: Scalar(0), Dip: Scalar(90),
		Depth: Scalar(10), DepthToTop: Scalar(0),
	}
	_, err := NewDispatcher(nil).Compute(context.Background(), Hypocentral, sites, events)
	require.NoError(t, err)
	_, err = NewDispatcher(nil).Compute(context.Background(), "Rrup", sites, events)
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "distance.Compute", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("distance.sites", 2))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("distance.events", 1))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.String("distance.metric", "Rrup"))
}

package distance

import (
	"context"
	"runtime"
	"time"

	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/rupture-cli/internal/projection"
)

type settings struct {
	limit     float64
	workers   int
	traceLat  Vector
	traceLon  Vector
	centroidX Vector
	centroidY Vector
}

// Option configures a Dispatcher or a RawDistances call.
type Option func(*settings)

// WithLimit overrides DistanceLimit. Non-positive values are ignored.
func WithLimit(limit float64) Option {
	return func(s *settings) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithWorkers bounds the number of event columns computed concurrently.
func WithWorkers(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTraceStart supplies the trace-start coordinates to RawDistances.
func WithTraceStart(lat, lon Vector) Option {
	return func(s *settings) {
		s.traceLat, s.traceLon = lat, lon
	}
}

// WithCentroidXY supplies the rupture centroid in the trace-start frame to
// RawDistances.
func WithCentroidXY(x, y Vector) Option {
	return func(s *settings) {
		s.centroidX, s.centroidY = x, y
	}
}

func newSettings(opts []Option) settings {
	s := settings{limit: DistanceLimit, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Dispatcher resolves metric names and fills distance matrices.
type Dispatcher struct {
	proj    projection.Projection
	limit   float64
	workers int
}

// NewDispatcher creates a Dispatcher over the given projection. A nil
// projection uses the azimuthal equidistant frame.
func NewDispatcher(proj projection.Projection, opts ...Option) *Dispatcher {
	if proj == nil {
		proj = projection.AzimuthalEquidistant{}
	}
	s := newSettings(opts)
	return &Dispatcher{proj: proj, limit: s.limit, workers: s.workers}
}

const tracerName = "github.com/sells-group/rupture-cli/internal/distance"

// Limit returns the floor applied to computed distances.
func (d *Dispatcher) Limit() float64 { return d.limit }

// Compute returns the sites x events matrix for the named metric. Inputs
// are fully validated before any distance is computed; on error no matrix
// is returned.
func (d *Dispatcher) Compute(ctx context.Context, name Name, sites Sites, events Events) (_ *Matrix, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "distance.Compute")
	span.SetAttributes(attribute.String("distance.metric", string(name)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	metric, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	nSites, err := axisLength("site", sites.columns()...)
	if err != nil {
		return nil, err
	}
	nEvents, err := axisLength("event", events.present()...)
	if err != nil {
		return nil, err
	}
	events, err = events.prepare(metric, nEvents)
	if err != nil {
		return nil, err
	}
	for _, c := range sites.columns() {
		if !c.v.finite() {
			return nil, eris.Wrapf(ErrInvalidInput, "site field %s has a non-finite value", c.name)
		}
	}
	if err := events.validate(metric); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("distance.sites", nSites),
		attribute.Int("distance.events", nEvents),
	)

	start := time.Now()
	out := NewMatrix(nSites, nEvents)
	floor := Floor
	if metric.Signed() {
		floor = SignedFloor
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for j := 0; j < nEvents; j++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ev := events.At(j)
			for i := 0; i < nSites; i++ {
				out.Set(i, j, floor(metric.Distance(d.proj, sites.At(i), ev), d.limit))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "distance: compute")
	}

	zap.L().Debug("distance: matrix computed",
		zap.String("metric", string(name)),
		zap.Int("sites", nSites),
		zap.Int("events", nEvents),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// RawDistances computes the sites x events distance matrix for the named
// metric. Argument order is fixed; optional trace-start and local centroid
// columns are passed with WithTraceStart and WithCentroidXY.
func RawDistances(
	siteLat, siteLon,
	eventLat, eventLon,
	length, azimuth, width, dip, depth, depthToTop Vector,
	name Name,
	proj projection.Projection,
	opts ...Option,
) (*Matrix, error) {
	s := newSettings(opts)
	events := Events{
		Lat:           eventLat,
		Lon:           eventLon,
		Length:        length,
		Azimuth:       azimuth,
		Width:         width,
		Dip:           dip,
		Depth:         depth,
		DepthToTop:    depthToTop,
		TraceStartLat: s.traceLat,
		TraceStartLon: s.traceLon,
		CentroidX:     s.centroidX,
		CentroidY:     s.centroidY,
	}
	d := NewDispatcher(proj, opts...)
	return d.Compute(context.Background(), name, Sites{Lat: siteLat, Lon: siteLon}, events)
}

// Package server exposes the distance dispatcher over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/rupture-cli/internal/distance"
	"github.com/sells-group/rupture-cli/internal/projection"
)

// Server serves distance matrices over HTTP.
type Server struct {
	dispatcher *distance.Dispatcher
	proj       projection.Projection
	collector  *Collector
	limiter    *rate.Limiter
	origins    []string
	maxBody    int64
	maxCells   int
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit bounds the whole server to rps requests per second with the
// given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithCollector records request and compute metrics on c.
func WithCollector(c *Collector) Option {
	return func(s *Server) {
		s.collector = c
	}
}

// WithAllowedOrigins sets the CORS origins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithMaxCells bounds the sites x ruptures size of one request.
func WithMaxCells(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxCells = n
		}
	}
}

// New creates a Server. The projection must be the one the dispatcher uses
// so derived rupture geometry matches the distances.
func New(d *distance.Dispatcher, proj projection.Projection, opts ...Option) *Server {
	if proj == nil {
		proj = projection.AzimuthalEquidistant{}
	}
	s := &Server{
		dispatcher: d,
		proj:       proj,
		origins:    []string{"*"},
		maxBody:    8 << 20,
		maxCells:   5_000_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Run-ID"},
		MaxAge:         300,
	}))
	r.Use(s.instrument)

	r.Get("/health", s.handleHealth)
	if s.collector != nil {
		r.Method(http.MethodGet, "/metrics", s.collector.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/metrics", s.handleCatalog)
		r.Post("/distances", s.handleDistances)
		r.Post("/distances/raw", s.handleRawDistances)
	})
	return r
}

const tracerName = "github.com/sells-group/rupture-cli/internal/server"

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := otel.Tracer(tracerName).Start(ctx, r.Method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		span.SetName(r.Method + " " + route)
		span.SetAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		if s.collector != nil {
			s.collector.Requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			s.collector.RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		}
		zap.L().Debug("server: request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			if s.collector != nil {
				s.collector.RateLimited.Inc()
			}
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rupture-cli/internal/distance"
	"github.com/sells-group/rupture-cli/internal/rupture"
	"github.com/sells-group/rupture-cli/internal/scenario"
)

type metricInfo struct {
	Name     distance.Name `json:"name"`
	Requires []string      `json:"requires"`
	Signed   bool          `json:"signed"`
}

type distancesRequest struct {
	Metric   distance.Name     `json:"metric"`
	Sites    []scenario.Site   `json:"sites"`
	Ruptures []rupture.Rupture `json:"ruptures"`
}

// rawRequest carries dispatcher columns directly. Length-1 columns
// broadcast; omitted optional columns stay nil.
type rawRequest struct {
	Metric        distance.Name   `json:"metric"`
	SiteLat       distance.Vector `json:"site_lat"`
	SiteLon       distance.Vector `json:"site_lon"`
	EventLat      distance.Vector `json:"event_lat"`
	EventLon      distance.Vector `json:"event_lon"`
	Length        distance.Vector `json:"length"`
	Azimuth       distance.Vector `json:"azimuth"`
	Width         distance.Vector `json:"width"`
	Dip           distance.Vector `json:"dip"`
	Depth         distance.Vector `json:"depth"`
	DepthToTop    distance.Vector `json:"depth_to_top"`
	TraceStartLat distance.Vector `json:"trace_start_lat"`
	TraceStartLon distance.Vector `json:"trace_start_lon"`
	CentroidX     distance.Vector `json:"rupture_centroid_x"`
	CentroidY     distance.Vector `json:"rupture_centroid_y"`
}

type rawResponse struct {
	RunID  string           `json:"run_id"`
	Metric distance.Name    `json:"metric"`
	Matrix *distance.Matrix `json:"matrix"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	names := distance.Catalog()
	out := make([]metricInfo, 0, len(names))
	for _, n := range names {
		m, err := distance.Lookup(n)
		if err != nil {
			continue
		}
		req := m.Requires().Inputs()
		if req == nil {
			req = []string{}
		}
		out = append(out, metricInfo{Name: n, Requires: req, Signed: m.Signed()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"metrics": out,
		"limit":   s.dispatcher.Limit(),
	})
}

func (s *Server) handleDistances(w http.ResponseWriter, r *http.Request) {
	var req distancesRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Metric == "" {
		req.Metric = distance.Rupture
	}
	if !s.checkCells(w, len(req.Sites), len(req.Ruptures)) {
		return
	}

	rs, err := rupture.DeriveAll(s.proj, req.Ruptures)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	scenario.AssignIDs(req.Sites, rs)

	m, err := s.compute(r.Context(), req.Metric, scenario.Columns(req.Sites), rupture.Events(rs))
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	res, err := scenario.NewResult(req.Metric, scenario.SiteIDs(req.Sites), scenario.RuptureIDs(rs), m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	res.RunID = uuid.NewString()
	w.Header().Set("X-Run-ID", res.RunID)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRawDistances(w http.ResponseWriter, r *http.Request) {
	var req rawRequest
	if !s.decode(w, r, &req) {
		return
	}

	sites := distance.Sites{Lat: req.SiteLat, Lon: req.SiteLon}
	events := distance.Events{
		Lat:           req.EventLat,
		Lon:           req.EventLon,
		Length:        req.Length,
		Azimuth:       req.Azimuth,
		Width:         req.Width,
		Dip:           req.Dip,
		Depth:         req.Depth,
		DepthToTop:    req.DepthToTop,
		TraceStartLat: req.TraceStartLat,
		TraceStartLon: req.TraceStartLon,
		CentroidX:     req.CentroidX,
		CentroidY:     req.CentroidY,
	}
	if !s.checkCells(w, sites.Len(), events.Len()) {
		return
	}

	m, err := s.compute(r.Context(), req.Metric, sites, events)
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	resp := rawResponse{RunID: uuid.NewString(), Metric: req.Metric, Matrix: m}
	w.Header().Set("X-Run-ID", resp.RunID)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) checkCells(w http.ResponseWriter, sites, events int) bool {
	if sites > 0 && events > s.maxCells/sites {
		writeError(w, http.StatusRequestEntityTooLarge, "too many site-rupture pairs")
		return false
	}
	return true
}

func (s *Server) compute(ctx context.Context, name distance.Name, sites distance.Sites, events distance.Events) (*distance.Matrix, error) {
	start := time.Now()
	m, err := s.dispatcher.Compute(ctx, name, sites, events)
	if err != nil {
		return nil, err
	}
	if s.collector != nil {
		s.collector.ComputeDuration.WithLabelValues(string(name)).Observe(time.Since(start).Seconds())
		s.collector.Cells.WithLabelValues(string(name)).Add(float64(m.Rows * m.Cols))
	}
	return m, nil
}

func (s *Server) writeComputeError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, distance.ErrUnknownMetric):
		writeError(w, http.StatusBadRequest, err.Error())
	case eris.Is(err, distance.ErrShape),
		eris.Is(err, distance.ErrMissingInput),
		eris.Is(err, distance.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		zap.L().Error("server: compute distances", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

package scenario

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/rupture-cli/internal/rupture"
)

// record is one CSV data row keyed by lower-cased header name.
type record struct {
	line   int
	fields map[string]string
}

func (r record) float(key string) (float64, bool, error) {
	s, ok := r.fields[key]
	if !ok || s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, eris.Wrapf(err, "scenario: line %d column %s", r.line, key)
	}
	return v, true, nil
}

// streamRecords reads a headed CSV and sends each data row on the returned
// channel. Both channels are closed when reading completes.
func streamRecords(ctx context.Context, r io.Reader) (<-chan record, <-chan error) {
	recCh := make(chan record, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(recCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		reader.Comment = '#'
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true

		header, err := reader.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			errCh <- eris.Wrap(err, "scenario: read csv header")
			return
		}
		for i, h := range header {
			header[i] = strings.ToLower(strings.TrimSpace(h))
		}

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "scenario: context cancelled")
				return
			}

			row, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "scenario: read csv row")
				return
			}

			line, _ := reader.FieldPos(0)
			rec := record{line: line, fields: make(map[string]string, len(header))}
			for i, v := range row {
				if i < len(header) {
					rec.fields[header[i]] = strings.TrimSpace(v)
				}
			}

			select {
			case recCh <- rec:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "scenario: context cancelled")
				return
			}
		}
	}()

	return recCh, errCh
}

// collect drains a record stream through fn, returning the first error.
func collect(ctx context.Context, r io.Reader, fn func(record) error) error {
	recCh, errCh := streamRecords(ctx, r)
	for rec := range recCh {
		if err := fn(rec); err != nil {
			// Let the reader goroutine finish.
			for range recCh {
			}
			return err
		}
	}
	return <-errCh
}

// ReadSitesCSV reads sites from a CSV with lat and lon columns and an
// optional id column.
func ReadSitesCSV(ctx context.Context, r io.Reader) ([]Site, error) {
	var sites []Site
	err := collect(ctx, r, func(rec record) error {
		lat, okLat, err := rec.float("lat")
		if err != nil {
			return err
		}
		lon, okLon, err := rec.float("lon")
		if err != nil {
			return err
		}
		if !okLat || !okLon {
			return eris.Errorf("scenario: line %d missing lat or lon", rec.line)
		}
		sites = append(sites, Site{ID: rec.fields["id"], Lat: lat, Lon: lon})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sites, nil
}

// rupture CSV columns, named as in the YAML form.
var ruptureColumns = map[string]func(*rupture.Rupture) *float64{
	"azimuth":            func(r *rupture.Rupture) *float64 { return &r.Azimuth },
	"dip":                func(r *rupture.Rupture) *float64 { return &r.Dip },
	"length":             func(r *rupture.Rupture) *float64 { return &r.Length },
	"width":              func(r *rupture.Rupture) *float64 { return &r.Width },
	"depth":              func(r *rupture.Rupture) *float64 { return &r.Depth },
	"depth_to_top":       func(r *rupture.Rupture) *float64 { return &r.DepthToTop },
	"trace_start_lat":    func(r *rupture.Rupture) *float64 { return &r.TraceStartLat },
	"trace_start_lon":    func(r *rupture.Rupture) *float64 { return &r.TraceStartLon },
	"rupture_centroid_x": func(r *rupture.Rupture) *float64 { return &r.CentroidX },
	"rupture_centroid_y": func(r *rupture.Rupture) *float64 { return &r.CentroidY },
}

// requiredRuptureColumns must be present on every row.
var requiredRuptureColumns = []string{"azimuth", "dip", "length", "width", "trace_start_lat", "trace_start_lon"}

// ReadRupturesCSV reads ruptures from a CSV whose headers match the rupture
// YAML keys.
func ReadRupturesCSV(ctx context.Context, r io.Reader) ([]rupture.Rupture, error) {
	var rs []rupture.Rupture
	err := collect(ctx, r, func(rec record) error {
		for _, key := range requiredRuptureColumns {
			if rec.fields[key] == "" {
				return eris.Errorf("scenario: line %d missing %s", rec.line, key)
			}
		}
		ru := rupture.Rupture{ID: rec.fields["id"]}
		for key, field := range ruptureColumns {
			v, ok, err := rec.float(key)
			if err != nil {
				return err
			}
			if ok {
				*field(&ru) = v
			}
		}
		rs = append(rs, ru)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}

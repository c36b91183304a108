// Package scenario loads sites and ruptures from files and writes distance
// matrices.
package scenario

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/rupture-cli/internal/distance"
	"github.com/sells-group/rupture-cli/internal/rupture"
)

// Site is one named observation point.
type Site struct {
	ID  string  `yaml:"id" json:"id"`
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// Scenario is a set of sites and ruptures, optionally naming the metric to
// compute. File references are resolved relative to the scenario file.
type Scenario struct {
	Metric       distance.Name     `yaml:"metric"`
	Sites        []Site            `yaml:"sites"`
	SitesFile    string            `yaml:"sites_file"`
	Ruptures     []rupture.Rupture `yaml:"ruptures"`
	RupturesFile string            `yaml:"ruptures_file"`
}

// Load reads a YAML scenario and the site and rupture files it references.
// Sites and ruptures from files are appended after any listed inline.
func Load(ctx context.Context, path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario: read %s", path)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, eris.Wrapf(err, "scenario: parse %s", path)
	}

	dir := filepath.Dir(path)
	if sc.SitesFile != "" {
		sites, err := LoadSites(ctx, resolve(dir, sc.SitesFile))
		if err != nil {
			return nil, err
		}
		sc.Sites = append(sc.Sites, sites...)
	}
	if sc.RupturesFile != "" {
		rs, err := LoadRuptures(ctx, resolve(dir, sc.RupturesFile))
		if err != nil {
			return nil, err
		}
		sc.Ruptures = append(sc.Ruptures, rs...)
	}

	AssignIDs(sc.Sites, sc.Ruptures)
	return &sc, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// LoadSites reads sites from a CSV, GeoJSON or ESRI shapefile, chosen by
// extension.
func LoadSites(ctx context.Context, path string) ([]Site, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "scenario: open %s", path)
		}
		defer func() { _ = f.Close() }()
		return ReadSitesCSV(ctx, f)
	case ".geojson", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "scenario: read %s", path)
		}
		return ParseSitesGeoJSON(data)
	case ".shp":
		return ReadSitesShapefile(path)
	default:
		return nil, eris.Errorf("scenario: unsupported site file %s", path)
	}
}

// LoadRuptures reads ruptures from a YAML list or a CSV file.
func LoadRuptures(ctx context.Context, path string) ([]rupture.Rupture, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "scenario: open %s", path)
		}
		defer func() { _ = f.Close() }()
		return ReadRupturesCSV(ctx, f)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "scenario: read %s", path)
		}
		var rs []rupture.Rupture
		if err := yaml.Unmarshal(data, &rs); err != nil {
			return nil, eris.Wrapf(err, "scenario: parse %s", path)
		}
		return rs, nil
	default:
		return nil, eris.Errorf("scenario: unsupported rupture file %s", path)
	}
}

// AssignIDs numbers unnamed sites and ruptures by position.
func AssignIDs(sites []Site, rs []rupture.Rupture) {
	for i := range sites {
		if sites[i].ID == "" {
			sites[i].ID = "site-" + strconv.Itoa(i)
		}
	}
	for i := range rs {
		if rs[i].ID == "" {
			rs[i].ID = "rupture-" + strconv.Itoa(i)
		}
	}
}

// Columns converts sites into the dispatcher's columnar form.
func Columns(sites []Site) distance.Sites {
	out := distance.Sites{
		Lat: make(distance.Vector, len(sites)),
		Lon: make(distance.Vector, len(sites)),
	}
	for i, s := range sites {
		out.Lat[i], out.Lon[i] = s.Lat, s.Lon
	}
	return out
}

// SiteIDs returns the site identifiers in order.
func SiteIDs(sites []Site) []string {
	ids := make([]string, len(sites))
	for i, s := range sites {
		ids[i] = s.ID
	}
	return ids
}

// RuptureIDs returns the rupture identifiers in order.
func RuptureIDs(rs []rupture.Rupture) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

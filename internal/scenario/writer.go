package scenario

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/rupture-cli/internal/distance"
)

// Result is a computed matrix labelled with its sites and ruptures.
type Result struct {
	RunID     string           `json:"run_id,omitempty"`
	Metric    distance.Name    `json:"metric"`
	Sites     []string         `json:"sites"`
	Ruptures  []string         `json:"ruptures"`
	Distances [][]float64      `json:"distances"`
	Matrix    *distance.Matrix `json:"-"`
}

// NewResult labels m, which must be len(sites) x len(ruptures).
func NewResult(metric distance.Name, sites, ruptures []string, m *distance.Matrix) (*Result, error) {
	if m.Rows != len(sites) || m.Cols != len(ruptures) {
		return nil, eris.Errorf("scenario: matrix is %dx%d, have %d sites and %d ruptures",
			m.Rows, m.Cols, len(sites), len(ruptures))
	}
	return &Result{
		Metric:    metric,
		Sites:     sites,
		Ruptures:  ruptures,
		Distances: m.ToRows(),
		Matrix:    m,
	}, nil
}

// WriteCSV writes one row per site: the site ID followed by its distance to
// each rupture. The header names the ruptures.
func WriteCSV(w io.Writer, res *Result) error {
	cw := csv.NewWriter(w)
	header := append([]string{"site"}, res.Ruptures...)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "scenario: write csv header")
	}

	row := make([]string, len(res.Ruptures)+1)
	for i, site := range res.Sites {
		row[0] = site
		for j, d := range res.Distances[i] {
			row[j+1] = strconv.FormatFloat(d, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "scenario: write csv row %d", i)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "scenario: flush csv")
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return eris.Wrap(err, "scenario: write json")
	}
	return nil
}

package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/rupture-cli/internal/distance"
	"github.com/sells-group/rupture-cli/internal/rupture"
	"github.com/sells-group/rupture-cli/internal/scenario"
)

var (
	distancesScenario string
	distancesSites    string
	distancesRuptures string
	distancesMetric   string
	distancesFormat   string
	distancesOutput   string
)

var distancesCmd = &cobra.Command{
	Use:   "distances",
	Short: "Compute a site x rupture distance matrix",
	Long: `Computes the named distance metric between every site and every rupture.

Sites come from the scenario file or --sites (CSV, GeoJSON or shapefile);
ruptures from the scenario file or --ruptures (YAML or CSV). The metric
defaults to the scenario's, then to Rupture.

Examples:
  rupture-cli distances --scenario perth.yaml --metric Joyner_Boore
  rupture-cli distances --sites stations.geojson --ruptures faults.csv --format json --output out.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("distances"); err != nil {
			return err
		}
		if distancesFormat != "csv" && distancesFormat != "json" {
			return eris.Errorf("distances: unknown format %q", distancesFormat)
		}

		sc, err := loadInputs(ctx, distancesScenario, distancesSites, distancesRuptures)
		if err != nil {
			return eris.Wrap(err, "distances: load inputs")
		}

		metric := distance.Name(distancesMetric)
		if metric == "" {
			metric = sc.Metric
		}
		if metric == "" {
			metric = distance.Rupture
		}
		if _, err := distance.Lookup(metric); err != nil {
			return err
		}

		proj, err := cfg.Projection()
		if err != nil {
			return eris.Wrap(err, "distances: projection")
		}
		d, err := cfg.Dispatcher()
		if err != nil {
			return err
		}

		rs, err := rupture.DeriveAll(proj, sc.Ruptures)
		if err != nil {
			return eris.Wrap(err, "distances: derive ruptures")
		}

		runID := uuid.NewString()
		start := time.Now()
		m, err := d.Compute(ctx, metric, scenario.Columns(sc.Sites), rupture.Events(rs))
		if err != nil {
			return eris.Wrap(err, "distances: compute")
		}
		zap.L().Info("distances: computed",
			zap.String("run_id", runID),
			zap.String("metric", string(metric)),
			zap.Int("sites", m.Rows),
			zap.Int("ruptures", m.Cols),
			zap.Float64("nearest_km", m.Min()),
			zap.Duration("elapsed", time.Since(start)),
		)

		res, err := scenario.NewResult(metric, scenario.SiteIDs(sc.Sites), scenario.RuptureIDs(rs), m)
		if err != nil {
			return err
		}
		res.RunID = runID

		w, closeFn, err := openOutput(cmd, distancesOutput)
		if err != nil {
			return err
		}
		if distancesFormat == "json" {
			err = scenario.WriteJSON(w, res)
		} else {
			err = scenario.WriteCSV(w, res)
		}
		if cerr := closeFn(); err == nil {
			err = cerr
		}
		return err
	},
}

func init() {
	distancesCmd.Flags().StringVar(&distancesScenario, "scenario", "", "scenario YAML file")
	distancesCmd.Flags().StringVar(&distancesSites, "sites", "", "site file (.csv, .geojson, .shp)")
	distancesCmd.Flags().StringVar(&distancesRuptures, "ruptures", "", "rupture file (.yaml, .csv)")
	distancesCmd.Flags().StringVar(&distancesMetric, "metric", "", "distance metric (see rupture-cli metrics)")
	distancesCmd.Flags().StringVar(&distancesFormat, "format", "csv", "output format: csv or json")
	distancesCmd.Flags().StringVarP(&distancesOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(distancesCmd)
}

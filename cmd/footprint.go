package main

import (
	"encoding/hex"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/rupture-cli/internal/rupture"
)

var (
	footprintScenario string
	footprintRuptures string
)

var footprintCmd = &cobra.Command{
	Use:   "footprint",
	Short: "Print each rupture's surface projection as EWKB hex",
	Long: `Prints one line per rupture: its ID and the hex-encoded EWKB (SRID 4326)
of its surface projection, ready for PostGIS ST_GeomFromEWKB.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sc, err := loadInputs(cmd.Context(), footprintScenario, "", footprintRuptures)
		if err != nil {
			return eris.Wrap(err, "footprint: load inputs")
		}
		proj, err := cfg.Projection()
		if err != nil {
			return eris.Wrap(err, "footprint: projection")
		}

		out := cmd.OutOrStdout()
		for _, r := range sc.Ruptures {
			g, err := rupture.Footprint(proj, r)
			if err != nil {
				return eris.Wrapf(err, "footprint: rupture %s", r.ID)
			}
			data, err := rupture.EncodeEWKB(g)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\n", r.ID, hex.EncodeToString(data))
		}
		return nil
	},
}

func init() {
	footprintCmd.Flags().StringVar(&footprintScenario, "scenario", "", "scenario YAML file")
	footprintCmd.Flags().StringVar(&footprintRuptures, "ruptures", "", "rupture file (.yaml, .csv)")
	rootCmd.AddCommand(footprintCmd)
}

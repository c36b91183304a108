package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/rupture-cli/internal/scenario"
)

// loadInputs assembles a scenario from an optional scenario file plus
// optional site and rupture files. Files given on the command line replace
// the scenario's own sites or ruptures.
func loadInputs(ctx context.Context, scenarioPath, sitesPath, rupturesPath string) (*scenario.Scenario, error) {
	sc := &scenario.Scenario{}
	if scenarioPath != "" {
		loaded, err := scenario.Load(ctx, scenarioPath)
		if err != nil {
			return nil, err
		}
		sc = loaded
	}

	if sitesPath != "" {
		sites, err := scenario.LoadSites(ctx, sitesPath)
		if err != nil {
			return nil, err
		}
		sc.Sites = sites
	}
	if rupturesPath != "" {
		rs, err := scenario.LoadRuptures(ctx, rupturesPath)
		if err != nil {
			return nil, err
		}
		sc.Ruptures = rs
	}

	if len(sc.Ruptures) == 0 {
		return nil, eris.New("no ruptures given: use --scenario or --ruptures")
	}
	scenario.AssignIDs(sc.Sites, sc.Ruptures)
	return sc, nil
}

// openOutput returns stdout for an empty path.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output %s", path)
	}
	return f, f.Close, nil
}

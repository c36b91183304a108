package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/rupture-cli/internal/distance"
)

var metricsJSON bool

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the available distance metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		type row struct {
			Name     distance.Name `json:"name"`
			Requires []string      `json:"requires"`
			Signed   bool          `json:"signed"`
		}
		var rows []row
		for _, n := range distance.Catalog() {
			m, err := distance.Lookup(n)
			if err != nil {
				return err
			}
			rows = append(rows, row{Name: n, Requires: m.Requires().Inputs(), Signed: m.Signed()})
		}

		out := cmd.OutOrStdout()
		if metricsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSIGNED\tREQUIRES")
		for _, r := range rows {
			req := strings.Join(r.Requires, ",")
			if req == "" {
				req = "-"
			}
			fmt.Fprintf(tw, "%s\t%t\t%s\n", r.Name, r.Signed, req)
		}
		return tw.Flush()
	},
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(metricsCmd)
}

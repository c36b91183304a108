package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/rupture-cli/internal/config"
)

var (
	cfg           *config.Config
	traceShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "rupture-cli",
	Short: "Source-to-site distance metrics for rectangular earthquake ruptures",
	Long:  "Computes epicentral, hypocentral, Joyner-Boore, rupture and related distance matrices between sites and finite ruptures, in batch or over HTTP.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		shutdown, err := config.InitTracing(ctx, cfg.Trace)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		traceShutdown = shutdown

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		config.ShutdownTracing(traceShutdown)
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/rupture-cli/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the distance HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		srv, err := newServer()
		if err != nil {
			return err
		}

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("projection", cfg.Distance.Projection),
		)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newServer wires the dispatcher, projection and metrics from cfg.
func newServer() (*server.Server, error) {
	proj, err := cfg.Projection()
	if err != nil {
		return nil, eris.Wrap(err, "serve: projection")
	}
	d, err := cfg.Dispatcher()
	if err != nil {
		return nil, err
	}
	collector, err := server.NewCollector(nil)
	if err != nil {
		return nil, err
	}
	return server.New(d, proj,
		server.WithCollector(collector),
		server.WithRateLimit(cfg.Server.RateLimit, cfg.Server.Burst),
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		server.WithMaxCells(cfg.Server.MaxCells),
	), nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

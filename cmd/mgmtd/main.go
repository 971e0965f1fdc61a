package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asconsole/pkg/config"
	"asconsole/pkg/logging"
	"asconsole/pkg/mgmt"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var (
		cfgPath  string
		logLevel string
		tps      float64
	)

	rootCmd := &cobra.Command{
		Use:   "mgmtd",
		Short: "Standalone management endpoint serving an in-memory server model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath == "" {
				cfgPath = config.ResolveEndpointConfigPath()
			}
			cfg, err := config.LoadEndpointConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load endpoint config %q: %w", cfgPath, err)
			}
			if cmd.Flags().Changed("tps") {
				cfg.WorkloadTPS = tps
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			log := logging.Setup("mgmtd", logLevel, nil)

			srv, err := mgmt.NewServer(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv.Start(ctx)
			defer srv.Stop()

			httpServer := &http.Server{
				Addr:              cfg.ListenAddr(),
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				errCh <- httpServer.ListenAndServe()
			}()
			log.WithField("addr", cfg.ListenAddr()).WithField("config", cfgPath).Info("management endpoint listening")

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("management endpoint failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "endpoint config file (default $"+config.EnvEndpointConfig+" or "+config.DefaultEndpointConfigPath+")")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().Float64Var(&tps, "tps", 0, "simulated transactions per second (overrides workload_tps)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

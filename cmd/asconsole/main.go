package main

import (
	"fmt"
	"os"

	"asconsole/pkg/config"
	"asconsole/pkg/logging"
	"asconsole/pkg/ui"

	"github.com/spf13/cobra"
)

func main() {
	var (
		cfgPath  string
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:   "asconsole",
		Short: "Desktop console for an application server management endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath == "" {
				cfgPath = config.ResolveConsoleConfigPath()
			}
			cfg, err := config.LoadConsoleConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load console config %q: %w", cfgPath, err)
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			log := logging.Setup("console", logLevel, nil)
			log.WithField("config", cfgPath).WithField("endpoint", cfg.BaseURL()).Info("starting console")

			ui.NewConsoleApp(cfg).Run()
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "console config file (default $"+config.EnvConsoleConfig+" or "+config.DefaultConsoleConfigPath+")")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

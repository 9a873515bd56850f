package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sitegear/sitegear/middlewares"
	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/logger"
)

// env is what every command gets after the root loads configuration.
type env struct {
	cfg *viper.Viper
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		siteRoot   string
		e          env
	)

	root := &cobra.Command{
		Use:          "sitegear",
		Short:        "Serve multi-step forms for a Sitegear site",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := engine.LoadConfig(configFile)
			if err != nil {
				return err
			}
			if siteRoot != "" {
				cfg.Set("site.root", siteRoot)
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{
				Output:            cmd.ErrOrStderr(),
				Level:             cfg.GetString("log.level"),
				Format:            cfg.GetString("log.format"),
				SentryDSN:         cfg.GetString("log.sentry-dsn"),
				SentryEnvironment: cfg.GetString("log.sentry-environment"),
			}, middlewares.RequestIDExtractor())
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default sitegear.{yaml,json,toml} in the working directory)")
	root.PersistentFlags().StringVar(&siteRoot, "site-root", "", "site directory, overriding site.root")

	root.AddCommand(
		newServeCmd(&e),
		newCheckCmd(&e),
		newMigrateCmd(&e),
	)
	return root
}

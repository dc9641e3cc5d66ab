package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcabrera/teamquote/internal/config"
	"github.com/mcabrera/teamquote/internal/logger"
	"github.com/mcabrera/teamquote/internal/server"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the quote wizard, candidate recommendations and stored quotes.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON config file (environment variables take precedence)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if serveConfigPath != "" {
		fileCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	} else {
		merged := cfg.MergeWithDefaults(config.Config{})
		cfg = &merged
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.NewSugared(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.New(context.Background(), server.Config{
		Addr:           cfg.ListenAddr,
		DatabaseURL:    cfg.DatabaseURL,
		MigrationsDir:  cfg.MigrationsDir,
		PoolServiceURL: cfg.PoolServiceURL,
		RatesURL:       cfg.RatesURL,
		GeoServiceURL:  cfg.GeoServiceURL,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantumventures/credentials/credentials"
	"github.com/quantumventures/credentials/internal/api"
	"github.com/quantumventures/credentials/internal/provider"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve provider health and metrics over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mgr, err := provider.FromConfig(ctx, cfg.Providers)
	if err != nil {
		return err
	}

	srv := api.NewServer(cfg, mgr)
	srv.SetGatherer(reg)

	creds, err := credentials.New(ctx, mgr, append(credentials.ConfigOptions(cfg), credentials.WithRegisterer(reg))...)
	if err != nil {
		// Health stays useful for diagnosing why loading failed.
		log.Error().Err(err).Msg("credentials not loaded, /v1/descriptor unavailable")
	} else {
		srv.SetCredentials(creds)
	}

	if cfg.APIToken == "" {
		log.Warn().Msg("QV_API_TOKEN not set, /v1/descriptor is unauthenticated")
	}
	return srv.Start(ctx)
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pinmap/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the map page and the pins JSON API",
	Long: `Serve starts an HTTP server with the map page at /, the pins API at
/api/pins?search=<term>&location=<place>, a liveness probe at /healthz and
Prometheus metrics at /metrics. It shuts down cleanly on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		if cfg.Map.GoogleAPIKey == "" {
			logger.Warn("no Google Maps API key configured; the map page will list pins without a map")
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		finder, err := newFinder(cfg, reg)
		if err != nil {
			return err
		}
		h, err := web.New(finder, cfg.Map, cfg.Server.DefaultLocation, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting pinmap",
			zap.String("version", version),
			zap.String("addr", cfg.Server.Addr),
			zap.String("api_host", cfg.Yelp.APIHost),
			zap.String("default_location", cfg.Server.DefaultLocation),
		)
		return web.Serve(ctx, cfg.Server.Addr, web.NewRouter(h, reg, logger), logger)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

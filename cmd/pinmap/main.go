// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pinmap CLI and web server.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pinmap/internal/logging"
	"github.com/pdiddy/pinmap/internal/metrics"
	"github.com/pdiddy/pinmap/internal/pins"
	"github.com/pdiddy/pinmap/internal/secrets"
	"github.com/pdiddy/pinmap/internal/yelp"
	"github.com/pdiddy/pinmap/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds credentials read from the secrets directory at startup.
	loadedSecrets secrets.Store

	logger = zap.NewNop()

	keyReplacer = strings.NewReplacer(".", "_")
)

// rootCmd is the base command for the pinmap CLI.
var rootCmd = &cobra.Command{
	Use:   "pinmap",
	Short: "Search Yelp for businesses and show them as map pins",
	Long: `pinmap exchanges Yelp client credentials for a bearer token, runs a
business search for a term near a location, and turns each result into a
map pin with a title and coordinates.

Use "search" to print pins in the terminal, or "serve" to run the map page
and the pins JSON API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetString("log.level"), viper.GetString("log.format"))
		if err != nil {
			return err
		}
		logger = l

		dir := viper.GetString("secrets_dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.String("dir", dir), zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./pinmap.yaml or ~/.config/pinmap/pinmap.yaml)")
	pf.String("secrets-dir", ".secrets", "directory of secret files (yelp-client-id, yelp-client-secret, google-maps-api-key)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")

	viper.BindPFlag("secrets_dir", pf.Lookup("secrets-dir"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.format", pf.Lookup("log-format"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every config key so that environment variables
// are picked up for all of them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("yelp.client_id", "")
	v.SetDefault("yelp.client_secret", "")
	v.SetDefault("yelp.api_host", yelp.DefaultAPIHost)
	v.SetDefault("yelp.max_retries", 0)
	v.SetDefault("http.timeout", yelp.DefaultTimeout)
	v.SetDefault("http.user_agent", "pinmap/"+version)
	v.SetDefault("search.location", "San Diego")
	v.SetDefault("map.google_api_key", "")
	v.SetDefault("map.center_lat", 32.7096298)
	v.SetDefault("map.center_lng", -117.1602029)
	v.SetDefault("map.zoom", 11)
	v.SetDefault("server.addr", ":8080")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pinmap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pinmap"))
		}
	}

	viper.SetEnvPrefix("PINMAP")
	viper.SetEnvKeyReplacer(keyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the application config from v, filling unset
// credentials from the secrets store. Missing Yelp credentials are an error.
func loadConfig(v *viper.Viper, s secrets.Store) (types.AppConfig, error) {
	cfg := types.AppConfig{
		Yelp: types.YelpConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("http.timeout"),
				UserAgent: v.GetString("http.user_agent"),
			},
			Credentials: types.Credentials{
				ClientID:     s.Or(secrets.YelpClientID, v.GetString("yelp.client_id")),
				ClientSecret: s.Or(secrets.YelpClientSecret, v.GetString("yelp.client_secret")),
			},
			APIHost:    v.GetString("yelp.api_host"),
			MaxRetries: v.GetInt("yelp.max_retries"),
		},
		Map: types.MapConfig{
			GoogleAPIKey: s.Or(secrets.GoogleMapsAPIKey, v.GetString("map.google_api_key")),
			CenterLat:    v.GetFloat64("map.center_lat"),
			CenterLng:    v.GetFloat64("map.center_lng"),
			Zoom:         v.GetInt("map.zoom"),
		},
		Server: types.ServerConfig{
			Addr:            v.GetString("server.addr"),
			DefaultLocation: v.GetString("search.location"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if cfg.Yelp.Timeout <= 0 {
		cfg.Yelp.Timeout = yelp.DefaultTimeout
	}
	if cfg.Yelp.Timeout > time.Minute {
		return cfg, fmt.Errorf("http.timeout %v is too long (max 1m)", cfg.Yelp.Timeout)
	}

	if err := cfg.Yelp.Credentials.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: set yelp.client_id and yelp.client_secret in the config file, "+
			"PINMAP_YELP_CLIENT_ID and PINMAP_YELP_CLIENT_SECRET, or the %s and %s secret files",
			err, secrets.YelpClientID, secrets.YelpClientSecret)
	}
	return cfg, nil
}

// newFinder builds the search pipeline for cfg.
// Metrics are recorded only when reg is non-nil.
func newFinder(cfg types.AppConfig, reg prometheus.Registerer) (*pins.Finder, error) {
	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	client, err := yelp.NewClient(cfg.Yelp, yelp.WithLogger(logger), yelp.WithMetrics(m))
	if err != nil {
		return nil, err
	}
	return &pins.Finder{Searcher: client, Log: logger, Metrics: m}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

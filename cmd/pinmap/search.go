package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pinmap/internal/pins"
)

var searchCmd = &cobra.Command{
	Use:   "search [term...]",
	Short: "Search Yelp and print the results as pins",
	Long: `Search exchanges the configured client credentials for a bearer token,
queries Yelp for businesses matching the term near the location (radius 500 m,
at most 5 results), and prints one pin per business in provider order.

With no term nothing is requested and no results are printed.`,
	Example: `  pinmap search burrito --location "san francisco"
  pinmap search seafood --location seattle --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}

		finder, err := newFinder(cfg, nil)
		if err != nil {
			return err
		}

		term := strings.Join(args, " ")
		location := cfg.Server.DefaultLocation
		logger.Debug("searching", zap.String("term", term), zap.String("location", location))

		result, err := finder.Find(cmd.Context(), term, location)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return pins.Write(result, format, cmd.OutOrStdout())
	},
}

func init() {
	searchCmd.Flags().String("location", "San Diego", "location to search near")
	searchCmd.Flags().String("format", "table", "output format: table, json, yaml")

	viper.BindPFlag("search.location", searchCmd.Flags().Lookup("location"))

	rootCmd.AddCommand(searchCmd)
}

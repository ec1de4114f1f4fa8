package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "biotica",
	Short: "Biotica - hydrobiological observation query and export engine",
	Long: `Biotica serves a curated store of hydrobiological observation records.

It provides an HTTP API for:
  - Allow-listed, parameterized filter queries with keyword search
  - Per-record projection of planar coordinates to WGS84
  - Deterministic CSV and styled XLSX export artifacts
  - Time-based artifact retention with a background sweep`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

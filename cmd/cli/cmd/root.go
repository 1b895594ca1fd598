// Package cmd provides the CLI commands for landed-cost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"landed-cost/internal/config"
	"landed-cost/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "landed-cost",
	Short: "Cross-border landed cost and shipping policy calculator",
	Long: `landed-cost prices cross-border listings: it classifies duty
exposure, benchmarks shipping against reference carrier rates, derives
compliant display prices, and grades profitability.

Examples:
  landed-cost quote --country US --price 120 --cost-local 9800 --tariff 9101.11 --origin JP --weight 0.8
  landed-cost policy --price 120 --cost 65 --tariff 9101.11 --origin JP --weight-min 0.5 --weight-max 1
  landed-cost policy --format json --price 80 --cost 40 --tariff 950300 --origin JP --weight-min 1 --weight-max 2`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is builtin configuration)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("landed-cost version 0.1.0")
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fundrank",
	Short: "fundrank - composite company ranking engine",
	Long: `fundrank ranks companies by investment attractiveness from their
fundamental metrics, scored under a named investment philosophy.

Usage:
  go run ./cmd/fundrank [command]

Examples:
  go run ./cmd/fundrank api
  go run ./cmd/fundrank rank --input companies.json --philosophy buffett
  go run ./cmd/fundrank philosophies`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

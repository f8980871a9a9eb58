// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "netwatch",
	Short: "netwatch - Live network traffic dashboard for one interface",
	Long: `netwatch captures packets on a network interface and renders a rolling,
time-windowed view of traffic volume and packet-size distribution in an
interactive terminal dashboard.

Keybindings:
  q    quit
  +    widen the sample window by 10
  -    narrow the sample window by 10 (floor 10)`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "netwatch.yml",
		"config file path")
}

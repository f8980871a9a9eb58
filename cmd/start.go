package cmd

import (
	"github.com/spf13/cobra"

	"firestige.xyz/netwatch/internal/app"
	"firestige.xyz/netwatch/internal/config"
	"firestige.xyz/netwatch/internal/log"
)

var ifaceOverride string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Capture packets and render the live dashboard",
	Long: `
Start capturing on an interface and render the dashboard until q is pressed.

Examples:
  netwatch start                  # Capture on the first non-loopback interface
  netwatch start -i eth0          # Capture on eth0
  netwatch start -c netwatch.yml  # Load settings from netwatch.yml
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The default config path is optional; an explicit -c must exist.
		var (
			cfg *config.Config
			err error
		)
		if cmd.Flags().Changed("config") {
			cfg, err = config.Load(configFile)
		} else {
			cfg, err = config.LoadOrDefault(configFile)
		}
		if err != nil {
			return err
		}

		if ifaceOverride != "" {
			cfg.Capture.Interface = ifaceOverride
		}

		if err := log.Init(cfg.Log); err != nil {
			return err
		}

		return app.Run(cfg)
	},
	SilenceUsage: true,
}

func init() {
	startCmd.Flags().StringVarP(&ifaceOverride, "interface", "i", "", "capture interface (overrides config)")
	rootCmd.AddCommand(startCmd)
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"firestige.xyz/netwatch/internal/capture"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List capture-capable network interfaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		devs, err := capture.Devices()
		if err != nil {
			return err
		}
		if len(devs) == 0 {
			fmt.Println("No capture devices found (missing privileges?)")
			return nil
		}

		fmt.Println("Capture interfaces:")
		for i, d := range devs {
			desc := d.Description
			if desc == "" {
				desc = "-"
			}
			addrs := "-"
			if len(d.Addresses) > 0 {
				addrs = strings.Join(d.Addresses, ", ")
			}
			fmt.Printf("%2d. %-16s %-40s %s\n", i+1, d.Name, desc, addrs)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

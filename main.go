// Package main is the entry point for the netwatch live traffic dashboard.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/netwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

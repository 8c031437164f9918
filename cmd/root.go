package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wirechan",
	Short: "Pluggable peer channels over TCP",
	Long:  Cyan + Bold + logoSmall + Reset + "\n  " + Dim + "Relay hubs, peer registry and protocol channels in Go" + Reset,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

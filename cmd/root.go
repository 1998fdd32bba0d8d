package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "auction-monitor",
	Short: "DutchX auction monitor",
	Long: `DutchX auction monitor that tracks token-pair auctions on the
DutchX exchange, classifies each auction as scheduled, running or ended,
and serves the derived state over HTTP and websocket.

The monitor polls the exchange contract for the configured trading pairs,
persists every state transition and keeps the latest snapshot per pair in
memory for the API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

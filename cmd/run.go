package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fairdex/auction-monitor/internal/app"
	"github.com/fairdex/auction-monitor/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the auction monitor",
	Long: `Starts the DutchX auction monitor, which will:
1. Load the token list and configured trading pairs
2. Poll the exchange contract for each pair's newest auction
3. Persist every auction state transition
4. Serve snapshots over HTTP and push updates over websocket

Use --pair to track only specific pairs for debugging.`,
	RunE: runMonitor,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceP("pair", "p", nil, "Track only the given SELL-BUY pairs (for debugging)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pairs, _ := cmd.Flags().GetStringSlice("pair")

	application, err := app.New(cfg, logger, &app.Options{
		Pairs: pairs,
	})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}

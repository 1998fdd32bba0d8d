package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fairdex/auction-monitor/internal/dx"
	"github.com/fairdex/auction-monitor/internal/registry"
	"github.com/fairdex/auction-monitor/pkg/cache"
	"github.com/fairdex/auction-monitor/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List configured tokens",
	Long: `Loads the token list and prints each token with its contract
address and, with --prices, its current ETH price from the exchange.`,
	RunE: runTokens,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().BoolP("prices", "p", false, "Fetch current ETH prices")
}

func runTokens(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

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

	client, err := dx.NewClient(ctx, dx.Config{
		RPCURL:          cfg.EthRPCURL,
		ContractAddress: common.HexToAddress(cfg.DXContractAddr),
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("create contract client: %w", err)
	}
	defer client.Close()

	priceCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: cfg.CacheNumCounters,
		MaxCost:     cfg.CacheMaxCost,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	defer priceCache.Close()

	tokens, err := registry.New(registry.Config{
		TokensFile: cfg.TokensFile,
		Prices:     client,
		Cache:      priceCache,
		PriceTTL:   cfg.PriceCacheTTL,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("load token registry: %w", err)
	}

	withPrices, _ := cmd.Flags().GetBool("prices")
	if withPrices {
		tokens.RefreshPrices(ctx)
	}

	list := tokens.Tokens()
	sort.Slice(list, func(i, j int) bool { return list[i].Symbol < list[j].Symbol })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if withPrices {
		fmt.Fprintln(w, "SYMBOL\tDECIMALS\tADDRESS\tPRICE (ETH)")
	} else {
		fmt.Fprintln(w, "SYMBOL\tDECIMALS\tADDRESS")
	}

	for _, token := range list {
		if withPrices {
			price := "-"
			if token.PriceEth != nil {
				price = token.PriceEth.String()
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", token.Symbol, token.Decimals, token.Address.Hex(), price)
		} else {
			fmt.Fprintf(w, "%s\t%d\t%s\n", token.Symbol, token.Decimals, token.Address.Hex())
		}
	}

	return nil
}
